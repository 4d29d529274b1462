package dashboardws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/saeid-a/CoachDashboard/internal/models"
	"go.uber.org/zap"
)

func receive(t *testing.T, ch <-chan []byte) Message {
	t.Helper()
	select {
	case payload, ok := <-ch:
		if !ok {
			t.Fatalf("send channel closed unexpectedly")
		}
		var message Message
		if err := json.Unmarshal(payload, &message); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		return message
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for hub message")
	}
	return Message{}
}

func TestHubBroadcastsAndReplaysLatestSnapshot(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	first := NewClient(hub, nil, "admin-1")
	hub.Register(first)

	hub.PublishStats(models.StatsSnapshot{
		Stats:       models.DashboardStats{TotalCoaches: 3, PendingCoaches: 1},
		RefreshedAt: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC),
	})

	message := receive(t, first.send)
	if message.Type != "stats" || message.Stats == nil || message.Stats.Stats.TotalCoaches != 3 {
		t.Fatalf("unexpected message: %+v", message)
	}
	if message.Timestamp != "2030-01-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp %q", message.Timestamp)
	}

	late := NewClient(hub, nil, "admin-2")
	hub.Register(late)
	replayed := receive(t, late.send)
	if replayed.Stats == nil || replayed.Stats.Stats.PendingCoaches != 1 {
		t.Fatalf("expected latest snapshot replay, got %+v", replayed)
	}
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := NewClient(hub, nil, "admin-1")
	hub.Register(client)
	cancel()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatalf("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatalf("client was not closed on shutdown")
	}

	latecomer := NewClient(hub, nil, "admin-2")
	hub.Register(latecomer)
	if _, ok := <-latecomer.send; ok {
		t.Fatalf("expected registration after shutdown to close the client")
	}
	hub.Unregister(client)
}
