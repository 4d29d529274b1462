// Package dashboardws streams dashboard stats refreshes to connected admin
// clients.
package dashboardws

import (
	"context"
	"encoding/json"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"go.uber.org/zap"
)

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	direct     chan directMessage
	done       chan struct{}
	latest     []byte
	logger     *zap.Logger
}

type directMessage struct {
	client  *Client
	payload []byte
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type refresher interface {
	Refresh(ctx context.Context) error
}

type Message struct {
	Type      string                `json:"type"`
	Stats     *models.StatsSnapshot `json:"stats,omitempty"`
	Content   string                `json:"content,omitempty"`
	Timestamp string                `json:"timestamp"`
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
		direct:     make(chan directMessage, 16),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

// Run owns the client set until ctx is cancelled. Only Run writes to or
// closes a client's send channel. New clients immediately receive the most
// recent snapshot.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			if h.latest != nil {
				h.offer(client, h.latest)
			}
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.deliver(message)
		case message := <-h.direct:
			if h.connected(message.client) {
				h.offer(message.client, message.payload)
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishStats queues a snapshot for every connected client without blocking
// the caller; snapshots are dropped when the queue is full.
func (h *Hub) PublishStats(snapshot models.StatsSnapshot) {
	message := &Message{
		Type:      "stats",
		Stats:     &snapshot,
		Timestamp: snapshot.RefreshedAt.UTC().Format(time.RFC3339),
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("Dropping stats snapshot, broadcast queue full")
	}
}

func (h *Hub) deliver(message *Message) {
	encoded, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to encode hub message", zap.Error(err))
		return
	}
	if message.Type == "stats" {
		h.latest = encoded
	}

	for _, set := range h.clients {
		for client := range set {
			h.offer(client, encoded)
		}
	}
}

// offer drops slow clients instead of blocking the hub.
func (h *Hub) offer(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		h.remove(client)
	}
}

func (h *Hub) connected(client *Client) bool {
	_, ok := h.clients[client.userID][client]
	return ok
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) closeAll() {
	for _, set := range h.clients {
		for client := range set {
			h.remove(client)
		}
	}
}

// ReadPump keeps the connection open and answers {"type":"refresh"} requests.
func (c *Client) ReadPump(ctx context.Context, source refresher) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.writeError("invalid message payload")
			continue
		}
		if incoming.Type != "refresh" {
			c.writeError("unsupported message type")
			continue
		}
		if err := source.Refresh(ctx); err != nil {
			c.writeError("failed to refresh stats")
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Client) writeError(message string) {
	payload, err := json.Marshal(Message{
		Type:      "error",
		Content:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	select {
	case c.hub.direct <- directMessage{client: c, payload: payload}:
	case <-c.hub.done:
	}
}
