package services

import (
	"context"
	"sync"
	"time"

	"github.com/saeid-a/CoachDashboard/internal/models"
	"go.uber.org/zap"
)

const DefaultPollInterval = 30 * time.Second

type statsSource interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type statsPublisher interface {
	PublishStats(snapshot models.StatsSnapshot)
}

// StatsPoller refreshes dashboard stats once on Start and then on every tick
// until Stop is called or the context is cancelled.
type StatsPoller struct {
	source    statsSource
	publisher statsPublisher
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	latest  *models.StatsSnapshot
	cancel  context.CancelFunc
	stopped chan struct{}
}

func NewStatsPoller(
	source statsSource,
	publisher statsPublisher,
	interval time.Duration,
	logger *zap.Logger,
) *StatsPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatsPoller{
		source:    source,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *StatsPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.stopped = make(chan struct{})
	stopped := p.stopped
	p.mu.Unlock()

	go func() {
		defer close(stopped)
		p.refreshQuietly(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refreshQuietly(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight refresh to finish.
func (p *StatsPoller) Stop() {
	p.mu.Lock()
	cancel, stopped := p.cancel, p.stopped
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

// Refresh fetches stats now, stores the snapshot and publishes it.
func (p *StatsPoller) Refresh(ctx context.Context) error {
	stats, err := p.source.DashboardStats(ctx)
	if err != nil {
		return err
	}
	snapshot := models.StatsSnapshot{Stats: *stats, RefreshedAt: p.now().UTC()}

	p.mu.Lock()
	p.latest = &snapshot
	p.mu.Unlock()

	if p.publisher != nil {
		p.publisher.PublishStats(snapshot)
	}
	return nil
}

func (p *StatsPoller) Latest() (models.StatsSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return models.StatsSnapshot{}, false
	}
	return *p.latest, true
}

// refreshQuietly keeps the previous snapshot when a refresh fails.
func (p *StatsPoller) refreshQuietly(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("Stats refresh failed", zap.Error(err))
	}
}
