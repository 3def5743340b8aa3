package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/climate-scenario-dashboard/internal/observability"
)

// DefaultInterval is the autoplay tick period when none is configured.
const DefaultInterval = 1200 * time.Millisecond

// Advancer moves the year cutoff forward by one step.
type Advancer interface {
	AdvanceYear(ctx context.Context) error
}

// Autoplay periodically advances the year cutoff. At most one job runs at a
// time: Start on a running Autoplay and Stop on a stopped one do nothing.
type Autoplay struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	running   atomic.Bool

	advancer Advancer
	interval time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a stopped Autoplay.
func New(advancer Advancer, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Autoplay {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autoplay{
		advancer: advancer,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start schedules the repeating job. The first tick happens one interval after Start.
func (a *Autoplay) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scheduler != nil {
		return nil
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	_, err := s.Every(a.interval).WaitForSchedule().Do(a.tick)
	if err != nil {
		return err
	}
	s.StartAsync()

	a.scheduler = s
	a.running.Store(true)
	a.metrics.AutoplayRunning.Set(1)
	a.logger.Info("autoplay started", "interval", a.interval)
	return nil
}

// Stop cancels future ticks.
func (a *Autoplay) Stop() {
	a.mu.Lock()
	s := a.scheduler
	a.scheduler = nil
	a.running.Store(false)
	a.mu.Unlock()

	if s == nil {
		return
	}
	// Outside the lock: a tick in flight may be waiting on the dashboard,
	// which reads Running.
	s.Stop()
	a.metrics.AutoplayRunning.Set(0)
	a.logger.Info("autoplay stopped")
}

// Running reports whether the timer is active.
func (a *Autoplay) Running() bool {
	return a.running.Load()
}

func (a *Autoplay) tick() {
	if !a.running.Load() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.interval)
	defer cancel()

	if err := a.advancer.AdvanceYear(ctx); err != nil {
		a.logger.Error("autoplay tick failed", "error", err)
		return
	}
	a.metrics.AutoplayTicks.Inc()
}
