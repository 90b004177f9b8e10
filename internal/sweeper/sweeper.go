// Package sweeper deletes event rows older than the retention period on
// a fixed schedule.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/store"
)

// Sweeper runs the periodic retention sweep. A failed run is logged and
// the schedule continues; runs are expected to finish well within the
// interval, so no overlap guard is taken.
type Sweeper struct {
	events    *store.EventRepository
	retention time.Duration
	interval  time.Duration
	clock     engine.Clock
	logger    *slog.Logger
}

// Config holds the sweeper construction parameters.
type Config struct {
	Events *store.EventRepository
	// RetentionDays controls how far back rows are kept.
	RetentionDays int
	// Interval is the schedule; zero defaults to one hour.
	Interval time.Duration
	// Clock overrides the wall clock; nil uses engine.SystemClock.
	Clock engine.Clock
	// Logger receives sweep reports; nil uses slog.Default.
	Logger *slog.Logger
}

// New creates a Sweeper.
func New(cfg Config) *Sweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	clock := cfg.Clock
	if clock == nil {
		clock = engine.SystemClock
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		events:    cfg.Events,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		clock:     clock,
		logger:    logger,
	}
}

// Run executes sweeps on the configured interval until the context is
// cancelled. It blocks; callers start it in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.Sweep()
			if err != nil {
				s.logger.Error("retention sweep failed", "error", err)
				continue
			}
			s.logger.Info("retention sweep complete", "deleted", deleted)
		}
	}
}

// Sweep deletes all rows older than the retention cutoff and returns
// how many were removed.
func (s *Sweeper) Sweep() (int64, error) {
	cutoff := s.clock() - s.retention.Seconds()

	deleted, err := s.events.DeleteBefore(cutoff)
	if err != nil {
		return 0, err
	}

	metrics.RecordRowsSwept(deleted)
	return deleted, nil
}
