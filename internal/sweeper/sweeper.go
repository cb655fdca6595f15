package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/task-api/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Purger is satisfied by the in-memory verification store.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
	Len() int
}

// Sweeper periodically removes expired verification entries so abandoned
// codes do not accumulate in process memory.
type Sweeper struct {
	store  Purger
	logger *slog.Logger
	spec   string
	now    func() time.Time
}

func NewSweeper(store Purger, logger *slog.Logger, spec string) *Sweeper {
	return &Sweeper{
		store:  store,
		logger: logger.With("component", "sweeper"),
		spec:   spec,
		now:    time.Now,
	}
}

// Start runs the sweep on the cron spec until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.Sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", s.spec, err)
	}

	c.Start()
	s.logger.Info("sweeper started", "spec", s.spec)

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("sweeper shut down")
	return nil
}

// Sweep runs one purge pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	removed, err := s.store.PurgeExpired(ctx, s.now())
	if err != nil {
		s.logger.ErrorContext(ctx, "purge expired verification entries", "error", err)
		return
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "purged expired verification entries", "count", removed)
		metrics.VerificationSweptTotal.Add(float64(removed))
	}
	metrics.PendingVerifications.Set(float64(s.store.Len()))
}
