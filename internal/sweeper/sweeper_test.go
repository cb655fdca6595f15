package sweeper_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
	"github.com/ErlanBelekov/task-api/internal/infrastructure/memory"
	"github.com/ErlanBelekov/task-api/internal/metrics"
	"github.com/ErlanBelekov/task-api/internal/sweeper"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSweep_RemovesExpiredEntries(t *testing.T) {
	store := memory.NewVerificationStore()
	ctx := context.Background()
	_ = store.Put(ctx, domain.VerificationEntry{Email: "old@b.com", Code: 111111, ExpiresAt: time.Now().Add(-time.Minute)})
	_ = store.Put(ctx, domain.VerificationEntry{Email: "new@b.com", Code: 222222, ExpiresAt: time.Now().Add(time.Minute)})

	before := testutil.ToFloat64(metrics.VerificationSweptTotal)
	sweeper.NewSweeper(store, slog.Default(), "@every 1m").Sweep(ctx)

	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
	if _, err := store.Get(ctx, "new@b.com"); err != nil {
		t.Errorf("unexpired entry removed: %v", err)
	}
	if got := testutil.ToFloat64(metrics.VerificationSweptTotal) - before; got != 1 {
		t.Errorf("swept counter delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.PendingVerifications); got != 1 {
		t.Errorf("pending gauge = %v, want 1", got)
	}
}

type failingPurger struct{}

func (failingPurger) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, errors.New("boom")
}

func (failingPurger) Len() int { return 0 }

func TestSweep_ErrorIsLoggedNotFatal(t *testing.T) {
	sweeper.NewSweeper(failingPurger{}, slog.Default(), "@every 1m").Sweep(context.Background())
}

func TestStart_InvalidSpec(t *testing.T) {
	s := sweeper.NewSweeper(memory.NewVerificationStore(), slog.Default(), "not a cron spec")

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	s := sweeper.NewSweeper(memory.NewVerificationStore(), slog.Default(), "@every 1h")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
