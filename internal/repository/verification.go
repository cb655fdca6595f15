package repository

import (
	"context"

	"github.com/ErlanBelekov/task-api/internal/domain"
)

// VerificationStore holds pending verification codes keyed by normalized email.
// Put overwrites any existing entry for the same email.
type VerificationStore interface {
	Put(ctx context.Context, entry domain.VerificationEntry) error
	// Get returns domain.ErrVerificationNotFound when no entry exists.
	Get(ctx context.Context, email string) (*domain.VerificationEntry, error)
	Delete(ctx context.Context, email string) error
}
