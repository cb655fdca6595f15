package repository

import (
	"context"

	"github.com/ErlanBelekov/task-api/internal/domain"
)

type UserRepository interface {
	// FindByEmail expects an already normalized email. Returns domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
