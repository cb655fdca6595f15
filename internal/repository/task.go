package repository

import (
	"context"

	"github.com/ErlanBelekov/task-api/internal/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// ListByUserID returns the user's tasks ordered by id ASC.
	ListByUserID(ctx context.Context, userID int64) ([]*domain.Task, error)
}
