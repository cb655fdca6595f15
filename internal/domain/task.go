package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrMissingTaskFields = errors.New("title and description are required")
	ErrInvalidDeadline   = errors.New("invalid deadline date")
)

type Task struct {
	ID          int64
	Title       string
	Description string
	Deadline    *time.Time // nil means no deadline
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
