package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
	"github.com/ErlanBelekov/task-api/internal/metrics"
	"github.com/ErlanBelekov/task-api/internal/repository"
)

// Accepted deadline layouts, tried in order.
var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type TaskUsecase struct {
	repo repository.TaskRepository
}

func NewTaskUsecase(repo repository.TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo}
}

type CreateTaskInput struct {
	UserID      string
	Title       string
	Description string
	Deadline    string // empty = no deadline
}

func (u *TaskUsecase) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	userID, err := parseUserID(input.UserID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, domain.ErrMissingTaskFields
	}

	var deadline *time.Time
	if strings.TrimSpace(input.Deadline) != "" {
		d, err := parseDeadline(input.Deadline)
		if err != nil {
			return nil, err
		}
		deadline = &d
	}

	created, err := u.repo.Create(ctx, &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Deadline:    deadline,
		UserID:      userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	metrics.TasksCreatedTotal.Inc()
	return created, nil
}

func (u *TaskUsecase) ListTasks(ctx context.Context, rawUserID string) ([]*domain.Task, error) {
	userID, err := parseUserID(rawUserID)
	if err != nil {
		return nil, err
	}

	tasks, err := u.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidUserID
	}
	return id, nil
}

func parseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.ErrInvalidDeadline
}
