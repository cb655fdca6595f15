package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
	"github.com/ErlanBelekov/task-api/internal/usecase"
)

// memTasks stores tasks in insertion order.
type memTasks struct {
	tasks []*domain.Task
	err   error
}

func (m *memTasks) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	created := *task
	created.ID = int64(len(m.tasks) + 1)
	m.tasks = append(m.tasks, &created)
	return &created, nil
}

func (m *memTasks) ListByUserID(_ context.Context, userID int64) ([]*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestCreateTask_Validation(t *testing.T) {
	uc := usecase.NewTaskUsecase(&memTasks{})

	cases := []struct {
		name  string
		input usecase.CreateTaskInput
		want  error
	}{
		{"non-integer user", usecase.CreateTaskInput{UserID: "abc", Title: "t", Description: "d"}, domain.ErrInvalidUserID},
		{"empty user", usecase.CreateTaskInput{Title: "t", Description: "d"}, domain.ErrInvalidUserID},
		{"missing title", usecase.CreateTaskInput{UserID: "1", Description: "d"}, domain.ErrMissingTaskFields},
		{"missing description", usecase.CreateTaskInput{UserID: "1", Title: "t"}, domain.ErrMissingTaskFields},
		{"bad deadline", usecase.CreateTaskInput{UserID: "1", Title: "t", Description: "d", Deadline: "not-a-date"}, domain.ErrInvalidDeadline},
		{"impossible date", usecase.CreateTaskInput{UserID: "1", Title: "t", Description: "d", Deadline: "2026-02-30"}, domain.ErrInvalidDeadline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateTask(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Errorf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateTask_ParsesDeadline(t *testing.T) {
	uc := usecase.NewTaskUsecase(&memTasks{})

	cases := map[string]time.Time{
		"2026-03-01":                time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		"2026-03-01T10:30:00Z":      time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		"2026-03-01T10:30:00+02:00": time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		"2026-03-01T10:30:00":       time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		task, err := uc.CreateTask(context.Background(), usecase.CreateTaskInput{UserID: "7", Title: "t", Description: "d", Deadline: raw})
		if err != nil {
			t.Fatalf("CreateTask(%q): %v", raw, err)
		}
		if task.Deadline == nil || !task.Deadline.Equal(want) {
			t.Errorf("deadline for %q = %v, want %v", raw, task.Deadline, want)
		}
	}
}

func TestCreateTask_NoDeadline(t *testing.T) {
	uc := usecase.NewTaskUsecase(&memTasks{})

	task, err := uc.CreateTask(context.Background(), usecase.CreateTaskInput{UserID: "7", Title: "t", Description: "d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Deadline != nil {
		t.Errorf("deadline = %v, want nil", task.Deadline)
	}
	if task.UserID != 7 {
		t.Errorf("userID = %d, want 7", task.UserID)
	}
}

func TestListTasks_ScopedToOwner(t *testing.T) {
	uc := usecase.NewTaskUsecase(&memTasks{})
	ctx := context.Background()

	mine, _ := uc.CreateTask(ctx, usecase.CreateTaskInput{UserID: "1", Title: "mine", Description: "d"})
	_, _ = uc.CreateTask(ctx, usecase.CreateTaskInput{UserID: "2", Title: "theirs", Description: "d"})

	got, err := uc.ListTasks(ctx, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Errorf("ListTasks(1) = %+v, want only task %d", got, mine.ID)
	}
}

func TestListTasks_EmptyIsNonNil(t *testing.T) {
	uc := usecase.NewTaskUsecase(&memTasks{})

	got, err := uc.ListTasks(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestListTasks_InvalidUserID(t *testing.T) {
	uc := usecase.NewTaskUsecase(&memTasks{})

	if _, err := uc.ListTasks(context.Background(), "1.5"); !errors.Is(err, domain.ErrInvalidUserID) {
		t.Errorf("want ErrInvalidUserID, got %v", err)
	}
}

func TestTaskRepoError_Propagates(t *testing.T) {
	repoErr := errors.New("db down")
	uc := usecase.NewTaskUsecase(&memTasks{err: repoErr})

	if _, err := uc.CreateTask(context.Background(), usecase.CreateTaskInput{UserID: "1", Title: "t", Description: "d"}); !errors.Is(err, repoErr) {
		t.Errorf("create: want wrapped repoErr, got %v", err)
	}
	if _, err := uc.ListTasks(context.Background(), "1"); !errors.Is(err, repoErr) {
		t.Errorf("list: want wrapped repoErr, got %v", err)
	}
}
