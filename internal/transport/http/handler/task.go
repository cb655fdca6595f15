package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
	"github.com/ErlanBelekov/task-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type taskUsecaser interface {
	CreateTask(ctx context.Context, input usecase.CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*domain.Task, error)
}

type TaskHandler struct {
	taskUsecase taskUsecaser
	logger      *slog.Logger
}

func NewTaskHandler(taskUsecase taskUsecaser, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase, logger: logger.With("component", "task_handler")}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	UserID      int64      `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// POST /api/tasks
func (h *TaskHandler) Create(ctx *gin.Context) {
	var req createTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateTask(ctx.Request.Context(), usecase.CreateTaskInput{
		UserID:      ctx.GetString("userID"),
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		if msg, ok := taskValidationMessage(err); ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		h.logger.ErrorContext(ctx.Request.Context(), "create task", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

// GET /api/tasks
func (h *TaskHandler) List(ctx *gin.Context) {
	tasks, err := h.taskUsecase.ListTasks(ctx.Request.Context(), ctx.GetString("userID"))
	if err != nil {
		if msg, ok := taskValidationMessage(err); ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		h.logger.ErrorContext(ctx.Request.Context(), "list tasks", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	items := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = toTaskResponse(t)
	}
	ctx.JSON(http.StatusOK, items)
}

func taskValidationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidUserID):
		return errInvalidUserID, true
	case errors.Is(err, domain.ErrMissingTaskFields):
		return errMissingTaskField, true
	case errors.Is(err, domain.ErrInvalidDeadline):
		return errInvalidDeadline, true
	}
	return "", false
}
