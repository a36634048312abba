package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"teamflow/internal/repository"
	"teamflow/internal/service"
)

type TaskHandler struct {
	poolService *service.PoolService
	taskRepo    *repository.TaskRepository
	userRepo    *repository.UserRepository
	logger      *zap.Logger
}

func NewTaskHandler(
	poolService *service.PoolService,
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *TaskHandler {
	return &TaskHandler{
		poolService: poolService,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// List returns a project's tasks, optionally filtered by ?status=pool|claimed|done.
func (h *TaskHandler) List(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	status := c.Query("status")
	tasks, err := h.taskRepo.ListByProject(c.Request.Context(), id, status)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// callerEmail resolves the authenticated user's email, which is how pool
// membership is keyed.
func (h *TaskHandler) callerEmail(c *gin.Context) (string, bool) {
	userID := c.GetInt("user_id")
	u, err := h.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return "", false
	}
	return u.Email, true
}

func taskIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("taskId"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) Claim(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	email, ok := h.callerEmail(c)
	if !ok {
		return
	}

	err := h.poolService.Claim(c.Request.Context(), taskID, email)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, service.ErrNotAMember):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrTaskNotAvailable):
			// Someone claimed it first.
			c.JSON(http.StatusConflict, gin.H{"error": "task is not in the pool"})
		default:
			h.logger.Error("Failed to claim task", zap.Int("task_id", taskID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"claimed": taskID, "member": email})
}

func (h *TaskHandler) Complete(c *gin.Context) {
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	email, ok := h.callerEmail(c)
	if !ok {
		return
	}

	err := h.poolService.Complete(c.Request.Context(), taskID, email)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, repository.ErrTaskNotAvailable):
			c.JSON(http.StatusConflict, gin.H{"error": "task is not claimed by you"})
		default:
			h.logger.Error("Failed to complete task", zap.Int("task_id", taskID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": taskID, "member": email})
}
