package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"teamflow/internal/planner"
	"teamflow/internal/service"
	"teamflow/pkg/circuitbreaker"
	"teamflow/pkg/logger"
)

type RoadmapHandler struct {
	roadmapService *service.RoadmapService
	logger         *zap.Logger
}

func NewRoadmapHandler(roadmapService *service.RoadmapService, logger *zap.Logger) *RoadmapHandler {
	return &RoadmapHandler{
		roadmapService: roadmapService,
		logger:         logger,
	}
}

// Generate runs the roadmap pipeline for a project. Pipeline errors carry a
// kind and a retryable hint so the frontend can decide between showing the
// message and offering a retry button.
func (h *RoadmapHandler) Generate(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	rm, err := h.roadmapService.Generate(ctx, id)
	if err != nil {
		h.respondGenerateError(c, id, err)
		return
	}

	logger.WithTrace(ctx, h.logger).Info("Roadmap generated",
		zap.Int("project_id", id),
		zap.Int("roadmap_id", rm.ID),
		zap.Int("stages", rm.Stages),
	)
	c.JSON(http.StatusCreated, rm)
}

func (h *RoadmapHandler) respondGenerateError(c *gin.Context, projectID int, err error) {
	kind := planner.KindOf(err)
	body := gin.H{
		"error":     err.Error(),
		"kind":      kind.String(),
		"retryable": planner.IsRetryable(err),
	}

	status := http.StatusInternalServerError
	switch kind {
	case planner.KindInput:
		// Missing charter, roster or capabilities: the caller can fix this.
		status = http.StatusUnprocessableEntity
	case planner.KindFormat, planner.KindSchema, planner.KindAssignment:
		status = http.StatusBadGateway
	default:
		if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
			status = http.StatusServiceUnavailable
			body["retryable"] = true
		}
	}

	h.logger.Warn("Roadmap generation failed",
		zap.Int("project_id", projectID),
		zap.String("kind", kind.String()),
		zap.Int("status", status),
		zap.Error(err),
	)
	c.JSON(status, body)
}

func (h *RoadmapHandler) Get(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	rm, err := h.roadmapService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "roadmap not found"})
			return
		}
		h.logger.Error("Failed to load roadmap", zap.Int("roadmap_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load roadmap"})
		return
	}

	c.JSON(http.StatusOK, rm)
}

func (h *RoadmapHandler) ListByProject(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	rms, err := h.roadmapService.ListByProject(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list roadmaps", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list roadmaps"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"roadmaps": rms})
}
