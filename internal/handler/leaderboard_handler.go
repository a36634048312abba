package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamflow/internal/service"
)

const defaultLeaderboardSize = 10

type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
	logger      *zap.Logger
}

func NewLeaderboardHandler(leaderboard *service.LeaderboardService, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// Top returns the project standings, highest points first. ?limit= caps the
// number of rows, default 10.
func (h *LeaderboardHandler) Top(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	limit := defaultLeaderboardSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := h.leaderboard.Top(c.Request.Context(), id, limit)
	if err != nil {
		h.logger.Error("Failed to load leaderboard", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
