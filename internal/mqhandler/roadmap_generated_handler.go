package mqhandler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	mqcontracts "teamflow/contracts/mq"
	"teamflow/pkg/metrics"
)

// RoadmapGeneratedHandler seeds the project leaderboard with the roster as
// soon as a roadmap lands, so every member shows up with zero points before
// their first completion.
type RoadmapGeneratedHandler struct {
	leaderboard scoreboard
	deduper     deduper
	logger      *zap.Logger
}

func NewRoadmapGeneratedHandler(
	leaderboard scoreboard,
	deduper deduper,
	logger *zap.Logger,
) *RoadmapGeneratedHandler {
	return &RoadmapGeneratedHandler{
		leaderboard: leaderboard,
		deduper:     deduper,
		logger:      logger,
	}
}

func (h *RoadmapGeneratedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mqcontracts.RoutingKeyRoadmapGenerated, "roadmap.generated.q", time.Since(start))
	}()

	var p mqcontracts.RoadmapGeneratedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Invalid RoadmapGeneratedPayload", zap.Error(err))
		return err
	}

	h.logger.Info("Handling roadmap.generated event",
		zap.Int("roadmap_id", p.RoadmapID),
		zap.Int("project_id", p.ProjectID),
		zap.Int("stages", p.Stages),
		zap.Int("task_count", p.TaskCount),
	)

	if !h.deduper.AcquireOnce(ctx, "roadmap_generated", p.RoadmapID) {
		return nil
	}

	if err := h.leaderboard.SeedMembers(ctx, p.ProjectID, p.Members); err != nil {
		// Nack for redelivery; release the dedup key or the redelivered
		// copy would be skipped as a duplicate.
		h.deduper.Release(ctx, "roadmap_generated", p.RoadmapID)
		return err
	}

	return nil
}
