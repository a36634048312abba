package mqhandler

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	mqcontracts "teamflow/contracts/mq"
	"teamflow/internal/model"
	"teamflow/pkg/metrics"
	"teamflow/pkg/util"
)

// TaskDroppedHandler applies the drop penalty when an overdue claimed task
// falls back into the pool: half the task's bounty is deducted from the
// member who let it lapse.
type TaskDroppedHandler struct {
	pointsRepo  pointsLedger
	leaderboard scoreboard
	deduper     deduper
	logger      *zap.Logger
}

func NewTaskDroppedHandler(
	pointsRepo pointsLedger,
	leaderboard scoreboard,
	deduper deduper,
	logger *zap.Logger,
) *TaskDroppedHandler {
	return &TaskDroppedHandler{
		pointsRepo:  pointsRepo,
		leaderboard: leaderboard,
		deduper:     deduper,
		logger:      logger,
	}
}

func (h *TaskDroppedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mqcontracts.RoutingKeyTaskDropped, "task.dropped.q", time.Since(start))
	}()

	var p mqcontracts.TaskDroppedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Invalid TaskDroppedPayload", zap.Error(err))
		return err
	}

	h.logger.Info("Handling task.dropped event",
		zap.Int("task_id", p.TaskID),
		zap.Int("project_id", p.ProjectID),
		zap.String("member", p.MemberEmail),
	)

	if p.MemberEmail == "" {
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "task_dropped", p.TaskID) {
		return nil
	}

	penalty := -(p.Points / 2)
	if penalty == 0 {
		return nil
	}

	entry := &model.PointsEntry{
		ProjectID:   p.ProjectID,
		MemberEmail: p.MemberEmail,
		TaskID:      p.TaskID,
		Points:      penalty,
		Reason:      model.PointsReasonDropPenalty,
	}
	if err := h.pointsRepo.Insert(ctx, entry); err != nil {
		isRetryable, errType := util.IsRetryableError(err)
		h.logger.Warn("Failed to record drop penalty",
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Error(err),
		)
		if isRetryable {
			// Release the dedup key before nacking so the redelivered
			// copy is not skipped as a duplicate.
			h.deduper.Release(ctx, "task_dropped", p.TaskID)
			return err
		}
		return nil
	}

	if err := h.leaderboard.AddPoints(ctx, p.ProjectID, p.MemberEmail, penalty); err != nil {
		h.deduper.Release(ctx, "task_dropped", p.TaskID)
		return err
	}

	metrics.AddPointsAwarded("drop_penalty", float64(-penalty))

	h.logger.Info("Drop penalty applied",
		zap.Int("task_id", p.TaskID),
		zap.String("member", p.MemberEmail),
		zap.Int("penalty", penalty),
	)
	return nil
}
