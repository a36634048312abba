package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "teamflow/contracts/mq"
	"teamflow/internal/model"
	"teamflow/pkg/metrics"
	"teamflow/pkg/util"
)

const maxRetries = 5

// TaskCompletedHandler turns a committed completion into a points ledger
// entry and a leaderboard update.
type TaskCompletedHandler struct {
	pointsRepo   pointsLedger
	leaderboard  scoreboard
	retryCounter retryCounter
	deduper      deduper
	dlqPublisher dlqPublisher
	logger       *zap.Logger
}

func NewTaskCompletedHandler(
	pointsRepo pointsLedger,
	leaderboard scoreboard,
	retryCounter retryCounter,
	deduper deduper,
	dlqPublisher dlqPublisher,
	logger *zap.Logger,
) *TaskCompletedHandler {
	return &TaskCompletedHandler{
		pointsRepo:   pointsRepo,
		leaderboard:  leaderboard,
		retryCounter: retryCounter,
		deduper:      deduper,
		dlqPublisher: dlqPublisher,
		logger:       logger,
	}
}

func (h *TaskCompletedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	start := time.Now()
	defer func() {
		metrics.RecordMQConsumeLatency(mqcontracts.RoutingKeyTaskCompleted, "task.completed.q", time.Since(start))
	}()

	var p mqcontracts.TaskCompletedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Invalid TaskCompletedPayload, sending to DLQ",
			zap.String("raw", string(raw)),
			zap.Error(err),
		)
		if h.dlqPublisher != nil {
			_ = h.dlqPublisher.PublishToDLQ(mqcontracts.RoutingKeyTaskCompleted, raw, err.Error())
		}
		return nil // poison payload: ack, DLQ keeps the evidence
	}

	h.logger.Info("Handling task.completed event",
		zap.Int("task_id", p.TaskID),
		zap.Int("project_id", p.ProjectID),
		zap.String("member", p.MemberEmail),
		zap.Int("points", p.Points),
	)

	// Redis dedup guards against concurrent duplicate consumption.
	if !h.deduper.AcquireOnce(ctx, "task_completed", p.TaskID) {
		return nil
	}

	retryKey := util.FormatRetryKey("task_completed", p.TaskID)
	retryCount, _ := h.retryCounter.IncrementAndGet(ctx, retryKey)

	entry := &model.PointsEntry{
		ProjectID:   p.ProjectID,
		MemberEmail: p.MemberEmail,
		TaskID:      p.TaskID,
		Points:      p.Points,
		Reason:      model.PointsReasonCompletion,
	}
	if err := h.pointsRepo.Insert(ctx, entry); err != nil {
		return h.handleError(ctx, err, p.TaskID, retryKey, retryCount, raw)
	}

	if err := h.leaderboard.AddPoints(ctx, p.ProjectID, p.MemberEmail, p.Points); err != nil {
		return h.handleError(ctx, err, p.TaskID, retryKey, retryCount, raw)
	}

	h.retryCounter.Reset(ctx, retryKey)
	metrics.AddPointsAwarded("completion", float64(p.Points))

	h.logger.Info("Points awarded",
		zap.Int("task_id", p.TaskID),
		zap.String("member", p.MemberEmail),
		zap.Int("points", p.Points),
	)
	return nil
}

func (h *TaskCompletedHandler) handleError(ctx context.Context, err error, taskID int, retryKey string, retryCount int64, raw json.RawMessage) error {
	isRetryable, errType := util.IsRetryableError(err)

	h.logger.Warn("task.completed processing failed",
		zap.String("error_type", errType),
		zap.Bool("retryable", isRetryable),
		zap.Int64("retry", retryCount),
		zap.Error(err),
	)

	if !util.ShouldRetry(retryCount, maxRetries, isRetryable) {
		if h.dlqPublisher != nil {
			_ = h.dlqPublisher.PublishToDLQ(mqcontracts.RoutingKeyTaskCompleted, raw, err.Error())
		}
		h.retryCounter.Reset(ctx, retryKey)
		return nil // ack, DLQ'd
	}

	// Nack for redelivery. The dedup key set above must go with it, or the
	// redelivered copy would be skipped as a duplicate and the points lost.
	h.deduper.Release(ctx, "task_completed", taskID)
	return fmt.Errorf("task.completed retryable failure: %w", err)
}
