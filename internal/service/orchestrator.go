package service

import (
	"context"

	"go.uber.org/zap"

	mqcontracts "teamflow/contracts/mq"
	"teamflow/internal/repository"
	"teamflow/pkg/metrics"
	"teamflow/pkg/mq"
)

// Orchestrator runs the periodic pool maintenance: claimed tasks whose hard
// deadline passed are dropped back into the pool so someone else can pick
// them up, and a task.dropped event is published for points accounting.
type Orchestrator struct {
	taskRepo  *repository.TaskRepository
	publisher *mq.Publisher
	logger    *zap.Logger
}

func NewOrchestrator(
	taskRepo *repository.TaskRepository,
	publisher *mq.Publisher,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// CheckAndDropOverdue scans for overdue claimed tasks and returns them to
// the pool.
func (o *Orchestrator) CheckAndDropOverdue(ctx context.Context) error {
	o.logger.Info("Checking for overdue claimed tasks...")

	tasks, err := o.taskRepo.ListOverdueClaimed(ctx)
	if err != nil {
		o.logger.Error("Failed to list overdue tasks", zap.Error(err))
		return err
	}

	if len(tasks) == 0 {
		o.logger.Debug("No overdue tasks found")
		return nil
	}

	droppedCount := 0
	for _, task := range tasks {
		if err := o.taskRepo.ReleaseToPool(ctx, task.ID); err != nil {
			if err == repository.ErrTaskNotAvailable {
				// Completed between the scan and the release; nothing to drop.
				continue
			}
			o.logger.Error("Failed to release overdue task",
				zap.Int("task_id", task.ID),
				zap.Error(err),
			)
			continue
		}

		payload := mqcontracts.TaskDroppedPayload{
			TaskID:      task.ID,
			ProjectID:   task.ProjectID,
			MemberEmail: task.ClaimedBy,
			Points:      task.Points,
		}
		if err := o.publisher.Publish(mqcontracts.RoutingKeyTaskDropped, payload); err != nil {
			o.logger.Error("Failed to publish task.dropped event",
				zap.Int("task_id", task.ID),
				zap.Error(err),
			)
			continue
		}

		droppedCount++
		metrics.IncrementTaskPoolTransition("dropped")
		o.logger.Info("Published task.dropped event",
			zap.Int("task_id", task.ID),
			zap.String("member", task.ClaimedBy),
		)
	}

	o.logger.Info("Overdue check completed",
		zap.Int("dropped_count", droppedCount),
		zap.Int("total_overdue", len(tasks)),
	)
	return nil
}
