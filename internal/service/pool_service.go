package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	mqcontracts "teamflow/contracts/mq"
	"teamflow/internal/repository"
	"teamflow/pkg/metrics"
	"teamflow/pkg/outbox"
	"teamflow/pkg/trace"
)

// ErrNotAMember is returned when the claiming user is not on the project roster.
var ErrNotAMember = errors.New("member does not belong to this project")

// PoolService manages the bounty-style task pool: members claim tasks out of
// the pool, complete them for points, or lose them back to the pool when the
// hard deadline passes (see Orchestrator).
type PoolService struct {
	db         *pgxpool.Pool
	taskRepo   *repository.TaskRepository
	memberRepo *repository.MemberRepository
	outboxRepo *outbox.Repository
	logger     *zap.Logger
}

func NewPoolService(
	db *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	memberRepo *repository.MemberRepository,
	outboxRepo *outbox.Repository,
	logger *zap.Logger,
) *PoolService {
	return &PoolService{
		db:         db,
		taskRepo:   taskRepo,
		memberRepo: memberRepo,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Claim moves a pool task to the given member.
func (s *PoolService) Claim(ctx context.Context, taskID int, memberEmail string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	members, err := s.memberRepo.ListByEmails(ctx, task.ProjectID, []string{memberEmail})
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return ErrNotAMember
	}

	if err := s.taskRepo.Claim(ctx, taskID, memberEmail); err != nil {
		return err
	}

	metrics.IncrementTaskPoolTransition("claimed")
	return nil
}

// Complete marks a claimed task done and queues the task.completed event in
// the same transaction, so points are awarded exactly when the completion
// committed.
func (s *PoolService) Complete(ctx context.Context, taskID int, memberEmail string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.taskRepo.CompleteTx(ctx, tx, taskID, memberEmail); err != nil {
		return err
	}

	aggregateID := int64(taskID)
	payload := mqcontracts.TaskCompletedPayload{
		TaskID:      taskID,
		ProjectID:   task.ProjectID,
		MemberEmail: memberEmail,
		Points:      task.Points,
		TraceID:     trace.FromContext(ctx),
	}
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "task", &aggregateID,
		mqcontracts.RoutingKeyTaskCompleted, payload); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit completion: %w", err)
	}

	metrics.IncrementTaskPoolTransition("completed")
	return nil
}
