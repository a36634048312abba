package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"teamflow/internal/model"
)

// ErrTaskNotAvailable is returned when a pool transition loses the race,
// e.g. claiming a task somebody else already claimed.
var ErrTaskNotAvailable = errors.New("task is not in the expected state")

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const taskColumns = `
        id, project_id, roadmap_id, stage_index, stage_name, name, description,
        soft_deadline, hard_deadline, suggested_member, assignment_reason,
        points, status, COALESCE(claimed_by, ''), claimed_at, completed_at, created_at
`

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.RoadmapID,
		&t.StageIndex,
		&t.StageName,
		&t.Name,
		&t.Description,
		&t.SoftDeadline,
		&t.HardDeadline,
		&t.SuggestedMember,
		&t.AssignmentReason,
		&t.Points,
		&t.Status,
		&t.ClaimedBy,
		&t.ClaimedAt,
		&t.CompletedAt,
		&t.CreatedAt,
	)
	return t, err
}

// InsertTx inserts a task inside an open transaction (roadmap persistence).
func (r *TaskRepository) InsertTx(ctx context.Context, tx pgx.Tx, t *model.Task) error {
	query := `
        INSERT INTO tasks
            (project_id, roadmap_id, stage_index, stage_name, name, description,
             soft_deadline, hard_deadline, suggested_member, assignment_reason, points, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at
    `
	err := tx.QueryRow(ctx, query,
		t.ProjectID,
		t.RoadmapID,
		t.StageIndex,
		t.StageName,
		t.Name,
		t.Description,
		t.SoftDeadline,
		t.HardDeadline,
		t.SuggestedMember,
		t.AssignmentReason,
		t.Points,
		t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Int("project_id", t.ProjectID),
			zap.String("name", t.Name),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID int) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRow(ctx, query, taskID))
	if err != nil {
		r.logger.Error("Failed to find task", zap.Int("task_id", taskID), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int, status string) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks
        WHERE project_id = $1 AND ($2 = '' OR status = $2)
        ORDER BY stage_index ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, projectID, status)
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Int("project_id", projectID),
			zap.String("status", status),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListByIDs fetches tasks by ID in chunks, merging the results.
func (r *TaskRepository) ListByIDs(ctx context.Context, ids []int) ([]model.Task, error) {
	tasks := []model.Task{}

	for _, chunk := range chunkInts(ids, inQueryBatchSize) {
		query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ANY($1)`
		rows, err := r.db.Query(ctx, query, chunk)
		if err != nil {
			r.logger.Error("Failed to query tasks by ids",
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return nil, err
		}

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			tasks = append(tasks, t)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return tasks, nil
}

// Claim moves a pool task to claimed for the given member. Returns
// ErrTaskNotAvailable when the task is not in the pool (already claimed).
func (r *TaskRepository) Claim(ctx context.Context, taskID int, memberEmail string) error {
	query := `
        UPDATE tasks
        SET status = 'claimed', claimed_by = $2, claimed_at = NOW()
        WHERE id = $1 AND status = 'pool'
    `
	result, err := r.db.Exec(ctx, query, taskID, memberEmail)
	if err != nil {
		r.logger.Error("Failed to claim task",
			zap.Int("task_id", taskID),
			zap.String("member", memberEmail),
			zap.Error(err),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotAvailable
	}
	r.logger.Info("Task claimed",
		zap.Int("task_id", taskID),
		zap.String("member", memberEmail),
	)
	return nil
}

// CompleteTx marks a claimed task done inside an open transaction so the
// completion and its outbox event commit together. Returns
// ErrTaskNotAvailable when the task is not claimed by that member.
func (r *TaskRepository) CompleteTx(ctx context.Context, tx pgx.Tx, taskID int, memberEmail string) error {
	query := `
        UPDATE tasks
        SET status = 'done', completed_at = NOW()
        WHERE id = $1 AND status = 'claimed' AND claimed_by = $2
    `
	result, err := tx.Exec(ctx, query, taskID, memberEmail)
	if err != nil {
		r.logger.Error("Failed to complete task",
			zap.Int("task_id", taskID),
			zap.String("member", memberEmail),
			zap.Error(err),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotAvailable
	}
	r.logger.Info("Task completed",
		zap.Int("task_id", taskID),
		zap.String("member", memberEmail),
	)
	return nil
}

// ListOverdueClaimed returns claimed tasks whose hard deadline has passed.
func (r *TaskRepository) ListOverdueClaimed(ctx context.Context) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + `
        FROM tasks
        WHERE status = 'claimed' AND hard_deadline < NOW()
        ORDER BY hard_deadline ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query overdue tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ReleaseToPool drops a claimed task back into the pool. Returns
// ErrTaskNotAvailable when the task was completed or released in the
// meantime.
func (r *TaskRepository) ReleaseToPool(ctx context.Context, taskID int) error {
	query := `
        UPDATE tasks
        SET status = 'pool', claimed_by = NULL, claimed_at = NULL
        WHERE id = $1 AND status = 'claimed'
    `
	result, err := r.db.Exec(ctx, query, taskID)
	if err != nil {
		r.logger.Error("Failed to release task to pool",
			zap.Int("task_id", taskID),
			zap.Error(err),
		)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotAvailable
	}
	r.logger.Info("Task released back to pool", zap.Int("task_id", taskID))
	return nil
}
