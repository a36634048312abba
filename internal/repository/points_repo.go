package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"teamflow/internal/model"
)

type PointsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPointsRepository(db *pgxpool.Pool, logger *zap.Logger) *PointsRepository {
	return &PointsRepository{db: db, logger: logger}
}

// Insert records a points entry. Idempotent per (task_id, reason): a
// redelivered event that was already ledgered is a silent no-op.
func (r *PointsRepository) Insert(ctx context.Context, e *model.PointsEntry) error {
	query := `
        INSERT INTO points_entries (project_id, member_email, task_id, points, reason)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (task_id, reason) DO NOTHING
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		e.ProjectID,
		e.MemberEmail,
		e.TaskID,
		e.Points,
		e.Reason,
	).Scan(&e.ID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Info("Points entry already recorded, skipping",
			zap.Int("task_id", e.TaskID),
			zap.String("reason", e.Reason),
		)
		return nil
	}
	if err != nil {
		r.logger.Error("Failed to insert points entry",
			zap.Int("project_id", e.ProjectID),
			zap.String("member", e.MemberEmail),
			zap.Int("task_id", e.TaskID),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Points recorded",
		zap.Int("project_id", e.ProjectID),
		zap.String("member", e.MemberEmail),
		zap.Int("points", e.Points),
		zap.String("reason", e.Reason),
	)
	return nil
}

// Totals returns the summed points per member for a project, used to rebuild
// the leaderboard cache.
func (r *PointsRepository) Totals(ctx context.Context, projectID int) (map[string]int, error) {
	query := `
        SELECT member_email, COALESCE(SUM(points), 0)
        FROM points_entries
        WHERE project_id = $1
        GROUP BY member_email
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query points totals",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	totals := map[string]int{}
	for rows.Next() {
		var email string
		var points int
		if err := rows.Scan(&email, &points); err != nil {
			return nil, err
		}
		totals[email] = points
	}
	return totals, rows.Err()
}
