package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"teamflow/internal/model"
)

type RoadmapRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRoadmapRepository(db *pgxpool.Pool, logger *zap.Logger) *RoadmapRepository {
	return &RoadmapRepository{db: db, logger: logger}
}

// InsertTx inserts a roadmap inside an open transaction. The caller owns the
// transaction so the roadmap, its tasks and the outbox event commit together.
func (r *RoadmapRepository) InsertTx(ctx context.Context, tx pgx.Tx, rm *model.Roadmap) error {
	query := `
        INSERT INTO roadmaps (project_id, plan_json, stages)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := tx.QueryRow(ctx, query, rm.ProjectID, rm.PlanJSON, rm.Stages).Scan(&rm.ID, &rm.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert roadmap",
			zap.Int("project_id", rm.ProjectID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *RoadmapRepository) FindByID(ctx context.Context, roadmapID int) (*model.Roadmap, error) {
	query := `
        SELECT id, project_id, plan_json, stages, created_at
        FROM roadmaps
        WHERE id = $1
    `
	var rm model.Roadmap
	err := r.db.QueryRow(ctx, query, roadmapID).Scan(&rm.ID, &rm.ProjectID, &rm.PlanJSON, &rm.Stages, &rm.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to find roadmap",
			zap.Int("roadmap_id", roadmapID),
			zap.Error(err),
		)
		return nil, err
	}
	return &rm, nil
}

func (r *RoadmapRepository) ListByProject(ctx context.Context, projectID int) ([]model.Roadmap, error) {
	query := `
        SELECT id, project_id, plan_json, stages, created_at
        FROM roadmaps
        WHERE project_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query roadmaps",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	roadmaps := []model.Roadmap{}
	for rows.Next() {
		var rm model.Roadmap
		if err := rows.Scan(&rm.ID, &rm.ProjectID, &rm.PlanJSON, &rm.Stages, &rm.CreatedAt); err != nil {
			return nil, err
		}
		roadmaps = append(roadmaps, rm)
	}
	return roadmaps, rows.Err()
}
