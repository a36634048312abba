package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"teamflow/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) error {
	query := `
        INSERT INTO projects (owner_id, name, purpose)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, p.OwnerID, p.Name, p.Purpose).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert project",
			zap.Int("owner_id", p.OwnerID),
			zap.String("name", p.Name),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Project created",
		zap.Int("project_id", p.ID),
		zap.Int("owner_id", p.OwnerID),
	)
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, projectID int) (*model.Project, error) {
	query := `
        SELECT id, owner_id, name, purpose, created_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, projectID).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Purpose, &p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to find project",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	return &p, nil
}

// ReplaceCharter replaces the project's charter with the given ordered entries.
func (r *ProjectRepository) ReplaceCharter(ctx context.Context, projectID int, entries []model.CharterEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM charter_entries WHERE project_id = $1`, projectID); err != nil {
		r.logger.Error("Failed to clear charter", zap.Int("project_id", projectID), zap.Error(err))
		return err
	}

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
            INSERT INTO charter_entries (project_id, position, question, answer)
            VALUES ($1, $2, $3, $4)
        `, projectID, e.Position, e.Question, e.Answer)
		if err != nil {
			r.logger.Error("Failed to insert charter entry",
				zap.Int("project_id", projectID),
				zap.Int("position", e.Position),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Charter replaced",
		zap.Int("project_id", projectID),
		zap.Int("entries", len(entries)),
	)
	return nil
}

func (r *ProjectRepository) ListCharter(ctx context.Context, projectID int) ([]model.CharterEntry, error) {
	query := `
        SELECT id, project_id, position, question, answer
        FROM charter_entries
        WHERE project_id = $1
        ORDER BY position ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query charter", zap.Int("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	entries := []model.CharterEntry{}
	for rows.Next() {
		var e model.CharterEntry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Position, &e.Question, &e.Answer); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReplaceSurvey replaces the project's onboarding survey entries.
func (r *ProjectRepository) ReplaceSurvey(ctx context.Context, projectID int, entries []model.SurveyEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM survey_entries WHERE project_id = $1`, projectID); err != nil {
		r.logger.Error("Failed to clear survey", zap.Int("project_id", projectID), zap.Error(err))
		return err
	}

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
            INSERT INTO survey_entries (project_id, position, question, response)
            VALUES ($1, $2, $3, $4)
        `, projectID, e.Position, e.Question, e.Response)
		if err != nil {
			r.logger.Error("Failed to insert survey entry",
				zap.Int("project_id", projectID),
				zap.Int("position", e.Position),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Survey replaced",
		zap.Int("project_id", projectID),
		zap.Int("entries", len(entries)),
	)
	return nil
}

func (r *ProjectRepository) ListSurvey(ctx context.Context, projectID int) ([]model.SurveyEntry, error) {
	query := `
        SELECT id, project_id, position, question, response
        FROM survey_entries
        WHERE project_id = $1
        ORDER BY position ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query survey", zap.Int("project_id", projectID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	entries := []model.SurveyEntry{}
	for rows.Next() {
		var e model.SurveyEntry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Position, &e.Question, &e.Response); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
