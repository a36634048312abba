package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"teamflow/internal/model"
)

type MemberRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMemberRepository(db *pgxpool.Pool, logger *zap.Logger) *MemberRepository {
	return &MemberRepository{db: db, logger: logger}
}

func (r *MemberRepository) Insert(ctx context.Context, m *model.Member) error {
	query := `
        INSERT INTO members (project_id, email, skills, interests, career_goals)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, joined_at
    `
	err := r.db.QueryRow(ctx, query,
		m.ProjectID,
		m.Email,
		m.Skills,
		m.Interests,
		m.CareerGoals,
	).Scan(&m.ID, &m.JoinedAt)
	if err != nil {
		r.logger.Error("Failed to insert member",
			zap.Int("project_id", m.ProjectID),
			zap.String("email", m.Email),
			zap.Error(err),
		)
		return err
	}
	r.logger.Info("Member added",
		zap.Int("member_id", m.ID),
		zap.Int("project_id", m.ProjectID),
	)
	return nil
}

func (r *MemberRepository) ListByProject(ctx context.Context, projectID int) ([]model.Member, error) {
	query := `
        SELECT id, project_id, email, skills, interests, career_goals, joined_at
        FROM members
        WHERE project_id = $1
        ORDER BY joined_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query members",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(
			&m.ID,
			&m.ProjectID,
			&m.Email,
			&m.Skills,
			&m.Interests,
			&m.CareerGoals,
			&m.JoinedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListByEmails fetches members of a project by email. Lookups are chunked to
// keep each = ANY list bounded; results merge across chunks.
func (r *MemberRepository) ListByEmails(ctx context.Context, projectID int, emails []string) ([]model.Member, error) {
	members := []model.Member{}

	for _, chunk := range chunkStrings(emails, inQueryBatchSize) {
		query := `
            SELECT id, project_id, email, skills, interests, career_goals, joined_at
            FROM members
            WHERE project_id = $1 AND email = ANY($2)
        `
		rows, err := r.db.Query(ctx, query, projectID, chunk)
		if err != nil {
			r.logger.Error("Failed to query members by emails",
				zap.Int("project_id", projectID),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return nil, err
		}

		for rows.Next() {
			var m model.Member
			if err := rows.Scan(
				&m.ID,
				&m.ProjectID,
				&m.Email,
				&m.Skills,
				&m.Interests,
				&m.CareerGoals,
				&m.JoinedAt,
			); err != nil {
				rows.Close()
				return nil, err
			}
			members = append(members, m)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return members, nil
}

// UpsertCapability stores or refreshes the capability analysis for a member.
func (r *MemberRepository) UpsertCapability(ctx context.Context, c *model.Capability) error {
	query := `
        INSERT INTO member_capabilities
            (project_id, member_email, strengths, skills, role_suggestion, compatibility_score)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (project_id, member_email)
        DO UPDATE SET
            strengths = EXCLUDED.strengths,
            skills = EXCLUDED.skills,
            role_suggestion = EXCLUDED.role_suggestion,
            compatibility_score = EXCLUDED.compatibility_score
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		c.ProjectID,
		c.MemberEmail,
		c.Strengths,
		c.Skills,
		c.RoleSuggestion,
		c.CompatibilityScore,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert capability",
			zap.Int("project_id", c.ProjectID),
			zap.String("member_email", c.MemberEmail),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *MemberRepository) ListCapabilities(ctx context.Context, projectID int) ([]model.Capability, error) {
	query := `
        SELECT id, project_id, member_email, strengths, skills, role_suggestion, compatibility_score, created_at
        FROM member_capabilities
        WHERE project_id = $1
        ORDER BY member_email ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query capabilities",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	caps := []model.Capability{}
	for rows.Next() {
		var c model.Capability
		if err := rows.Scan(
			&c.ID,
			&c.ProjectID,
			&c.MemberEmail,
			&c.Strengths,
			&c.Skills,
			&c.RoleSuggestion,
			&c.CompatibilityScore,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	return caps, rows.Err()
}
