package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"teamflow/internal/model"
	"teamflow/internal/repository"
)

// charterSize is the fixed number of charter entries. Positions 0-4 carry
// mission, milestones, target demographic, duration and risks, in that order.
const charterSize = 5

var ErrBadCharterShape = errors.New("charter must contain exactly 5 entries with positions 0 through 4")

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	memberRepo  *repository.MemberRepository
	logger      *zap.Logger
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	memberRepo *repository.MemberRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		logger:      logger,
	}
}

func (s *ProjectService) Create(ctx context.Context, ownerID int, name, purpose string) (*model.Project, error) {
	p := &model.Project{
		OwnerID:   ownerID,
		Name:      name,
		Purpose:   purpose,
		CreatedAt: time.Now(),
	}
	if err := s.projectRepo.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Project created",
		zap.Int("project_id", p.ID),
		zap.Int("owner_id", ownerID),
	)
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID int) (*model.Project, error) {
	return s.projectRepo.FindByID(ctx, projectID)
}

// SubmitCharter replaces the project charter. The five entries must cover
// positions 0-4 exactly once each.
func (s *ProjectService) SubmitCharter(ctx context.Context, projectID int, entries []model.CharterEntry) error {
	if len(entries) != charterSize {
		return ErrBadCharterShape
	}
	seen := make(map[int]bool, charterSize)
	for _, e := range entries {
		if e.Position < 0 || e.Position >= charterSize || seen[e.Position] {
			return ErrBadCharterShape
		}
		seen[e.Position] = true
	}
	return s.projectRepo.ReplaceCharter(ctx, projectID, entries)
}

// SubmitSurvey replaces the onboarding survey responses.
func (s *ProjectService) SubmitSurvey(ctx context.Context, projectID int, entries []model.SurveyEntry) error {
	return s.projectRepo.ReplaceSurvey(ctx, projectID, entries)
}

func (s *ProjectService) AddMember(ctx context.Context, m *model.Member) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return s.memberRepo.Insert(ctx, m)
}

func (s *ProjectService) ListMembers(ctx context.Context, projectID int) ([]model.Member, error) {
	return s.memberRepo.ListByProject(ctx, projectID)
}

// SaveCapability upserts a member's compatibility analysis, keyed by
// project and email.
func (s *ProjectService) SaveCapability(ctx context.Context, c *model.Capability) error {
	return s.memberRepo.UpsertCapability(ctx, c)
}
