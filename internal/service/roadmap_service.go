package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	mqcontracts "teamflow/contracts/mq"
	"teamflow/internal/model"
	"teamflow/internal/planner"
	"teamflow/internal/repository"
	"teamflow/pkg/outbox"
	"teamflow/pkg/trace"
)

// defaultTaskPoints is the bounty awarded for completing a generated task.
const defaultTaskPoints = 10

// RoadmapService drives the generation pipeline and persists the result:
// load project context, run the planner, then write the roadmap, its task
// rows and the roadmap.generated outbox event in one transaction.
type RoadmapService struct {
	db          *pgxpool.Pool
	projectRepo *repository.ProjectRepository
	memberRepo  *repository.MemberRepository
	roadmapRepo *repository.RoadmapRepository
	taskRepo    *repository.TaskRepository
	outboxRepo  *outbox.Repository
	generator   *planner.Generator
	logger      *zap.Logger
}

func NewRoadmapService(
	db *pgxpool.Pool,
	projectRepo *repository.ProjectRepository,
	memberRepo *repository.MemberRepository,
	roadmapRepo *repository.RoadmapRepository,
	taskRepo *repository.TaskRepository,
	outboxRepo *outbox.Repository,
	generator *planner.Generator,
	logger *zap.Logger,
) *RoadmapService {
	return &RoadmapService{
		db:          db,
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		roadmapRepo: roadmapRepo,
		taskRepo:    taskRepo,
		outboxRepo:  outboxRepo,
		generator:   generator,
		logger:      logger,
	}
}

// Generate runs one end-to-end roadmap generation for a project. Pipeline
// errors (planner.Error) pass through unchanged so the handler can map them
// to responses; planner.IsRetryable tells the caller whether re-invoking may
// succeed.
func (s *RoadmapService) Generate(ctx context.Context, projectID int) (*model.Roadmap, error) {
	input, members, err := s.loadContext(ctx, projectID)
	if err != nil {
		return nil, err
	}

	serialized, err := s.generator.Generate(ctx, input)
	if err != nil {
		return nil, err
	}

	plan, err := planner.ParsePlan(serialized)
	if err != nil {
		return nil, err
	}

	return s.persist(ctx, projectID, serialized, plan, members)
}

func (s *RoadmapService) FindByID(ctx context.Context, roadmapID int) (*model.Roadmap, error) {
	return s.roadmapRepo.FindByID(ctx, roadmapID)
}

func (s *RoadmapService) ListByProject(ctx context.Context, projectID int) ([]model.Roadmap, error) {
	return s.roadmapRepo.ListByProject(ctx, projectID)
}

func (s *RoadmapService) loadContext(ctx context.Context, projectID int) (planner.Input, []model.Member, error) {
	var input planner.Input

	survey, err := s.projectRepo.ListSurvey(ctx, projectID)
	if err != nil {
		return input, nil, fmt.Errorf("failed to load survey: %w", err)
	}
	charter, err := s.projectRepo.ListCharter(ctx, projectID)
	if err != nil {
		return input, nil, fmt.Errorf("failed to load charter: %w", err)
	}
	members, err := s.memberRepo.ListByProject(ctx, projectID)
	if err != nil {
		return input, nil, fmt.Errorf("failed to load members: %w", err)
	}
	caps, err := s.memberRepo.ListCapabilities(ctx, projectID)
	if err != nil {
		return input, nil, fmt.Errorf("failed to load capabilities: %w", err)
	}

	for _, e := range survey {
		input.SurveyQuestions = append(input.SurveyQuestions, e.Question)
		input.SurveyResponses = append(input.SurveyResponses, e.Response)
	}
	for _, e := range charter {
		input.CharterQuestions = append(input.CharterQuestions, e.Question)
		input.CharterResponses = append(input.CharterResponses, e.Answer)
	}
	for _, m := range members {
		input.Members = append(input.Members, planner.TeamMember{
			Email:       m.Email,
			Skills:      m.Skills,
			Interests:   m.Interests,
			CareerGoals: m.CareerGoals,
		})
	}
	for _, c := range caps {
		input.Capabilities = append(input.Capabilities, planner.MemberCapability{
			MemberEmail:        c.MemberEmail,
			Strengths:          c.Strengths,
			Skills:             c.Skills,
			RoleSuggestion:     c.RoleSuggestion,
			CompatibilityScore: c.CompatibilityScore,
		})
	}
	input.Today = time.Now()

	return input, members, nil
}

func (s *RoadmapService) persist(
	ctx context.Context,
	projectID int,
	serialized string,
	plan *planner.GeneratedPlan,
	members []model.Member,
) (*model.Roadmap, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rm := &model.Roadmap{
		ProjectID: projectID,
		PlanJSON:  serialized,
		Stages:    len(plan.Stages),
	}
	if err := s.roadmapRepo.InsertTx(ctx, tx, rm); err != nil {
		return nil, err
	}

	taskCount := 0
	for i, stage := range plan.Stages {
		for _, gt := range stage.Tasks {
			soft, err := time.Parse("2006-01-02", gt.SoftDeadline)
			if err != nil {
				return nil, fmt.Errorf("stage %d: unparseable soft_deadline %q: %w", i, gt.SoftDeadline, err)
			}
			hard, err := time.Parse("2006-01-02", gt.HardDeadline)
			if err != nil {
				return nil, fmt.Errorf("stage %d: unparseable hard_deadline %q: %w", i, gt.HardDeadline, err)
			}

			t := &model.Task{
				ProjectID:        projectID,
				RoadmapID:        rm.ID,
				StageIndex:       i,
				StageName:        stage.StageName,
				Name:             gt.TaskName,
				Description:      gt.TaskDescription,
				SoftDeadline:     soft,
				HardDeadline:     hard,
				SuggestedMember:  gt.AssignedMember,
				AssignmentReason: gt.AssignmentReason,
				Points:           defaultTaskPoints,
				Status:           model.TaskStatusPool,
			}
			if err := s.taskRepo.InsertTx(ctx, tx, t); err != nil {
				return nil, err
			}
			taskCount++
		}
	}

	emails := make([]string, 0, len(members))
	for _, m := range members {
		emails = append(emails, m.Email)
	}

	roadmapID := int64(rm.ID)
	payload := mqcontracts.RoadmapGeneratedPayload{
		RoadmapID: rm.ID,
		ProjectID: projectID,
		Stages:    rm.Stages,
		TaskCount: taskCount,
		Members:   emails,
		TraceID:   trace.FromContext(ctx),
	}
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "roadmap", &roadmapID,
		mqcontracts.RoutingKeyRoadmapGenerated, payload); err != nil {
		return nil, fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit roadmap: %w", err)
	}

	s.logger.Info("Roadmap persisted",
		zap.Int("roadmap_id", rm.ID),
		zap.Int("project_id", projectID),
		zap.Int("stages", rm.Stages),
		zap.Int("tasks", taskCount),
	)

	return rm, nil
}
