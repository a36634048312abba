package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"teamflow/internal/model"
	"teamflow/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

func projectIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return 0, false
	}
	return id, true
}

type createProjectRequest struct {
	Name    string `json:"name" binding:"required"`
	Purpose string `json:"purpose"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("user_id")
	p, err := h.projectService.Create(c.Request.Context(), userID, req.Name, req.Purpose)
	if err != nil {
		h.logger.Error("Failed to create project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	p, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("Failed to load project", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return
	}

	c.JSON(http.StatusOK, p)
}

type charterEntryRequest struct {
	Position int    `json:"position"`
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer"`
}

func (h *ProjectHandler) SubmitCharter(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req []charterEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]model.CharterEntry, 0, len(req))
	for _, e := range req {
		entries = append(entries, model.CharterEntry{
			ProjectID: id,
			Position:  e.Position,
			Question:  e.Question,
			Answer:    e.Answer,
		})
	}

	if err := h.projectService.SubmitCharter(c.Request.Context(), id, entries); err != nil {
		if errors.Is(err, service.ErrBadCharterShape) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to save charter", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save charter"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": len(entries)})
}

type surveyEntryRequest struct {
	Position int    `json:"position"`
	Question string `json:"question" binding:"required"`
	Response string `json:"response"`
}

func (h *ProjectHandler) SubmitSurvey(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req []surveyEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]model.SurveyEntry, 0, len(req))
	for _, e := range req {
		entries = append(entries, model.SurveyEntry{
			ProjectID: id,
			Position:  e.Position,
			Question:  e.Question,
			Response:  e.Response,
		})
	}

	if err := h.projectService.SubmitSurvey(c.Request.Context(), id, entries); err != nil {
		h.logger.Error("Failed to save survey", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save survey"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": len(entries)})
}

type addMemberRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Skills      string `json:"skills"`
	Interests   string `json:"interests"`
	CareerGoals string `json:"career_goals"`
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := &model.Member{
		ProjectID:   id,
		Email:       req.Email,
		Skills:      req.Skills,
		Interests:   req.Interests,
		CareerGoals: req.CareerGoals,
	}
	if err := h.projectService.AddMember(c.Request.Context(), m); err != nil {
		h.logger.Error("Failed to add member",
			zap.Int("project_id", id),
			zap.String("email", req.Email),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add member"})
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list members", zap.Int("project_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

type capabilityRequest struct {
	MemberEmail        string   `json:"member_email" binding:"required,email"`
	Strengths          []string `json:"strengths"`
	Skills             []string `json:"skills"`
	RoleSuggestion     string   `json:"role_suggestion"`
	CompatibilityScore float64  `json:"compatibility_score"`
}

func (h *ProjectHandler) SaveCapability(c *gin.Context) {
	id, ok := projectIDParam(c)
	if !ok {
		return
	}

	var req capabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	capability := &model.Capability{
		ProjectID:          id,
		MemberEmail:        req.MemberEmail,
		Strengths:          req.Strengths,
		Skills:             req.Skills,
		RoleSuggestion:     req.RoleSuggestion,
		CompatibilityScore: req.CompatibilityScore,
	}
	if err := h.projectService.SaveCapability(c.Request.Context(), capability); err != nil {
		h.logger.Error("Failed to save capability",
			zap.Int("project_id", id),
			zap.String("email", req.MemberEmail),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save capability"})
		return
	}

	c.JSON(http.StatusOK, capability)
}
