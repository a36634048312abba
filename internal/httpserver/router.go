package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"teamflow/internal/handler"
	"teamflow/pkg/mq"
	"teamflow/pkg/rbac"
)

// Handlers bundles the route handlers wired by the composition root.
type Handlers struct {
	Auth        *handler.AuthHandler
	Project     *handler.ProjectHandler
	Roadmap     *handler.RoadmapHandler
	Task        *handler.TaskHandler
	Leaderboard *handler.LeaderboardHandler
}

// Deps carries everything the router needs besides the handlers.
type Deps struct {
	DB        *pgxpool.Pool
	Consumers []*mq.Consumer
	JWTSecret string
	Logger    *zap.Logger
}

// NewRouter assembles the gin engine: health and metrics endpoints are open,
// the API group sits behind JWT auth with per-route rbac checks.
func NewRouter(h Handlers, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(RequestLogger(deps.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", readiness(deps))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)

	api := r.Group("/api", AuthMiddleware(deps.JWTSecret))
	{
		api.POST("/projects", RequirePermission(rbac.PermissionCreateProject), h.Project.Create)
		api.GET("/projects/:id", h.Project.Get)
		api.PUT("/projects/:id/charter", RequirePermission(rbac.PermissionManageMembers), h.Project.SubmitCharter)
		api.PUT("/projects/:id/survey", RequirePermission(rbac.PermissionManageMembers), h.Project.SubmitSurvey)
		api.POST("/projects/:id/members", RequirePermission(rbac.PermissionManageMembers), h.Project.AddMember)
		api.GET("/projects/:id/members", h.Project.ListMembers)
		api.PUT("/projects/:id/capabilities", RequirePermission(rbac.PermissionManageMembers), h.Project.SaveCapability)

		api.POST("/projects/:id/roadmap", RequirePermission(rbac.PermissionGenerateRoadmap), h.Roadmap.Generate)
		api.GET("/projects/:id/roadmaps", h.Roadmap.ListByProject)
		api.GET("/roadmaps/:id", h.Roadmap.Get)

		api.GET("/projects/:id/tasks", RequirePermission(rbac.PermissionReadTask), h.Task.List)
		api.POST("/tasks/:taskId/claim", RequirePermission(rbac.PermissionClaimTask), h.Task.Claim)
		api.POST("/tasks/:taskId/complete", RequirePermission(rbac.PermissionCompleteTask), h.Task.Complete)

		api.GET("/projects/:id/leaderboard", RequirePermission(rbac.PermissionReadTask), h.Leaderboard.Top)
	}

	return r
}

// readiness checks the database and every MQ consumer connection.
func readiness(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := deps.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		for _, consumer := range deps.Consumers {
			if !consumer.IsConnected() {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "mq consumer disconnected"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
