package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	mqcontracts "teamflow/contracts/mq"
	"teamflow/internal/ai"
	"teamflow/internal/handler"
	"teamflow/internal/httpserver"
	"teamflow/internal/mqhandler"
	"teamflow/internal/planner"
	"teamflow/internal/repository"
	"teamflow/internal/service"
	"teamflow/pkg/config"
	"teamflow/pkg/db"
	"teamflow/pkg/logger"
	"teamflow/pkg/mq"
	"teamflow/pkg/outbox"
	pkgredis "teamflow/pkg/redis"
	"teamflow/pkg/util"
)

const (
	dedupTTL      = 24 * time.Hour
	retryTTL      = time.Hour
	clientTimeout = 60 * time.Second
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load(config.GetEnv("CONFIG_DIR", "config"))
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	pool, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	rdb := pkgredis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to MQ", zap.Error(err))
	}
	defer publisher.Close()

	if err := publisher.EnsureDLQ(
		mqcontracts.RoutingKeyTaskCompleted,
		mqcontracts.RoutingKeyTaskDropped,
	); err != nil {
		log.Fatal("Failed to set up DLQ", zap.Error(err))
	}

	// Repositories.
	userRepo := repository.NewUserRepository(pool, log)
	projectRepo := repository.NewProjectRepository(pool, log)
	memberRepo := repository.NewMemberRepository(pool, log)
	roadmapRepo := repository.NewRoadmapRepository(pool, log)
	taskRepo := repository.NewTaskRepository(pool, log)
	pointsRepo := repository.NewPointsRepository(pool, log)
	outboxRepo := outbox.NewRepository(pool)

	// Planner pipeline.
	timeout := clientTimeout
	if cfg.Planner.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Planner.TimeoutSeconds) * time.Second
	}
	aiClient := ai.NewClient(cfg.Planner.BaseURL, timeout)
	generator := planner.NewGenerator(aiClient, log)

	// Services.
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL())
	projectService := service.NewProjectService(projectRepo, memberRepo, log)
	roadmapService := service.NewRoadmapService(pool, projectRepo, memberRepo, roadmapRepo, taskRepo, outboxRepo, generator, log)
	poolService := service.NewPoolService(pool, taskRepo, memberRepo, outboxRepo, log)
	leaderboardService := service.NewLeaderboardService(rdb, pointsRepo, log)

	deduper := util.NewDeduperWithLogger(rdb, dedupTTL, log)
	retryCounter := util.NewRetryCounter(rdb, retryTTL)

	// MQ consumers.
	roadmapHandler := mqhandler.NewRoadmapGeneratedHandler(leaderboardService, deduper, log)
	completedHandler := mqhandler.NewTaskCompletedHandler(pointsRepo, leaderboardService, retryCounter, deduper, publisher, log)
	droppedHandler := mqhandler.NewTaskDroppedHandler(pointsRepo, leaderboardService, deduper, log)

	consumers := startConsumers(log, cfg.MQ.URL, map[string]consumerBinding{
		"roadmap.generated.q": {mqcontracts.RoutingKeyRoadmapGenerated, roadmapHandler.Handle},
		"task.completed.q":    {mqcontracts.RoutingKeyTaskCompleted, completedHandler.Handle},
		"task.dropped.q":      {mqcontracts.RoutingKeyTaskDropped, droppedHandler.Handle},
	})
	defer func() {
		for _, c := range consumers {
			c.Stop()
		}
	}()

	// HTTP server.
	handlers := httpserver.Handlers{
		Auth:        handler.NewAuthHandler(authService, log),
		Project:     handler.NewProjectHandler(projectService, log),
		Roadmap:     handler.NewRoadmapHandler(roadmapService, log),
		Task:        handler.NewTaskHandler(poolService, taskRepo, userRepo, log),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardService, log),
	}
	router := httpserver.NewRouter(handlers, httpserver.Deps{
		DB:        pool,
		Consumers: consumers,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

type consumerBinding struct {
	routingKey string
	handle     mq.MessageHandler
}

func startConsumers(log *zap.Logger, url string, bindings map[string]consumerBinding) []*mq.Consumer {
	consumers := make([]*mq.Consumer, 0, len(bindings))
	for queue, b := range bindings {
		c, err := mq.NewConsumer(url, queue, b.routingKey, log)
		if err != nil {
			log.Fatal("Failed to create consumer",
				zap.String("queue", queue),
				zap.Error(err),
			)
		}
		c.SetHandler(b.handle)

		go func(queue string, c *mq.Consumer) {
			if err := c.StartConsuming(); err != nil {
				log.Error("Consumer stopped",
					zap.String("queue", queue),
					zap.Error(err),
				)
			}
		}(queue, c)

		consumers = append(consumers, c)
	}
	return consumers
}
