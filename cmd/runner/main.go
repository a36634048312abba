// The runner hosts the background loops: the transactional outbox dispatcher
// and the overdue task sweep that drops lapsed claims back into the pool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"teamflow/internal/repository"
	"teamflow/internal/service"
	"teamflow/pkg/config"
	"teamflow/pkg/db"
	"teamflow/pkg/logger"
	"teamflow/pkg/mq"
	"teamflow/pkg/outbox"
)

const defaultOverdueInterval = 60 * time.Second

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

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to MQ", zap.Error(err))
	}
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxRepo := outbox.NewRepository(pool)
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log)
	go dispatcher.Start(ctx)

	taskRepo := repository.NewTaskRepository(pool, log)
	orchestrator := service.NewOrchestrator(taskRepo, publisher, log)

	interval := defaultOverdueInterval
	if cfg.Runner.OverdueIntervalSeconds > 0 {
		interval = time.Duration(cfg.Runner.OverdueIntervalSeconds) * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := orchestrator.CheckAndDropOverdue(ctx); err != nil {
					log.Error("Overdue sweep failed", zap.Error(err))
				}
			}
		}
	}()

	log.Info("Runner started",
		zap.Duration("overdue_interval", interval),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Runner shutting down...")
	cancel()
	time.Sleep(time.Second)
	log.Info("Runner stopped")
}
