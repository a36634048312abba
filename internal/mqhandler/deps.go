package mqhandler

import (
	"context"

	"teamflow/internal/model"
)

// Narrow views of the infrastructure the handlers touch, so failure paths
// can be exercised without live redis/postgres.

type deduper interface {
	AcquireOnce(ctx context.Context, handler string, entityID int) bool
	Release(ctx context.Context, handler string, entityID int)
}

type retryCounter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type pointsLedger interface {
	Insert(ctx context.Context, e *model.PointsEntry) error
}

type scoreboard interface {
	AddPoints(ctx context.Context, projectID int, memberEmail string, delta int) error
	SeedMembers(ctx context.Context, projectID int, emails []string) error
}

type dlqPublisher interface {
	PublishToDLQ(routingKey string, payload []byte, originalError string) error
}
