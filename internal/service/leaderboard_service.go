package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"teamflow/internal/model"
	"teamflow/internal/repository"
)

// LeaderboardService keeps per-project point standings in a redis sorted
// set, lazily rebuilt from the points ledger when the key is missing.
type LeaderboardService struct {
	rdb        *redis.Client
	pointsRepo *repository.PointsRepository
	logger     *zap.Logger
}

func NewLeaderboardService(rdb *redis.Client, pointsRepo *repository.PointsRepository, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		rdb:        rdb,
		pointsRepo: pointsRepo,
		logger:     logger,
	}
}

func leaderboardKey(projectID int) string {
	return fmt.Sprintf("leaderboard:%d", projectID)
}

// AddPoints adjusts a member's score. Negative deltas apply penalties.
func (s *LeaderboardService) AddPoints(ctx context.Context, projectID int, memberEmail string, delta int) error {
	key := leaderboardKey(projectID)
	if err := s.rdb.ZIncrBy(ctx, key, float64(delta), memberEmail).Err(); err != nil {
		s.logger.Error("Failed to update leaderboard",
			zap.Int("project_id", projectID),
			zap.String("member", memberEmail),
			zap.Int("delta", delta),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// SeedMembers registers roster members with a zero score so they appear on
// the board before their first completion. Existing scores are untouched.
func (s *LeaderboardService) SeedMembers(ctx context.Context, projectID int, emails []string) error {
	key := leaderboardKey(projectID)
	for _, email := range emails {
		if err := s.rdb.ZAddNX(ctx, key, redis.Z{Score: 0, Member: email}).Err(); err != nil {
			s.logger.Error("Failed to seed leaderboard member",
				zap.Int("project_id", projectID),
				zap.String("member", email),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

// Top returns the highest-scoring members. When the cache key is missing
// (expiry, redis restart) the board is rebuilt from Postgres first.
func (s *LeaderboardService) Top(ctx context.Context, projectID int, n int) ([]model.LeaderboardEntry, error) {
	key := leaderboardKey(projectID)

	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		if err := s.rebuild(ctx, projectID); err != nil {
			return nil, err
		}
	}

	zs, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		email, _ := z.Member.(string)
		entries = append(entries, model.LeaderboardEntry{
			MemberEmail: email,
			Points:      z.Score,
			Rank:        i + 1,
		})
	}
	return entries, nil
}

func (s *LeaderboardService) rebuild(ctx context.Context, projectID int) error {
	totals, err := s.pointsRepo.Totals(ctx, projectID)
	if err != nil {
		return err
	}
	if len(totals) == 0 {
		return nil
	}

	key := leaderboardKey(projectID)
	zs := make([]redis.Z, 0, len(totals))
	for email, points := range totals {
		zs = append(zs, redis.Z{Score: float64(points), Member: email})
	}
	if err := s.rdb.ZAdd(ctx, key, zs...).Err(); err != nil {
		return err
	}

	s.logger.Info("Leaderboard rebuilt from points ledger",
		zap.Int("project_id", projectID),
		zap.Int("members", len(totals)),
	)
	return nil
}
