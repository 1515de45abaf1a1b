package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/onsite-team/taskflow/internal/derive"
	"github.com/onsite-team/taskflow/internal/persistence"
	"github.com/onsite-team/taskflow/internal/repository"
	apperrors "github.com/onsite-team/taskflow/pkg/util"
)

const (
	statsDashboardKey = "taskflow:stats:dashboard"
	statsMembersKey   = "taskflow:stats:members"
)

// StatsService serves dashboard and per-member aggregates. Counts are
// computed from the task collection and cached in Redis with a short
// TTL; a cache miss or an unreachable Redis falls back to direct
// computation and is never a caller-visible failure.
type StatsService struct {
	tasks  repository.TaskRepository
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService constructs the service. redis may be nil in tests.
func NewStatsService(tasks repository.TaskRepository, redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{tasks: tasks, redis: redis, ttl: ttl, logger: logger}
}

// Dashboard returns status counts over all tasks.
func (s *StatsService) Dashboard(ctx context.Context) (derive.StatusCounts, error) {
	var counts derive.StatusCounts
	if s.cacheGet(ctx, statsDashboardKey, &counts) {
		return counts, nil
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return derive.StatusCounts{}, apperrors.NewStoreError(err)
	}
	counts = derive.ComputeStatusCounts(tasks)
	s.cacheSet(ctx, statsDashboardKey, counts)
	return counts, nil
}

// Member returns status counts for one member's tasks.
func (s *StatsService) Member(ctx context.Context, userID string) (derive.MemberStats, error) {
	var stats derive.MemberStats
	if s.cacheGetField(ctx, statsMembersKey, userID, &stats) {
		return stats, nil
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return derive.MemberStats{}, apperrors.NewStoreError(err)
	}
	stats = derive.ComputeMemberStats(tasks, userID)
	s.cacheSetField(ctx, statsMembersKey, userID, stats)
	return stats, nil
}

// Invalidate drops all cached aggregates. Called by the task service
// after every write.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	if err := s.redis.Client.Del(ctx, statsDashboardKey, statsMembersKey).Err(); err != nil {
		s.logWarn("stats cache invalidate failed", err)
	}
}

func (s *StatsService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.redis == nil || s.redis.Client == nil {
		return false
	}
	raw, err := s.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *StatsService) cacheSet(ctx context.Context, key string, val any) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.redis.Client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logWarn("stats cache set failed", err)
	}
}

func (s *StatsService) cacheGetField(ctx context.Context, key, field string, out any) bool {
	if s.redis == nil || s.redis.Client == nil {
		return false
	}
	raw, err := s.redis.Client.HGet(ctx, key, field).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *StatsService) cacheSetField(ctx context.Context, key, field string, val any) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.redis.Client.HSet(ctx, key, field, raw).Err(); err != nil {
		s.logWarn("stats cache set failed", err)
		return
	}
	if s.ttl > 0 {
		_ = s.redis.Client.Expire(ctx, key, s.ttl).Err()
	}
}

func (s *StatsService) logWarn(msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, zap.Error(err))
}
