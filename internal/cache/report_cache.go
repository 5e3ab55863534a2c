package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"banban-schedule-api/internal/model"
)

// NewRedisClient connects to Redis. A connection failure is logged but not
// fatal: callers degrade to direct computation when the cache is unreachable.
func NewRedisClient(addr, password string, db int, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return client
}

// ReportCache holds computed monthly work-hour stats keyed by (user, period).
// Shift mutations invalidate the affected key. A nil cache is a valid no-op.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	return &ReportCache{client: client, ttl: ttl, logger: logger}
}

func statsKey(userID uuid.UUID, period string) string {
	return fmt.Sprintf("workhours:%s:%s", userID, period)
}

// Get returns cached stats, or ok=false on miss or any cache failure.
func (c *ReportCache) Get(ctx context.Context, userID uuid.UUID, period string) (*model.WorkHourStats, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, statsKey(userID, period)).Bytes()
	if err != nil {
		return nil, false
	}

	var stats model.WorkHourStats
	if err := json.Unmarshal(data, &stats); err != nil {
		c.logger.Warn("corrupt cached work-hour stats", zap.Error(err))
		return nil, false
	}
	return &stats, true
}

// Set stores stats; failures are logged and swallowed.
func (c *ReportCache) Set(ctx context.Context, stats *model.WorkHourStats) {
	if c == nil || c.client == nil || stats == nil {
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey(stats.UserID, stats.Period), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache work-hour stats", zap.Error(err))
	}
}

// Invalidate drops the cached stats for a user and period.
func (c *ReportCache) Invalidate(ctx context.Context, userID uuid.UUID, period string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsKey(userID, period)).Err(); err != nil {
		c.logger.Warn("failed to invalidate work-hour stats", zap.Error(err))
	}
}
