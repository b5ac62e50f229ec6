package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"contentflow/domain/model"
)

// Limit holds the advisory posting ceilings for one platform.
type Limit struct {
	PerHour int
	PerDay  int
}

// IRateLimiter reports whether a user is within a platform's posting
// ceilings. The answer is advisory: publishing proceeds either way and
// callers only log when the ceiling is exceeded.
type IRateLimiter interface {
	Allow(ctx context.Context, userID string, platform model.Platform) (bool, error)
}

// RateLimiter counts publishes per user and platform in Redis using
// hour and day buckets.
type RateLimiter struct {
	client *redis.Client
	limits map[model.Platform]Limit
}

func NewRateLimiter(client *redis.Client, limits map[model.Platform]Limit) *RateLimiter {
	return &RateLimiter{client: client, limits: limits}
}

func (r *RateLimiter) Allow(ctx context.Context, userID string, platform model.Platform) (bool, error) {
	limit, ok := r.limits[platform]
	if !ok {
		return true, nil
	}
	now := time.Now().UTC()
	hourKey := fmt.Sprintf("publish:rl:%s:%s:h:%s", userID, platform, now.Format("2006010215"))
	dayKey := fmt.Sprintf("publish:rl:%s:%s:d:%s", userID, platform, now.Format("20060102"))

	pipe := r.client.TxPipeline()
	hourCount := pipe.Incr(ctx, hourKey)
	pipe.Expire(ctx, hourKey, time.Hour)
	dayCount := pipe.Incr(ctx, dayKey)
	pipe.Expire(ctx, dayKey, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	if limit.PerHour > 0 && hourCount.Val() > int64(limit.PerHour) {
		return false, nil
	}
	if limit.PerDay > 0 && dayCount.Val() > int64(limit.PerDay) {
		return false, nil
	}
	return true, nil
}
