package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimitResult is the outcome of one rate-limit check.
type LimitResult struct {
	Success bool
	ResetAt time.Time
}

// RateLimiter is a sliding-window counter keyed per caller. It fails
// open: when the backend is unreachable the request is allowed, which
// trades strict anti-abuse guarantees for availability.
type RateLimiter struct {
	prefix string
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window
func NewRateLimiter(prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{prefix: prefix, limit: limit, window: window}
}

// Limit records one request for key and reports whether it is allowed.
// The window slides: each check drops entries older than the window
// before counting.
func (l *RateLimiter) Limit(ctx context.Context, key string) LimitResult {
	cli := GetClient()
	if cli == nil {
		return LimitResult{Success: true}
	}

	now := time.Now()
	storageKey := l.prefix + ":" + key
	windowStart := now.Add(-l.window)
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := cli.TxPipeline()
	pipe.ZRemRangeByScore(ctx, storageKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, storageKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, storageKey)
	pipe.Expire(ctx, storageKey, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		// Backend down: allow rather than lock everyone out.
		return LimitResult{Success: true}
	}

	if countCmd.Val() > int64(l.limit) {
		return LimitResult{Success: false, ResetAt: now.Add(l.window)}
	}
	return LimitResult{Success: true}
}
