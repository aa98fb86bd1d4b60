package cache

import (
	"context" // Context for Redis operations
	"strconv" // Window suffix
	"time"    // Window durations

	"github.com/redis/go-redis/v9" // Redis client
)

// keyPrefix namespaces limiter counters in Redis
const keyPrefix = "ratelimit:auth:"

// Result describes the outcome of one Allow call
type Result struct {
	Allowed    bool          // Whether the attempt may proceed
	Remaining  int64         // Attempts left in the current window
	RetryAfter time.Duration // Time until the window resets
}

// Limiter counts attempts per key in fixed windows stored in Redis
type Limiter struct {
	rdb    *redis.Client    // Redis client, nil disables limiting
	limit  int64            // Attempts allowed per window
	window time.Duration    // Window length
	now    func() time.Time // Clock
}

// NewLimiter returns a Limiter allowing limit attempts per window.
// A nil client or a non-positive limit yields a limiter that allows everything.
func NewLimiter(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: int64(limit), window: window, now: time.Now}
}

// Allow records one attempt for key and reports whether it is within the limit
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return Result{Allowed: true, Remaining: -1}, nil
	}
	now := l.now()
	windowStart := now.Truncate(l.window)
	redisKey := keyPrefix + key + ":" + strconv.FormatInt(windowStart.Unix(), 10)

	// Increment and set expiry in one round trip
	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err // Redis error
	}

	count := incr.Val()
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:    count <= l.limit,
		Remaining:  remaining,
		RetryAfter: windowStart.Add(l.window).Sub(now),
	}, nil
}
