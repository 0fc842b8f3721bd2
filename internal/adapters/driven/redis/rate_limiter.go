package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.RateLimiter = (*RateLimiter)(nil)

const rateLimitPrefix = "sitedex:ratelimit:"

// admitScript atomically prunes expired admissions, checks the limit,
// and records the new admission. A sorted set per user holds one member
// per admitted job, scored by admission time in unix milliseconds.
//
// KEYS[1] = user's admission set
// ARGV[1] = window cutoff (unix ms), ARGV[2] = limit,
// ARGV[3] = now (unix ms), ARGV[4] = member, ARGV[5] = window (ms)
var admitScript = redis.NewScript(`
	redis.call("zremrangebyscore", KEYS[1], "-inf", ARGV[1])
	if redis.call("zcard", KEYS[1]) >= tonumber(ARGV[2]) then
		return 0
	end
	redis.call("zadd", KEYS[1], ARGV[3], ARGV[4])
	redis.call("pexpire", KEYS[1], ARGV[5])
	return 1
`)

// RateLimiter implements driven.RateLimiter with a Redis sliding
// window. Admissions survive process restarts and are shared across
// instances.
type RateLimiter struct {
	client *redis.Client

	// now is swappable for tests
	now func() time.Time
}

// NewRateLimiter creates a new Redis-backed rate limiter.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{
		client: client,
		now:    time.Now,
	}
}

// TryAdmit records a new crawl job for the user if fewer than limit
// jobs were admitted within the trailing window. Returns true when the
// job was admitted.
func (r *RateLimiter) TryAdmit(ctx context.Context, userID string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	key := rateLimitPrefix + userID
	now := r.now().UnixMilli()
	cutoff := now - window.Milliseconds()

	result, err := admitScript.Run(ctx, r.client, []string{key},
		cutoff, limit, now, uuid.NewString(), window.Milliseconds()).Result()
	if err != nil {
		return false, fmt.Errorf("admit %s: %w", userID, err)
	}
	return result.(int64) == 1, nil
}

// CountRecent returns how many jobs the user was admitted for within
// the trailing window
func (r *RateLimiter) CountRecent(ctx context.Context, userID string, window time.Duration) (int, error) {
	key := rateLimitPrefix + userID
	cutoff := r.now().Add(-window).UnixMilli()

	count, err := r.client.ZCount(ctx, key, fmt.Sprintf("(%d", cutoff), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("count admissions for %s: %w", userID, err)
	}
	return int(count), nil
}

// Ping checks if the Redis backend is healthy.
func (r *RateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
