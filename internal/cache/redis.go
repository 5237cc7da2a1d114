// Package cache holds the Redis-backed request limiter.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter per key.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
	prefix string
	now    func() time.Time
}

// RedisConfig contains options for connecting to Redis.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisLimiter connects to Redis and allows max hits per window for each key.
func NewRedisLimiter(ctx context.Context, cfg RedisConfig, max int, window time.Duration) (*RedisLimiter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisLimiter{client: rdb, max: int64(max), window: window, prefix: "ratelimit:", now: time.Now}, nil
}

// Allow counts one hit for key and reports whether it is within the limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := bucketKey(l.prefix, key, l.now(), l.window)

	// INCR and EXPIRE go in one transaction so a counter never outlives its window.
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter %s: %w", redisKey, err)
	}
	return withinLimit(incr.Val(), l.max), nil
}

// bucketKey names the counter for key in the window containing now.
// Every instant in the same window maps to the same key; the next window
// starts a fresh counter.
func bucketKey(prefix, key string, now time.Time, window time.Duration) string {
	bucket := now.UnixNano() / int64(window)
	return fmt.Sprintf("%s%s:%d", prefix, key, bucket)
}

// withinLimit reports whether the count-th hit of a window is allowed.
// The max-th hit is still allowed.
func withinLimit(count, max int64) bool {
	return count <= max
}

// Close closes the Redis client.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
