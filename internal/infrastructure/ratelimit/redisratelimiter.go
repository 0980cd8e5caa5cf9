package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter keeps one counter per key and window start. Only request counts
// are stored, never request content.
type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.UniversalClient) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: "ratelimit",
		now:    time.Now,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, policy Policy) (Decision, error) {
	if !policy.Enabled() {
		return Decision{Allowed: true, Remaining: -1}, nil
	}

	now := l.now()
	windowStart := now.Truncate(policy.Window)
	resetAfter := windowStart.Add(policy.Window).Sub(now)
	redisKey := l.getKey(key, policy.Window, windowStart)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, policy.Window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(incr.Val())
	remaining := policy.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:    count <= policy.Limit,
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	pattern := fmt.Sprintf("%s:%s:*", l.prefix, key)

	iter := l.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys: %w", err)
	}
	return nil
}

func (l *RedisRateLimiter) getKey(identifier string, window time.Duration, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d", l.prefix, identifier, window.String(), windowStart.Unix())
}
