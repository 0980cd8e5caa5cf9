package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLimiter(t *testing.T) (*RedisRateLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewRedisRateLimiter(client)
	limiter.now = func() time.Time { return clock }
	return limiter, mr, &clock
}

func TestRedisRateLimiter_Allow_WithinWindow(t *testing.T) {
	limiter, _, _ := setupTestLimiter(t)
	ctx := context.Background()
	policy := Policy{Limit: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "ip:1.2.3.4", policy)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := limiter.Allow(ctx, "ip:1.2.3.4", policy)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "4th request should be denied")
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, time.Minute, d.ResetAfter)
}

func TestRedisRateLimiter_Allow_NewWindow(t *testing.T) {
	limiter, _, clock := setupTestLimiter(t)
	ctx := context.Background()
	policy := Policy{Limit: 1, Window: time.Minute}

	d, err := limiter.Allow(ctx, "k", policy)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	*clock = clock.Add(30 * time.Second)
	d, err = limiter.Allow(ctx, "k", policy)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 30*time.Second, d.ResetAfter)

	*clock = clock.Add(30 * time.Second)
	d, err = limiter.Allow(ctx, "k", policy)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _, _ := setupTestLimiter(t)
	ctx := context.Background()
	policy := Policy{Limit: 1, Window: time.Minute}

	a, err := limiter.Allow(ctx, "a", policy)
	require.NoError(t, err)
	b, err := limiter.Allow(ctx, "b", policy)
	require.NoError(t, err)

	assert.True(t, a.Allowed)
	assert.True(t, b.Allowed)
}

func TestRedisRateLimiter_DisabledPolicy(t *testing.T) {
	limiter, mr, _ := setupTestLimiter(t)

	d, err := limiter.Allow(context.Background(), "k", Policy{})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Empty(t, mr.Keys())
}

func TestRedisRateLimiter_SetsExpiry(t *testing.T) {
	limiter, mr, _ := setupTestLimiter(t)

	_, err := limiter.Allow(context.Background(), "k", Policy{Limit: 5, Window: time.Minute})
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, 2*time.Minute, mr.TTL(keys[0]))
}

func TestRedisRateLimiter_Reset(t *testing.T) {
	limiter, _, _ := setupTestLimiter(t)
	ctx := context.Background()
	policy := Policy{Limit: 1, Window: time.Minute}

	_, err := limiter.Allow(ctx, "k", policy)
	require.NoError(t, err)
	require.NoError(t, limiter.Reset(ctx, "k"))

	d, err := limiter.Allow(ctx, "k", policy)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisRateLimiter_RedisDown(t *testing.T) {
	limiter, mr, _ := setupTestLimiter(t)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "k", Policy{Limit: 1, Window: time.Minute})
	assert.Error(t, err)
}
