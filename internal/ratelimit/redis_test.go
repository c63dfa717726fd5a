package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixedWindowLimiter(t *testing.T) {
	limiter := NewFixedWindowLimiter(nil, "auth:", 5, time.Minute)

	require.NotNil(t, limiter)
	assert.Equal(t, "auth:", limiter.keyPrefix)
	assert.Equal(t, 5, limiter.limit)
	assert.Equal(t, time.Minute, limiter.window)
}

// Runs against a real Redis when TEST_REDIS_ADDR is set.
func TestFixedWindowLimiter_Allow_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	limiter := NewFixedWindowLimiter(client, "test:ratelimit:", 3, time.Minute)
	require.NoError(t, limiter.Reset(ctx, "1.2.3.4"))
	defer limiter.Reset(ctx, "1.2.3.4")

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
	assert.WithinDuration(t, time.Now().Add(time.Minute), result.ResetAt, 5*time.Second)
}
