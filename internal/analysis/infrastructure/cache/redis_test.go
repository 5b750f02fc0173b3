package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisResultCache_UnavailableIsAMiss(t *testing.T) {
	ctx := context.Background()
	client := unreachableClient()
	defer client.Close()

	cfg := DefaultBreakerConfig()
	cfg.FailureThreshold = 2
	c := NewRedisResultCache(client, time.Minute, cfg, observability.Discard())

	for i := 0; i < 4; i++ {
		_, ok := c.Get(ctx, "k")
		assert.False(t, ok)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	// once open the breaker answers without touching Redis
	err := c.Set(ctx, "k", domain.Analysis{})
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	assert.Error(t, c.Ping(ctx))
}

func TestIsBreakerRejection(t *testing.T) {
	assert.True(t, isBreakerRejection(gobreaker.ErrOpenState))
	assert.True(t, isBreakerRejection(gobreaker.ErrTooManyRequests))
	assert.False(t, isBreakerRejection(redis.Nil))
}
