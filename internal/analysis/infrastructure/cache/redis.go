package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the circuit breaker guarding Redis.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig trips after five consecutive failures and probes
// again after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// RedisResultCache shares analyses between processes. Calls go through a
// circuit breaker, and an open breaker reads as a miss.
type RedisResultCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// NewRedisResultCache wraps client.
func NewRedisResultCache(client *redis.Client, ttl time.Duration, cfg BreakerConfig, logger *slog.Logger) *RedisResultCache {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "redis-result-cache",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &RedisResultCache{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
	}
}

// Get implements ResultCache.
func (c *RedisResultCache) Get(ctx context.Context, key string) (domain.Analysis, bool) {
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		if !isBreakerRejection(err) {
			c.logger.WarnContext(ctx, "cache read failed", "error", err)
		}
		return domain.Analysis{}, false
	}
	if raw == nil {
		return domain.Analysis{}, false
	}

	var analysis domain.Analysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		c.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", err)
		return domain.Analysis{}, false
	}
	return analysis, true
}

// Set implements ResultCache.
func (c *RedisResultCache) Set(ctx context.Context, key string, analysis domain.Analysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, payload, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// State reports the breaker state for health checks.
func (c *RedisResultCache) State() gobreaker.State {
	return c.breaker.State()
}

// Ping checks Redis directly, bypassing the breaker.
func (c *RedisResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
