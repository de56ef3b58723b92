package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
	"volunteer-match/internal/config"
	"volunteer-match/internal/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

// SessionCache maps session tokens to user ids in Redis. Calls go through a
// circuit breaker so an unreachable Redis fails fast instead of adding its
// dial timeout to every authenticated request.
type SessionCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{
		client:  client,
		ttl:     ttl,
		breaker: NewCircuitBreaker("Redis-Sessions"),
	}
}

// NewCircuitBreaker opens after three consecutive failures and probes again
// after five seconds.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func (c *SessionCache) Get(ctx context.Context, token string) (int64, bool, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		userID, err := c.client.Get(ctx, sessionKeyPrefix+token).Int64()
		if errors.Is(err, redis.Nil) {
			// A miss is a healthy answer, not a breaker failure.
			return int64(0), nil
		}
		return userID, err
	})
	if err != nil {
		return 0, false, fmt.Errorf("session cache get: %w", err)
	}

	userID := result.(int64)
	return userID, userID != 0, nil
}

func (c *SessionCache) Set(ctx context.Context, token string, userID int64) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, sessionKeyPrefix+token, userID, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("session cache set: %w", err)
	}
	return nil
}

func (c *SessionCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SessionCache) Close() error {
	return c.client.Close()
}
