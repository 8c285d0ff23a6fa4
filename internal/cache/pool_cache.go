package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/stitts-dev/draft-sim/internal/models"
)

var ErrCacheMiss = errors.New("cache miss")

// PoolCache stores validated player pools in redis behind a circuit breaker.
// A nil client disables caching and every Get is a miss.
type PoolCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	logger  *logrus.Logger
}

// NewRedisClient parses a redis:// URL
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return redis.NewClient(opt), nil
}

// DefaultFailureThreshold applies when NewPoolCache gets a threshold <= 0
const DefaultFailureThreshold = 5

// NewPoolCache wraps client in a breaker that opens after threshold
// consecutive failures and probes again after timeout. A nil client
// disables caching.
func NewPoolCache(client *redis.Client, ttl time.Duration, threshold int, timeout time.Duration, logger *logrus.Logger) *PoolCache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	settings := gobreaker.Settings{
		Name:        "pool-cache",
		MaxRequests: 1,
		Timeout:     timeout,
		// threshold consecutive redis failures open the breaker
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		// a miss is a normal answer, not a redis failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &PoolCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		ttl:     ttl,
		logger:  logger,
	}
}

// PoolCacheKey names the cache entry for a player source
func PoolCacheKey(source string) string {
	return fmt.Sprintf("players:%s", source)
}

func (c *PoolCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *PoolCache) Get(ctx context.Context, source string) ([]models.PlayerRecord, error) {
	if !c.Enabled() {
		return nil, ErrCacheMiss
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		data, err := c.client.Get(ctx, PoolCacheKey(source)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get cache: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	var records []models.PlayerRecord
	if err := json.Unmarshal(result.([]byte), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached pool: %w", err)
	}
	return records, nil
}

func (c *PoolCache) Set(ctx context.Context, source string, records []models.PlayerRecord) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal pool: %w", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		if err := c.client.Set(ctx, PoolCacheKey(source), data, c.ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to set cache: %w", err)
		}
		return nil, nil
	})
	return err
}

func (c *PoolCache) Invalidate(ctx context.Context, source string) error {
	if !c.Enabled() {
		return nil
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		if err := c.client.Del(ctx, PoolCacheKey(source)).Err(); err != nil {
			return nil, fmt.Errorf("failed to delete cache: %w", err)
		}
		return nil, nil
	})
	return err
}

// Ping reports redis health; a disabled cache is always healthy
func (c *PoolCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// State returns the breaker state for readiness reporting
func (c *PoolCache) State() gobreaker.State {
	return c.breaker.State()
}
