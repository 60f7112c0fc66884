// Package cache provides the CacheRepository implementations: Redis for
// deployments, an in-memory store for development and tests.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodgram/v2/internal/infrastructure/config"
	"github.com/foodgram/v2/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache implements outbound.CacheRepository backed by Redis
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisClient creates a Redis client and verifies connectivity
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// NewRedisCache creates a Redis-backed cache repository
func NewRedisCache(client *redis.Client, logger *zap.Logger) outbound.CacheRepository {
	return &RedisCache{
		client: client,
		logger: logger.Named("redis-cache"),
	}
}

// Get retrieves a value, returning (nil, nil) on a cache miss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cache key: %w", err)
	}
	return val, nil
}

// Set stores a value with a TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key: %w", err)
	}
	return nil
}

// Delete removes a key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key: %w", err)
	}
	return nil
}

// Exists reports whether a key is present
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache key: %w", err)
	}
	return n > 0, nil
}
