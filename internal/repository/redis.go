package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pixelforge/internal/config"
	"pixelforge/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache implements Cache on Redis. The record store stays authoritative,
// so every Redis failure is logged and absorbed: reads degrade to misses and
// writes to no-ops.
type RedisCache struct {
	client  redis.Cmdable
	config  *config.RedisConfig
	enabled bool
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to Redis. A failed connection does not error out;
// the cache starts disabled and the service runs against the record store
// alone.
func NewRedisCache(cfg *config.RedisConfig) *RedisCache {
	logger.Info("Initializing fast cache",
		zap.String("url", cfg.URL),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize))

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Warn("Invalid Redis URL, fast cache disabled", zap.Error(err))
		return &RedisCache{config: cfg}
	}

	opt.Password = cfg.Password
	opt.DB = cfg.DB
	opt.PoolSize = cfg.PoolSize
	opt.DialTimeout = cfg.Timeout
	opt.ReadTimeout = cfg.Timeout
	opt.WriteTimeout = cfg.Timeout

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, fast cache disabled", zap.Error(err))
		return &RedisCache{client: client, config: cfg}
	}

	logger.Info("Fast cache initialized successfully")
	return &RedisCache{client: client, config: cfg, enabled: true}
}

// Get retrieves a cached value; any failure is a miss
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	if !c.enabled {
		return "", false
	}

	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.WarnWithContext(ctx, "Cache read failed, treating as miss",
				zap.String("key", key),
				zap.Error(err))
		}
		return "", false
	}

	logger.DebugWithContext(ctx, "Cache hit", zap.String("key", key))
	return value, true
}

// Set stores a JSON-serialized value with TTL; failures are logged and dropped
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.enabled {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.WarnWithContext(ctx, "Cache value serialization failed",
			zap.String("key", key),
			zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.WarnWithContext(ctx, "Cache write failed",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err))
		return
	}

	logger.DebugWithContext(ctx, "Cache entry stored",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
}

// Delete removes a cached value; failures are logged and dropped
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if !c.enabled {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.WarnWithContext(ctx, "Cache delete failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// Health reports cache connectivity; a disabled cache is unhealthy but the
// caller treats that as degraded, not fatal
func (c *RedisCache) Health(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("fast cache not configured")
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("fast cache ping failed: %w", err)
	}
	return nil
}

// Close closes the cache connection
func (c *RedisCache) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok && closer != nil {
		logger.Info("Closing fast cache connection")
		return closer.Close()
	}
	return nil
}
