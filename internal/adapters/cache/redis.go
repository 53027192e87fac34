// Package cache implements ports.Cache on Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache implements ports.Cache.
type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
}

var _ ports.Cache = (*RedisCache)(nil)

// NewClient builds a go-redis client with the metrics hook installed.
func NewClient(opts Options) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	rdb.AddHook(&MetricsHook{})

	return rdb
}

// NewRedisCache wraps an existing client. prefix is prepended to every key
// so several deployments can share a server.
func NewRedisCache(rdb redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

// Get implements ports.Cache. A missing key is domain.ErrNotFound.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache key %q: %w", key, domain.ErrNotFound)
	}

	if err != nil {
		return nil, unavailable(err)
	}

	return value, nil
}

// Set implements ports.Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return unavailable(err)
	}

	return nil
}

// Delete implements ports.Cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
		return unavailable(err)
	}

	return nil
}

func unavailable(err error) error {
	return domain.NewUnavailableError("redis", err.Error())
}

// HealthChecker pings Redis.
type HealthChecker struct {
	rdb redis.UniversalClient
}

var _ ports.HealthChecker = (*HealthChecker)(nil)

// NewHealthChecker creates a Redis health checker.
func NewHealthChecker(rdb redis.UniversalClient) *HealthChecker {
	return &HealthChecker{rdb: rdb}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string {
	return "redis"
}

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return nil
}
