package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"luxe-marketplace/internal/metrics"
	"luxe-marketplace/internal/models"
)

const defaultCacheKey = "inventory:vehicles"

// RedisCache stores the raw inventory list under a single key.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisClient creates a go-redis client with the service's pool settings.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, key: defaultCacheKey, ttl: ttl}
}

// Get returns the cached list. ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context) ([]models.Vehicle, bool, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var vehicles []models.Vehicle
	if err := json.Unmarshal(val, &vehicles); err != nil {
		return nil, false, fmt.Errorf("decode cached inventory: %w", err)
	}
	return vehicles, true, nil
}

func (c *RedisCache) Set(ctx context.Context, vehicles []models.Vehicle) error {
	data, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached list so the next read goes to the origin.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

// CachedSource reads through the cache. Cache failures are logged and the
// origin is used instead.
type CachedSource struct {
	origin Source
	cache  *RedisCache
	logger *zap.Logger
}

func NewCachedSource(origin Source, cache *RedisCache, logger *zap.Logger) *CachedSource {
	return &CachedSource{
		origin: origin,
		cache:  cache,
		logger: logger.With(zap.String("component", "inventory_cache")),
	}
}

func (s *CachedSource) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, ok, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		metrics.InventoryCacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("cache read failed", zap.Error(err))
	case ok:
		metrics.InventoryCacheLookups.WithLabelValues("hit").Inc()
		return vehicles, nil
	default:
		metrics.InventoryCacheLookups.WithLabelValues("miss").Inc()
	}

	vehicles, err = s.origin.FetchVehicles(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, vehicles); err != nil {
		s.logger.Warn("cache write failed", zap.Error(err))
	}
	return vehicles, nil
}

// Invalidate forces the next fetch to hit the origin.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
