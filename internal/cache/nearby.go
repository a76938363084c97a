// Package cache holds short-lived read caches in front of the repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/garage-service/internal/domain"
)

const (
	generationKey = "nearby:generation"
	keyPrefix     = "nearby"
)

// NearbyCache caches proximity results in redis. Entries are keyed by a
// generation counter; Invalidate bumps the counter so stale entries are never
// read again and simply expire.
//
// Redis failures are logged and reported as a miss.
type NearbyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewNearbyCache returns a cache; a nil client or zero ttl yields a cache that never hits.
func NewNearbyCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *NearbyCache {
	return &NearbyCache{client: client, ttl: ttl, logger: logger}
}

func (c *NearbyCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns the cached result for q. On a miss it also returns the key a
// fresh result must be stored under, pinned to the generation read here; the
// key is empty when the cache is disabled or the generation is unknown.
func (c *NearbyCache) Get(ctx context.Context, q domain.NearbyQuery) ([]domain.NearbyGarage, string, bool) {
	if !c.enabled() {
		return nil, "", false
	}
	key, err := c.key(ctx, q)
	if err != nil {
		c.logger.Warn("nearby cache generation lookup failed", zap.Error(err))
		return nil, "", false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, false
	}
	if err != nil {
		c.logger.Warn("nearby cache read failed", zap.String("key", key), zap.Error(err))
		return nil, "", false
	}

	var result []domain.NearbyGarage
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("nearby cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, key, false
	}
	return result, key, true
}

// Set stores result under a key returned by Get. A result computed before an
// Invalidate lands in the retired generation and is never read.
func (c *NearbyCache) Set(ctx context.Context, key string, result []domain.NearbyGarage) {
	if !c.enabled() || key == "" {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("nearby cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("nearby cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate retires every cached result.
func (c *NearbyCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.Warn("nearby cache invalidation failed", zap.Error(err))
	}
}

func (c *NearbyCache) key(ctx context.Context, q domain.NearbyQuery) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	// Six decimals is roughly 0.1m; finer differences share an entry.
	return fmt.Sprintf("%s:%d:%.6f:%.6f:%.0f", keyPrefix, gen, q.Point.Longitude, q.Point.Latitude, q.MaxDistanceMeters), nil
}
