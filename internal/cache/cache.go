package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"folio/internal/middleware"
	"folio/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	statsKeyPrefix   = "stats:user:%d"
	profileKeyPrefix = "profile:user:%d"
)

const (
	StatsTTL   = time.Minute
	ProfileTTL = 5 * time.Minute
)

// StatsKey is the cache key of an owner's dashboard stats.
func StatsKey(userID uint) string {
	return fmt.Sprintf(statsKeyPrefix, userID)
}

// ProfileKey is the cache key of an owner's public profile page.
func ProfileKey(userID uint) string {
	return fmt.Sprintf(profileKeyPrefix, userID)
}

// OwnerKeys lists every cached view derived from an owner's content.
func OwnerKeys(userID uint) []string {
	return []string{StatsKey(userID), ProfileKey(userID)}
}

// Cache is a JSON cache over Redis. A Cache built with a nil client is a no-op:
// every lookup misses and every write is dropped.
type Cache struct {
	client *redis.Client
}

// New wraps client, which may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether a Redis client backs the cache.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads key into dest. The bool is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key for ttl.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// Invalidate deletes keys. Failures are logged only.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

// Aside returns the cached value under key, or calls load, caches its result for ttl and returns it.
// Cache read and write failures degrade to calling load; load errors are returned unchanged.
func Aside[T any](ctx context.Context, c *Cache, name, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.GetJSON(ctx, key, &cached)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	if hit {
		observability.CacheLookups.WithLabelValues(name, "hit").Inc()
		return cached, nil
	}
	observability.CacheLookups.WithLabelValues(name, "miss").Inc()

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.SetJSON(ctx, key, value, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return value, nil
}
