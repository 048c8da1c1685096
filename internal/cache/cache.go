// Package cache is a small JSON cache-aside layer on Redis. A nil client is
// valid and turns every lookup into a miss, so callers need no branching
// when caching is disabled.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Cache struct {
	logger zerolog.Logger
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(logger zerolog.Logger, client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		logger: logger,
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get unmarshals the cached value into dest and reports whether it was
// found. Cache failures are logged and reported as misses, never as errors.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().
				Err(err).
				Str("key", key).
				Msg("cache get failed")
		}
		return false
	}

	if err = json.Unmarshal(data, dest); err != nil {
		c.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("cache unmarshal failed")
		return false
	}
	return true
}

// Set stores the value under the configured TTL. Failures are logged only.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("cache marshal failed")
		return
	}

	if err = c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("cache set failed")
	}
}

// Invalidate removes the given keys. Failures are logged only; a stale
// entry expires by TTL anyway.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.prefix + key
	}

	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		c.logger.Warn().
			Err(err).
			Msg("cache invalidate failed")
	}
}
