// Package cache provides an optional Redis backing for the seeder's
// parent-code lookups. Repeated per-unit seed invocations in CI resolve the
// same jurisdiction/program/course codes every run; caching the code→ID
// mapping saves those round trips. The cache is strictly an accelerator:
// a miss or an unreachable Redis never fails a seed run.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client keyed by natural-code lookup strings.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

// New creates a cache client and verifies it with a ping.
func New(ctx context.Context, url string) (*Cache, error) {
	opts, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return &Cache{Client: client, TTL: 24 * time.Hour}, nil
}

// GetID returns a cached row ID for a lookup key, or "" on miss or error.
func (c *Cache) GetID(ctx context.Context, key string) string {
	v, err := c.Client.Get(ctx, "seed:id:"+key).Result()
	if err != nil {
		return ""
	}
	return v
}

// PutID stores a resolved row ID. Errors are discarded; the authoritative
// mapping lives in Postgres.
func (c *Cache) PutID(ctx context.Context, key, id string) {
	_ = c.Client.Set(ctx, "seed:id:"+key, id, c.TTL).Err()
}

// Close shuts down the cache client.
func (c *Cache) Close() error {
	return c.Client.Close()
}
