package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

// ResponseCache caches rendered list/stats responses in Redis, grouped by a
// resource tag so a mutation on a resource can drop every cached variant of
// its queries in one call.
//
// Keys: cache:<resource>:<query-hash>. Tag sets: cachetag:<resource>.
type ResponseCache struct {
	client *redis.Client
}

// NewResponseCache creates a ResponseCache wrapping the given Redis client.
func NewResponseCache(client *redis.Client) *ResponseCache {
	return &ResponseCache{client: client}
}

// Get returns the cached payload for key, if present.
func (c *ResponseCache) Get(ctx context.Context, resource, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.key(resource, key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return payload, true, nil
}

// Set stores the payload and registers the key under its resource tag.
func (c *ResponseCache) Set(ctx context.Context, resource, key string, payload []byte) error {
	full := c.key(resource, key)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, full, payload, cacheTTL)
	pipe.SAdd(ctx, c.tag(resource), full)
	pipe.Expire(ctx, c.tag(resource), cacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops every cached key registered under the resource tag.
func (c *ResponseCache) Invalidate(ctx context.Context, resource string) error {
	keys, err := c.client.SMembers(ctx, c.tag(resource)).Result()
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.Del(ctx, c.tag(resource))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *ResponseCache) key(resource, key string) string {
	return fmt.Sprintf("cache:%s:%s", resource, key)
}

func (c *ResponseCache) tag(resource string) string {
	return fmt.Sprintf("cachetag:%s", resource)
}
