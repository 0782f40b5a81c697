package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys of the cached lists.
const (
	KeyCategories    = "categories"
	KeyBrandStatuses = "brand_statuses"
)

// ListCache keeps small, rarely written lists that every admin screen reads.
type ListCache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
}

type redisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisListCache creates a cache backed by redis.
func NewRedisListCache(client *redis.Client, ttl time.Duration) ListCache {
	return &redisListCache{client: client, ttl: ttl}
}

func (c *redisListCache) key(name string) string {
	return fmt.Sprintf("admin:list:%s", name)
}

func (c *redisListCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisListCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *redisListCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

type noopListCache struct{}

// NewNoopListCache is used when no redis address is configured.
func NewNoopListCache() ListCache {
	return noopListCache{}
}

func (noopListCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (noopListCache) Set(context.Context, string, interface{}) error         { return nil }
func (noopListCache) Invalidate(context.Context, ...string) error            { return nil }
