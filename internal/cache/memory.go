package cache

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryListCache is an in-process ListCache. Values round-trip through JSON
// so callers see the same decoding as with redis.
type MemoryListCache struct {
	mu     sync.Mutex
	values map[string][]byte
	Hits   int
}

func NewMemoryListCache() *MemoryListCache {
	return &MemoryListCache{values: make(map[string][]byte)}
}

func (c *MemoryListCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(data, dest)
}

func (c *MemoryListCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *MemoryListCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}
