package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "catalog:factories"

// Cache serves the factory list through Redis so the presentation
// layer's repeated reads skip re-marshalling the catalog.
type Cache struct {
	client  *redis.Client
	catalog *Catalog
	ttl     time.Duration
}

// NewCache wraps a catalog with a Redis-backed list cache.
func NewCache(client *redis.Client, catalog *Catalog, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{client: client, catalog: catalog, ttl: ttl}
}

// List returns the ordered factory list, via Redis when possible. A
// cache failure falls back to the in-process catalog.
func (c *Cache) List(ctx context.Context) ([]Factory, error) {
	if c.client == nil {
		return c.catalog.List(), nil
	}
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var factories []Factory
		if err := json.Unmarshal(raw, &factories); err == nil {
			return factories, nil
		}
	}
	factories := c.catalog.List()
	if data, err := json.Marshal(factories); err == nil {
		_ = c.client.Set(ctx, cacheKey, data, c.ttl).Err()
	}
	return factories, nil
}

// Invalidate drops the cached list.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey).Err()
}
