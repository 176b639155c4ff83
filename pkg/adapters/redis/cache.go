package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Cache implements ports.Cache on Redis string keys with native expiry.
type Cache struct {
	client *backend.Client
	prefix string
}

// NewCache creates a cache whose keys are namespaced by prefix.
func NewCache(client *backend.Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

// Get returns the cached payload.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	return data, true, nil
}

// Set stores the payload for ttl. A zero ttl keeps it until evicted.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}
