// Package cache holds the read-through product cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"

	"github.com/redis/go-redis/v9"
)

const productKeyPrefix = "product:"

// ProductCache stores single products by ID. A miss is reported as
// (nil, false, nil); only transport failures return an error.
type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, bool, error)
	Set(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// RedisProductCache keeps JSON-encoded products in Redis with a TTL.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache creates a cache over client.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

func productKey(id string) string { return productKeyPrefix + id }

func (c *RedisProductCache) Get(ctx context.Context, id string) (*models.Product, bool, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read product %s from cache: %w", id, err)
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		// a stale or foreign entry is treated as a miss
		return nil, false, nil
	}
	return &product, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, product *models.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product %s: %w", product.ID, err)
	}
	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write product %s to cache: %w", product.ID, err)
	}
	return nil
}

func (c *RedisProductCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to evict product %s from cache: %w", id, err)
	}
	return nil
}

// NewRedisClient dials addr and verifies the connection with a PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

// Nop is a ProductCache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.Product, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, *models.Product) error                 { return nil }
func (Nop) Delete(context.Context, string) error                       { return nil }
