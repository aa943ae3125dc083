package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisItemCache stores item snapshots as JSON under item:<id>.
type RedisItemCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisItemCache(client *redis.Client, ttl time.Duration) *RedisItemCache {
	return &RedisItemCache{
		client: client,
		ttl:    ttl,
	}
}

func itemKey(id int64) string {
	return fmt.Sprintf("item:%d", id)
}

// GetItem returns nil without error on a cache miss.
func (c *RedisItemCache) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := c.client.Get(ctx, itemKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item from redis: %w", err)
	}

	var item models.Item
	if err := json.Unmarshal([]byte(val), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &item, nil
}

func (c *RedisItemCache) SetItem(ctx context.Context, item *models.Item) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if err := c.client.Set(ctx, itemKey(item.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set item in redis: %w", err)
	}
	return nil
}

func (c *RedisItemCache) DeleteItem(ctx context.Context, id int64) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := c.client.Del(ctx, itemKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete item from redis: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the redis connection if there is one.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
