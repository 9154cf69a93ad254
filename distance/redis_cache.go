package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/coursefinder/core"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache shared between processes through Redis.
// Values are stored as JSON objects of college name to miles or null.
type RedisCache struct {
	client   *redis.Client
	settings cacheSettings
	owned    bool
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to the Redis server at url and verifies it responds.
func NewRedisCache(url string, opts ...CacheOption) (*RedisCache, error) {
	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(parsed)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	cache := NewRedisCacheFromClient(client, opts...)
	cache.owned = true
	return cache, nil
}

// NewRedisCacheFromClient wraps an existing client. Close leaves the client open.
func NewRedisCacheFromClient(client *redis.Client, opts ...CacheOption) *RedisCache {
	settings := defaultCacheSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	return &RedisCache{client: client, settings: settings}
}

func (c *RedisCache) Get(ctx context.Context, key string) (core.CollegeDistances, bool, error) {
	raw, err := c.client.Get(ctx, c.settings.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var distances core.CollegeDistances
	if err := json.Unmarshal(raw, &distances); err != nil {
		return nil, false, fmt.Errorf("decode cached distances: %w", err)
	}
	return distances, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, distances core.CollegeDistances) error {
	raw, err := json.Marshal(distances)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.settings.keyPrefix+key, raw, c.settings.ttl).Err()
}

// Close closes the client if this cache opened it.
func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}
