package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pbaille/wellkit/internal/domain"
)

// Cache stores trend reports by key
type Cache interface {
	Get(ctx context.Context, key string) (*domain.TrendReport, bool, error)
	Set(ctx context.Context, key string, report domain.TrendReport) error
}

// NopCache never stores anything
type NopCache struct{}

// Get always misses
func (NopCache) Get(ctx context.Context, key string) (*domain.TrendReport, bool, error) {
	return nil, false, nil
}

// Set discards report
func (NopCache) Set(ctx context.Context, key string, report domain.TrendReport) error {
	return nil
}

// RedisCache keeps trend reports in Redis with a TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache wraps client. ttl <= 0 keeps entries until evicted.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "wellkit:trend:"}
}

// DialRedis connects and pings the server
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// Get returns the cached report for key, or false on a miss
func (c *RedisCache) Get(ctx context.Context, key string) (*domain.TrendReport, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var report domain.TrendReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false, fmt.Errorf("decode cached trend: %w", err)
	}
	return &report, true, nil
}

// Set stores report under key for the cache TTL
func (c *RedisCache) Set(ctx context.Context, key string, report domain.TrendReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode trend: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
