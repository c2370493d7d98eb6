// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PoojithGuntaka/CivicConnect/models"
)

// DefaultCacheKey is the Redis key holding the cached report.
const DefaultCacheKey = "civicconnect:sentiment:report"

// Cache holds at most one report. Get reports a miss with ok=false and a
// nil error.
type Cache interface {
	Get(ctx context.Context) (report models.SentimentReport, ok bool, err error)
	Set(ctx context.Context, report models.SentimentReport) error
	Clear(ctx context.Context) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu     sync.RWMutex
	report *models.SentimentReport
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context) (models.SentimentReport, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.report == nil {
		return models.SentimentReport{}, false, nil
	}
	return copyReport(*c.report), true, nil
}

func (c *MemoryCache) Set(_ context.Context, report models.SentimentReport) error {
	r := copyReport(report)

	c.mu.Lock()
	c.report = &r
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.report = nil
	c.mu.Unlock()
	return nil
}

func copyReport(r models.SentimentReport) models.SentimentReport {
	r.KeyThemes = append([]string(nil), r.KeyThemes...)
	return r
}

// RedisCache stores the report as JSON under a single key, shared by every
// server instance pointed at the same Redis.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection.
// ttl <= 0 keeps the report until cleared.
func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisCacheWithClient(client, ttl), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{
		client: client,
		key:    DefaultCacheKey,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context) (models.SentimentReport, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.SentimentReport{}, false, nil
	}
	if err != nil {
		return models.SentimentReport{}, false, fmt.Errorf("get sentiment report: %w", err)
	}

	var report models.SentimentReport
	if err := json.Unmarshal(data, &report); err != nil {
		return models.SentimentReport{}, false, fmt.Errorf("unmarshal sentiment report: %w", err)
	}
	return report, true, nil
}

func (c *RedisCache) Set(ctx context.Context, report models.SentimentReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal sentiment report: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("save sentiment report: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("clear sentiment report: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
