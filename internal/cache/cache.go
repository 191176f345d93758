// Package cache keeps rendered view payloads close to the handlers so the
// board and sidebar endpoints do not recompute on every poll. A memory
// level is always on; a redis level can be layered behind it when several
// instances share one backend. Every store mutation invalidates by prefix,
// which keeps reads after writes consistent.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered payloads under string keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, prefix string)
	Close() error
}

type memoryItem struct {
	value      []byte
	expiration time.Time
}

// MemoryCache is the in-process level.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

// NewMemoryCache builds an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiration) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = memoryItem{value: value, expiration: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *MemoryCache) Invalidate(_ context.Context, prefix string) {
	c.mu.Lock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Close() error { return nil }

// RedisCache is the shared level.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) || err != nil {
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, prefix string) {
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}

func (c *RedisCache) Close() error { return c.client.Close() }

// Layered reads through a fast level into a shared one. Redis failures are
// absorbed: a miss there just means recomputing the view.
type Layered struct {
	l1 Cache
	l2 Cache
}

// NewLayered stacks l1 in front of l2. l2 may be nil, leaving a
// single-level cache.
func NewLayered(l1, l2 Cache) *Layered {
	return &Layered{l1: l1, l2: l2}
}

func (c *Layered) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, ok := c.l1.Get(ctx, key); ok {
		return value, true
	}
	if c.l2 == nil {
		return nil, false
	}
	value, ok := c.l2.Get(ctx, key)
	if ok {
		c.l1.Set(ctx, key, value, time.Minute)
	}
	return value, ok
}

func (c *Layered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.l1.Set(ctx, key, value, ttl)
	if c.l2 != nil {
		c.l2.Set(ctx, key, value, ttl)
	}
}

func (c *Layered) Invalidate(ctx context.Context, prefix string) {
	c.l1.Invalidate(ctx, prefix)
	if c.l2 != nil {
		c.l2.Invalidate(ctx, prefix)
	}
}

func (c *Layered) Close() error {
	err := c.l1.Close()
	if c.l2 != nil {
		if err2 := c.l2.Close(); err == nil {
			err = err2
		}
	}
	return err
}
