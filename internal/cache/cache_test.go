package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("hit on empty cache")
	}

	c.Set(ctx, "views:board", []byte(`{"columns":{}}`), time.Minute)
	value, ok := c.Get(ctx, "views:board")
	if !ok || !bytes.Equal(value, []byte(`{"columns":{}}`)) {
		t.Fatalf("get = %q, %v", value, ok)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), -time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expired entry still served")
	}
}

func TestMemoryCacheInvalidateByPrefix(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "views:board", []byte("a"), time.Minute)
	c.Set(ctx, "views:history", []byte("b"), time.Minute)
	c.Set(ctx, "other:key", []byte("c"), time.Minute)

	c.Invalidate(ctx, "views:")

	if _, ok := c.Get(ctx, "views:board"); ok {
		t.Fatal("views:board survived invalidation")
	}
	if _, ok := c.Get(ctx, "views:history"); ok {
		t.Fatal("views:history survived invalidation")
	}
	if _, ok := c.Get(ctx, "other:key"); !ok {
		t.Fatal("unrelated key was dropped")
	}
}

func testRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), mr.Addr())
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCacheSetGetInvalidate(t *testing.T) {
	c := testRedisCache(t)
	ctx := context.Background()

	c.Set(ctx, "views:board", []byte("payload"), time.Minute)
	value, ok := c.Get(ctx, "views:board")
	if !ok || !bytes.Equal(value, []byte("payload")) {
		t.Fatalf("get = %q, %v", value, ok)
	}

	c.Set(ctx, "views:history", []byte("h"), time.Minute)
	c.Invalidate(ctx, "views:")

	if _, ok := c.Get(ctx, "views:board"); ok {
		t.Fatal("views:board survived invalidation")
	}
	if _, ok := c.Get(ctx, "views:history"); ok {
		t.Fatal("views:history survived invalidation")
	}
}

func TestLayeredReadThrough(t *testing.T) {
	l1 := NewMemoryCache()
	l2 := testRedisCache(t)
	layered := NewLayered(l1, l2)
	ctx := context.Background()

	// Seed only the shared level, as another instance would have.
	l2.Set(ctx, "views:board", []byte("shared"), time.Minute)

	value, ok := layered.Get(ctx, "views:board")
	if !ok || !bytes.Equal(value, []byte("shared")) {
		t.Fatalf("get = %q, %v", value, ok)
	}

	// The read must have promoted the entry into l1.
	if _, ok := l1.Get(ctx, "views:board"); !ok {
		t.Fatal("entry not promoted to memory level")
	}
}

func TestLayeredInvalidateHitsBothLevels(t *testing.T) {
	l1 := NewMemoryCache()
	l2 := testRedisCache(t)
	layered := NewLayered(l1, l2)
	ctx := context.Background()

	layered.Set(ctx, "views:board", []byte("x"), time.Minute)
	layered.Invalidate(ctx, "views:")

	if _, ok := l1.Get(ctx, "views:board"); ok {
		t.Fatal("memory level survived invalidation")
	}
	if _, ok := l2.Get(ctx, "views:board"); ok {
		t.Fatal("redis level survived invalidation")
	}
}

func TestLayeredWithoutSharedLevel(t *testing.T) {
	layered := NewLayered(NewMemoryCache(), nil)
	ctx := context.Background()

	layered.Set(ctx, "k", []byte("v"), time.Minute)
	if value, ok := layered.Get(ctx, "k"); !ok || !bytes.Equal(value, []byte("v")) {
		t.Fatalf("get = %q, %v", value, ok)
	}
	layered.Invalidate(ctx, "k")
	if _, ok := layered.Get(ctx, "k"); ok {
		t.Fatal("entry survived invalidation")
	}
}
