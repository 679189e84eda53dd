package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

// Store is the byte-level backend behind a Cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Recorder receives hit/miss/error events, keyed by the first segment of
// the cache key.
type Recorder interface {
	CacheHit(name string)
	CacheMiss(name string)
	CacheError(name string)
}

// Options identifies one memoized read.
type Options struct {
	Key string
	TTL time.Duration
}

// Cache memoizes JSON-encodable reads for a fixed TTL. Concurrent misses on
// the same key share a single compute.
type Cache struct {
	store    Store
	logg     *logger.Logger
	recorder Recorder
	group    singleflight.Group
}

// New builds a cache over store. logg and recorder may be nil.
func New(store Store, logg *logger.Logger, recorder Recorder) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	return &Cache{store: store, logg: logg, recorder: recorder}, nil
}

// Query returns the cached value for opts.Key or computes, stores and returns
// it. Backend failures fall through to compute; compute errors are never cached.
func Query[T any](ctx context.Context, c *Cache, opts Options, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	if c == nil || opts.TTL <= 0 || opts.Key == "" {
		return compute(ctx)
	}
	name := metricName(opts.Key)

	if raw, ok, err := c.store.Get(ctx, opts.Key); err != nil {
		c.warn(ctx, opts.Key, "cache.read_failed", err)
		c.recordError(name)
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.recordHit(name)
			return cached, nil
		}
		c.warn(ctx, opts.Key, "cache.decode_failed", err)
		c.recordError(name)
	}

	c.recordMiss(name)
	// The compute is shared by every caller collapsed onto the key, so one
	// caller's cancellation must not fail the others.
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(opts.Key, func() (any, error) {
		value, err := compute(shared)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			c.warn(shared, opts.Key, "cache.encode_failed", err)
			return value, nil
		}
		if err := c.store.Set(shared, opts.Key, encoded, opts.TTL); err != nil {
			c.warn(shared, opts.Key, "cache.write_failed", err)
			c.recordError(name)
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	return c.store.Delete(ctx, keys...)
}

// InvalidatePrefix drops every key starting with prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	return c.store.DeletePrefix(ctx, prefix)
}

// Key joins parts into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

func metricName(key string) string {
	name, _, _ := strings.Cut(key, ":")
	return name
}

func (c *Cache) warn(ctx context.Context, key, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), msg)
}

func (c *Cache) recordHit(name string) {
	if c.recorder != nil {
		c.recorder.CacheHit(name)
	}
}

func (c *Cache) recordMiss(name string) {
	if c.recorder != nil {
		c.recorder.CacheMiss(name)
	}
}

func (c *Cache) recordError(name string) {
	if c.recorder != nil {
		c.recorder.CacheError(name)
	}
}
