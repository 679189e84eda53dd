package cache

import (
	"context"
	"errors"
	"time"

	"github.com/luxurystrandhaven/storefront-backend/pkg/redis"
)

// KV is the slice of the redis client the cache needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DelPrefix(ctx context.Context, prefix string) (int, error)
	CacheKey(parts ...string) string
}

// RedisStore namespaces cache keys under the redis client's cache prefix.
type RedisStore struct {
	kv KV
}

func NewRedisStore(kv KV) *RedisStore {
	return &RedisStore{kv: kv}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.kv.Get(ctx, s.kv.CacheKey(key))
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(val), true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.kv.Set(ctx, s.kv.CacheKey(key), value, ttl)
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		full = append(full, s.kv.CacheKey(key))
	}
	return s.kv.Del(ctx, full...)
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return s.kv.DelPrefix(ctx, s.kv.CacheKey(prefix))
}
