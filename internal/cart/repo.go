package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luxurystrandhaven/storefront-backend/pkg/cache"
	"github.com/luxurystrandhaven/storefront-backend/pkg/redis"
)

// CartRepository defines the persistence surface required by the cart service.
// Load returns an empty cart when none is stored.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// KV is the slice of the redis client the cart repository needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisRepository stores carts as JSON under the session's cart key.
type RedisRepository struct {
	kv KV
}

// NewRedisRepository builds a repository over the redis client.
func NewRedisRepository(kv KV) *RedisRepository {
	return &RedisRepository{kv: kv}
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := r.kv.Get(ctx, r.kv.CartKey(sessionID))
	if errors.Is(err, redis.Nil) {
		return &Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return decodeCart(sessionID, []byte(raw))
}

func (r *RedisRepository) Save(ctx context.Context, c *Cart, ttl time.Duration) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return r.kv.Set(ctx, r.kv.CartKey(c.SessionID), payload, ttl)
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	return r.kv.Del(ctx, r.kv.CartKey(sessionID))
}

// StoreRepository keeps carts in a cache.Store, used when redis is disabled.
type StoreRepository struct {
	store cache.Store
}

// NewStoreRepository builds a repository over store.
func NewStoreRepository(store cache.Store) *StoreRepository {
	return &StoreRepository{store: store}
}

func (r *StoreRepository) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, ok, err := r.store.Get(ctx, storeKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return &Cart{SessionID: sessionID}, nil
	}
	return decodeCart(sessionID, raw)
}

func (r *StoreRepository) Save(ctx context.Context, c *Cart, ttl time.Duration) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return r.store.Set(ctx, storeKey(c.SessionID), payload, ttl)
}

func (r *StoreRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, storeKey(sessionID))
}

func storeKey(sessionID string) string {
	return cache.Key("cart", sessionID)
}

func decodeCart(sessionID string, raw []byte) (*Cart, error) {
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	c.SessionID = sessionID
	return &c, nil
}
