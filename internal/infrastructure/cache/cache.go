// Package cache keeps the product list close to the API so the product
// picker does not hit the database on every keystroke.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/pos-billing-api/internal/config"
	"github.com/sangkips/pos-billing-api/internal/domain/entity"
)

const productsKey = "pos:products"

// ProductCache stores the full, name-ordered product list.
type ProductCache interface {
	// GetProducts reports ok=false on a miss.
	GetProducts(ctx context.Context) (products []entity.Product, ok bool, err error)
	SetProducts(ctx context.Context, products []entity.Product) error
	Invalidate(ctx context.Context) error
}

// New returns a Redis-backed cache when an address is configured and a
// no-op cache otherwise.
func New(cfg *config.RedisConfig) (ProductCache, *redis.Client) {
	if cfg.Addr == "" {
		return NoopCache{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisCache(client, cfg.TTL), client
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration) ProductCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) GetProducts(ctx context.Context) ([]entity.Product, bool, error) {
	val, err := c.client.Get(ctx, productsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []entity.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

func (c *redisCache) SetProducts(ctx context.Context, products []entity.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productsKey, data, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, productsKey).Err()
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) GetProducts(ctx context.Context) ([]entity.Product, bool, error) {
	return nil, false, nil
}

func (NoopCache) SetProducts(ctx context.Context, products []entity.Product) error { return nil }

func (NoopCache) Invalidate(ctx context.Context) error { return nil }
