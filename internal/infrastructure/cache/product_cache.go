package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
)

const productTTL = 5 * time.Minute

// ProductCache cache trang chi tiết sản phẩm; miss trả (nil, nil).
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

func (c *ProductCache) key(id string) string {
	return "product:" + id
}

func (c *ProductCache) Get(ctx context.Context, id string) (*domain.Product, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached product: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode cached product: %w", err)
	}
	return &p, nil
}

func (c *ProductCache) Set(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	return c.client.Set(ctx, c.key(p.ID), raw, productTTL).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
