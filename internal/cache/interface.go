package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

// Key prefixes. Writes invalidate the specific product key plus the list
// keys; category/brand mutations invalidate the corresponding list key.
const (
	ProductKeyPrefix = "product"
	ProductListKey   = "products:list"
	CategoryListKey  = "categories:list"
	BrandListKey     = "brands:list"
)
