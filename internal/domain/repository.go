package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SearchClient defines the interface for the upstream food-search endpoint
type SearchClient interface {
	SearchFoods(ctx context.Context, query string, limit int) (*SearchResponse, error)
}

// ProductClient defines the interface for the barcode product database
type ProductClient interface {
	GetProduct(ctx context.Context, barcode string) (*BarcodeProduct, error)
}
