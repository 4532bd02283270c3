package domain

import (
	"context"
	"time"
)

// KeywordSource provides the full keyword table for the index.
// Implementations: embedded seed, HTTP keyword service, Postgres table.
type KeywordSource interface {
	FetchAllKeywords(ctx context.Context) ([]KeywordEntry, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
