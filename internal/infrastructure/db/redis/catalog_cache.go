package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/readquest/library-system/internal/core/domain"
)

const (
	catalogKey = "catalog:approved"
	catalogTTL = time.Minute
)

// CatalogCache is a cache-aside store for the public approved-books list.
// The list is read on every catalog hit and changes only on approve/delete,
// so a short TTL plus explicit invalidation keeps it honest.
type CatalogCache struct {
	client *redis.Client
}

// NewCatalogCache creates a CatalogCache wrapping the given Redis client.
func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// GetApproved returns the cached list and whether it was present.
func (c *CatalogCache) GetApproved(ctx context.Context) ([]*domain.Book, bool, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("catalog cache get: %w", err)
	}

	var books []*domain.Book
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, false, fmt.Errorf("catalog cache decode: %w", err)
	}
	return books, true, nil
}

// SetApproved stores the list with the cache TTL.
func (c *CatalogCache) SetApproved(ctx context.Context, books []*domain.Book) error {
	raw, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}
	return c.client.Set(ctx, catalogKey, raw, catalogTTL).Err()
}

// Invalidate drops the cached list; the next read repopulates it.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
