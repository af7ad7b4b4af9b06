package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"foodgram/internal/api/models"
)

const (
	tagsKey              = "catalog:tags"
	ingredientsKeyPrefix = "catalog:ingredients:"
)

// CatalogCache is a read-through cache for the static tag/ingredient
// catalog. The catalog is immutable reference data, so a short TTL is
// enough to pick up reseeds without any explicit invalidation.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(addr, password string, ttlSeconds int) (*CatalogCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CatalogCache{
		client: rdb,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// NewNoopCatalogCache returns a cache that never hits, for tests and for
// running without Redis.
func NewNoopCatalogCache() *CatalogCache {
	return &CatalogCache{}
}

func (c *CatalogCache) GetTags(ctx context.Context) ([]models.Tag, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, tagsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var tags []models.Tag
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, false
	}
	return tags, true
}

func (c *CatalogCache) SetTags(ctx context.Context, tags []models.Tag) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return
	}
	// best effort, a miss next time is fine
	_ = c.client.Set(ctx, tagsKey, raw, c.ttl).Err()
}

func (c *CatalogCache) GetIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, ingredientsKeyPrefix+namePrefix).Bytes()
	if err != nil {
		return nil, false
	}
	var ingredients []models.Ingredient
	if err := json.Unmarshal(raw, &ingredients); err != nil {
		return nil, false
	}
	return ingredients, true
}

func (c *CatalogCache) SetIngredients(ctx context.Context, namePrefix string, ingredients []models.Ingredient) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(ingredients)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, ingredientsKeyPrefix+namePrefix, raw, c.ttl).Err()
}
