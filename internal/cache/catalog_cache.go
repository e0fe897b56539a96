package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// catalogEntry wraps cached upstream JSON with its freshness deadline. The
// Redis TTL covers the stale window on top of it.
type catalogEntry struct {
	Data       json.RawMessage `json:"data"`
	FreshUntil time.Time       `json:"freshUntil"`
	CachedAt   time.Time       `json:"cachedAt"`
}

// CatalogCache is a key -> JSON store for upstream catalog data. Entries
// past their TTL are refreshed from the loader; when the loader fails the
// stale entry is served for up to staleTTL.
type CatalogCache struct {
	store    Store
	staleTTL time.Duration
	now      func() time.Time
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(store Store, staleTTL time.Duration) *CatalogCache {
	return &CatalogCache{
		store:    store,
		staleTTL: staleTTL,
		now:      time.Now,
	}
}

// ProductSlugKey is the cache key of static product data.
func ProductSlugKey(slug string) string {
	return fmt.Sprintf("catalog:product:slug:%s", slug)
}

// ProductIDKey is the cache key of static product data looked up by id.
func ProductIDKey(id int) string {
	return fmt.Sprintf("catalog:product:id:%d", id)
}

// ProductDynamicKey is the cache key of the stock and price data of a
// product and its variations.
func ProductDynamicKey(productID int) string {
	return fmt.Sprintf("catalog:product:%d:dynamic", productID)
}

// Shipping and payment listings are shared by all shoppers.
const (
	ShippingZonesKey   = "catalog:shipping:zones"
	PaymentGatewaysKey = "catalog:payment:gateways"
)

// Fetch returns the cached value of key, loading and storing it when the
// entry is missing or older than ttl. stale is true when a failed load was
// answered from an expired entry.
func Fetch[T any](ctx context.Context, c *CatalogCache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (value T, stale bool, err error) {
	entry, cacheErr := c.read(ctx, key)
	if cacheErr == nil && c.now().Before(entry.FreshUntil) {
		if err := json.Unmarshal(entry.Data, &value); err == nil {
			return value, false, nil
		}
	}

	loaded, loadErr := load(ctx)
	if loadErr != nil {
		if cacheErr == nil && json.Unmarshal(entry.Data, &value) == nil {
			log.Warn().Err(loadErr).Str("key", key).Time("cached_at", entry.CachedAt).Msg("Serving stale catalog entry")
			return value, true, nil
		}
		return value, false, loadErr
	}

	if err := c.write(ctx, key, loaded, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to store catalog entry")
	}
	return loaded, false, nil
}

// Put stores value under key as a fresh entry.
func (c *CatalogCache) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.write(ctx, key, value, ttl)
}

// Invalidate drops cached keys.
func (c *CatalogCache) Invalidate(ctx context.Context, keys ...string) error {
	return c.store.Delete(ctx, keys...)
}

func (c *CatalogCache) read(ctx context.Context, key string) (*catalogEntry, error) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Catalog cache read failed")
		}
		return nil, err
	}
	var entry catalogEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog entry: %w", err)
	}
	return &entry, nil
}

func (c *CatalogCache) write(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog entry: %w", err)
	}
	now := c.now()
	entry, err := json.Marshal(catalogEntry{Data: data, FreshUntil: now.Add(ttl), CachedAt: now})
	if err != nil {
		return fmt.Errorf("failed to marshal catalog entry: %w", err)
	}
	return c.store.Set(ctx, key, string(entry), ttl+c.staleTTL)
}
