package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// SnapshotKeyPrefix is the fixed storage key prefix of cart snapshots.
const SnapshotKeyPrefix = "cart:snapshot:"

// CartSnapshotStore keeps the serialized cart of each session token.
type CartSnapshotStore struct {
	store Store
	ttl   time.Duration
}

// NewCartSnapshotStore creates a new CartSnapshotStore.
func NewCartSnapshotStore(store Store, ttl time.Duration) *CartSnapshotStore {
	return &CartSnapshotStore{store: store, ttl: ttl}
}

func (s *CartSnapshotStore) key(token string) string {
	return SnapshotKeyPrefix + token
}

// Save overwrites the snapshot of token.
func (s *CartSnapshotStore) Save(ctx context.Context, token string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	return s.store.Set(ctx, s.key(token), string(data), s.ttl)
}

// Load returns the snapshot of token, or nil when there is none.
func (s *CartSnapshotStore) Load(ctx context.Context, token string) (*models.Cart, error) {
	raw, err := s.store.Get(ctx, s.key(token))
	if errors.Is(err, ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart snapshot: %w", err)
	}
	return &cart, nil
}

// Delete drops the snapshot of token.
func (s *CartSnapshotStore) Delete(ctx context.Context, token string) error {
	return s.store.Delete(ctx, s.key(token))
}
