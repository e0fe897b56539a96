package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Idempotency record states.
const (
	IdempotencyPending   = "pending"
	IdempotencyCompleted = "completed"
)

// IdempotencyRecord is what is stored under an idempotency key.
type IdempotencyRecord struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

// IdempotencyStore guards order submission against duplicates.
type IdempotencyStore struct {
	store Store
	ttl   time.Duration
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(store Store, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{store: store, ttl: ttl}
}

func (s *IdempotencyStore) key(k string) string {
	return fmt.Sprintf("idempotency:order:%s", k)
}

// Reserve marks key as in flight. It returns false when the key is already
// reserved or completed.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	data, _ := json.Marshal(IdempotencyRecord{Status: IdempotencyPending})
	return s.store.SetNX(ctx, s.key(key), string(data), s.ttl)
}

// Lookup returns the record of key, or nil when there is none.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (*IdempotencyRecord, error) {
	raw, err := s.store.Get(ctx, s.key(key))
	if errors.Is(err, ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec IdempotencyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency record: %w", err)
	}
	return &rec, nil
}

// Complete stores the result of a finished submission under key.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency result: %w", err)
	}
	rec, err := json.Marshal(IdempotencyRecord{Status: IdempotencyCompleted, Result: data})
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency record: %w", err)
	}
	return s.store.Set(ctx, s.key(key), string(rec), s.ttl)
}

// Release frees key so the shopper can retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.key(key))
}
