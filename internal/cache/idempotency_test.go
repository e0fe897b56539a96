package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	s := NewIdempotencyStore(newMemoryStore(), 24*time.Hour)

	ok, err := s.Reserve(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok, "second reservation must fail")

	rec, err := s.Lookup(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, IdempotencyPending, rec.Status)

	require.NoError(t, s.Complete(ctx, "abc", map[string]int{"orderId": 77}))
	rec, err = s.Lookup(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, IdempotencyCompleted, rec.Status)

	var result map[string]int
	require.NoError(t, json.Unmarshal(rec.Result, &result))
	assert.Equal(t, 77, result["orderId"])

	require.NoError(t, s.Release(ctx, "abc"))
	rec, err = s.Lookup(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
