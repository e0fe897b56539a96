package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// CartRepository keeps the server-side copy of shopper carts.
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new CartRepository.
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

type cartRow struct {
	Token      string          `db:"token"`
	CustomerID sql.NullInt64   `db:"customer_id"`
	Snapshot   json.RawMessage `db:"snapshot"`
	Version    int64           `db:"version"`
}

// Save upserts the cart of token. An older version never overwrites a newer
// one, so a late write from a stale tab is dropped.
func (r *CartRepository) Save(ctx context.Context, token string, customerID int, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	const q = `
		INSERT INTO carts (token, customer_id, snapshot, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (token) DO UPDATE SET
			customer_id = COALESCE(EXCLUDED.customer_id, carts.customer_id),
			snapshot    = EXCLUDED.snapshot,
			version     = EXCLUDED.version,
			updated_at  = NOW()
		WHERE carts.version <= EXCLUDED.version`
	_, err = r.db.ExecContext(ctx, q, token, nullInt(customerID), string(data), cart.Version)
	return err
}

// Get returns the cart of token, or nil when none is stored.
func (r *CartRepository) Get(ctx context.Context, token string) (*models.Cart, error) {
	const q = `SELECT token, customer_id, snapshot, version FROM carts WHERE token = $1`
	var row cartRow
	if err := r.db.GetContext(ctx, &row, q, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var cart models.Cart
	if err := json.Unmarshal(row.Snapshot, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart %s: %w", token, err)
	}
	cart.Version = row.Version
	return &cart, nil
}

// Delete removes the cart of token.
func (r *CartRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE token = $1`, token)
	return err
}

// DeleteStale removes carts not updated since before and returns how many
// were removed.
func (r *CartRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullInt(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}
