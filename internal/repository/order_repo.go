package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// OrderRepository stores the local record of every submitted order.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, idempotency_key, cart_token, customer_id, remote_order_id, order_key, status,
	subtotal, shipping_total, discount_total, total, request, failed_reason, created_at, updated_at`

// Create inserts rec in submitting state and fills its id and timestamps.
func (r *OrderRepository) Create(ctx context.Context, rec *models.OrderRecord) error {
	const q = `
		INSERT INTO orders (
			idempotency_key, cart_token, customer_id, status,
			subtotal, shipping_total, discount_total, total, request, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		) RETURNING id, created_at, updated_at`
	stmt, err := r.db.PreparexContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()
	return stmt.QueryRowxContext(ctx,
		rec.IdempotencyKey,
		rec.CartToken,
		rec.CustomerID,
		rec.Status,
		rec.Subtotal,
		rec.ShippingTotal,
		rec.DiscountTotal,
		rec.Total,
		string(rec.Request),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

// MarkCreated records the backend order id and key of a submitted order.
func (r *OrderRepository) MarkCreated(ctx context.Context, id int, remoteID int, orderKey string) error {
	const q = `
		UPDATE orders SET status = $2, remote_order_id = $3, order_key = $4, failed_reason = NULL, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, models.OrderStatusCreated, remoteID, orderKey)
	return err
}

// MarkFailed records why a submission failed.
func (r *OrderRepository) MarkFailed(ctx context.Context, id int, reason string) error {
	const q = `UPDATE orders SET status = $2, failed_reason = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, models.OrderStatusFailed, reason)
	return err
}

// Reopen moves a failed record back to submitting for a manual retry with
// the same idempotency key.
func (r *OrderRepository) Reopen(ctx context.Context, rec *models.OrderRecord) error {
	const q = `
		UPDATE orders SET status = $2, failed_reason = NULL, subtotal = $3, shipping_total = $4,
			discount_total = $5, total = $6, request = $7, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, rec.ID, models.OrderStatusSubmitting,
		rec.Subtotal, rec.ShippingTotal, rec.DiscountTotal, rec.Total, string(rec.Request))
	return err
}

// GetByIdempotencyKey returns the record submitted under key, or nil.
func (r *OrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.OrderRecord, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE idempotency_key = $1`
	var rec models.OrderRecord
	if err := r.db.GetContext(ctx, &rec, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListRecent returns the newest orders first.
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]models.OrderRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
	var recs []models.OrderRecord
	if err := r.db.SelectContext(ctx, &recs, q, limit); err != nil {
		return nil, err
	}
	return recs, nil
}
