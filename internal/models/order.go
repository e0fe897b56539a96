package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// MetaData is a key/value pair attached to order entities.
type MetaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// OrderAddress is the backend wire shape of a billing or shipping block.
type OrderAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// OrderLineItem is one transcribed cart line.
type OrderLineItem struct {
	ProductID   int        `json:"product_id"`
	VariationID int        `json:"variation_id,omitempty"`
	Quantity    int        `json:"quantity"`
	Subtotal    string     `json:"subtotal"`
	Total       string     `json:"total"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
}

// ShippingLine describes the chosen shipping method and its computed cost.
type ShippingLine struct {
	MethodID    string     `json:"method_id"`
	MethodTitle string     `json:"method_title"`
	Total       string     `json:"total"`
	MetaData    []MetaData `json:"meta_data,omitempty"`
}

// CouponLine describes an applied code. Discount fields are omitted for
// zero-value coupons.
type CouponLine struct {
	Code        string `json:"code"`
	Discount    string `json:"discount,omitempty"`
	DiscountTax string `json:"discount_tax,omitempty"`
}

// OrderRequest is the outbound order creation payload.
type OrderRequest struct {
	PaymentMethod      string          `json:"payment_method"`
	PaymentMethodTitle string          `json:"payment_method_title"`
	SetPaid            bool            `json:"set_paid"`
	CustomerID         int             `json:"customer_id,omitempty"`
	CustomerNote       string          `json:"customer_note"`
	Billing            OrderAddress    `json:"billing"`
	Shipping           OrderAddress    `json:"shipping"`
	LineItems          []OrderLineItem `json:"line_items"`
	ShippingLines      []ShippingLine  `json:"shipping_lines"`
	CouponLines        []CouponLine    `json:"coupon_lines"`
	MetaData           []MetaData      `json:"meta_data,omitempty"`
}

// OrderTotals summarizes the amounts the assembler computed.
type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// CreatedOrder is the backend response to an order creation.
type CreatedOrder struct {
	ID          int    `json:"orderId"`
	OrderKey    string `json:"orderKey"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// OrderStatus enumerates local order record states.
type OrderStatus string

const (
	OrderStatusSubmitting OrderStatus = "submitting"
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusFailed     OrderStatus = "failed"
)

// OrderRecord is the local record of a submitted order.
type OrderRecord struct {
	ID             int             `db:"id" json:"id"`
	IdempotencyKey string          `db:"idempotency_key" json:"idempotencyKey"`
	CartToken      string          `db:"cart_token" json:"cartToken"`
	CustomerID     *int            `db:"customer_id" json:"customerId,omitempty"`
	RemoteOrderID  *int            `db:"remote_order_id" json:"remoteOrderId,omitempty"`
	OrderKey       *string         `db:"order_key" json:"orderKey,omitempty"`
	Status         OrderStatus     `db:"status" json:"status"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	ShippingTotal  decimal.Decimal `db:"shipping_total" json:"shippingTotal"`
	DiscountTotal  decimal.Decimal `db:"discount_total" json:"discountTotal"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Request        json.RawMessage `db:"request" json:"-"`
	FailedReason   *string         `db:"failed_reason" json:"failedReason,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}
