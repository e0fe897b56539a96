package models

import "github.com/shopspring/decimal"

// DiscountKind enumerates how a coupon value is applied.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed_cart"
)

// Coupon is an applied discount code. A zero value is legal and is used by
// free-shipping-only codes.
type Coupon struct {
	Code  string          `json:"code"`
	Value decimal.Decimal `json:"value"`
	Kind  DiscountKind    `json:"kind"`
}
