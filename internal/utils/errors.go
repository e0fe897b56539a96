package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrCartNotFound        = errors.New("CART_NOT_FOUND")
	ErrOrderNotFound       = errors.New("ORDER_NOT_FOUND")
	ErrInvalidCoupon       = errors.New("INVALID_COUPON")
	ErrCouponExpired       = errors.New("COUPON_EXPIRED")
	ErrCouponUsageLimit    = errors.New("COUPON_USAGE_LIMIT_REACHED")
	ErrShippingMethod      = errors.New("INVALID_SHIPPING_METHOD")
	ErrPaymentMethod       = errors.New("INVALID_PAYMENT_METHOD")
	ErrUpstream            = errors.New("UPSTREAM_ERROR")
	ErrDuplicateSubmission = errors.New("DUPLICATE_SUBMISSION")
	ErrMissingIdempotency  = errors.New("MISSING_IDEMPOTENCY_KEY")
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
)
