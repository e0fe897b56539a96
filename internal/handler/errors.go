package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cart"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/catalog"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

// handleError maps service errors to API responses.
func handleError(c *gin.Context, err error) {
	var verrs checkout.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		utils.ErrorWithDetails(c, 422, "VALIDATION_FAILED", "Checkout validation failed", gin.H{"errors": verrs})
	case errors.Is(err, cart.ErrOutOfStock):
		utils.Error(c, 409, "OUT_OF_STOCK", "Requested quantity exceeds available stock")
	case errors.Is(err, cart.ErrVariantRequired):
		utils.Error(c, 400, "VARIANT_REQUIRED", "Select all product options first")
	case errors.Is(err, cart.ErrInvalidQuantity):
		utils.Error(c, 400, "INVALID_QUANTITY", "Quantity must be at least 1")
	case errors.Is(err, cart.ErrLineNotFound):
		utils.Error(c, 404, "LINE_NOT_FOUND", "Cart line not found")
	case errors.Is(err, cart.ErrSnapshotNotSaved):
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Cart not saved")
		utils.Error(c, 503, "CART_NOT_SAVED", "Cart could not be saved, try again")
	case errors.Is(err, catalog.ErrNoMatch):
		utils.Error(c, 404, "OPTION_NOT_FOUND", "No variant carries this option")
	case errors.Is(err, catalog.ErrAmbiguousOption):
		utils.Error(c, 409, "AMBIGUOUS_OPTION", "Option belongs to more than one attribute")
	case errors.Is(err, utils.ErrProductNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrInvalidCoupon):
		utils.Error(c, 400, "INVALID_COUPON", "Coupon code is not valid")
	case errors.Is(err, utils.ErrCouponExpired):
		utils.Error(c, 400, "COUPON_EXPIRED", "Coupon has expired")
	case errors.Is(err, utils.ErrCouponUsageLimit):
		utils.Error(c, 400, "COUPON_USAGE_LIMIT_REACHED", "Coupon usage limit reached")
	case errors.Is(err, utils.ErrMissingIdempotency):
		utils.Error(c, 400, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required")
	case errors.Is(err, utils.ErrDuplicateSubmission):
		utils.Error(c, 409, "DUPLICATE_SUBMISSION", "This order is already being submitted")
	case errors.Is(err, utils.ErrUpstream):
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Upstream request failed")
		utils.ErrorWithDetails(c, 502, "UPSTREAM_ERROR", "Store backend is unavailable, please try again", gin.H{"retryable": true})
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Unhandled error")
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
