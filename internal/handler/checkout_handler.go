package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/middleware"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/service"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

// ShippingCatalog lists checkout options.
type ShippingCatalog interface {
	Options(ctx context.Context, subtotal decimal.Decimal) ([]service.ShippingOption, error)
	PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
}

// OrderPlacer submits orders.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, sess service.Session, idempotencyKey string, in service.PlaceOrderInput) (*service.OrderResult, error)
}

// CartReader reads the session cart.
type CartReader interface {
	Get(ctx context.Context, sess service.Session) (*models.Cart, error)
}

// CheckoutHandler handles checkout HTTP endpoints.
type CheckoutHandler struct {
	carts    CartReader
	shipping ShippingCatalog
	orders   OrderPlacer
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(carts CartReader, shipping ShippingCatalog, orders OrderPlacer) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, shipping: shipping, orders: orders}
}

// ShippingMethods handles GET /v1/checkout/shipping-methods
// Each method is priced against the current cart subtotal.
func (h *CheckoutHandler) ShippingMethods(c *gin.Context) {
	ctx := c.Request.Context()
	cart, err := h.carts.Get(ctx, session(c))
	if err != nil {
		handleError(c, err)
		return
	}

	options, err := h.shipping.Options(ctx, cart.Totals.Subtotal)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Shipping methods retrieved successfully", gin.H{
		"subtotal": cart.Totals.Subtotal,
		"methods":  options,
	})
}

// PaymentMethods handles GET /v1/checkout/payment-methods
func (h *CheckoutHandler) PaymentMethods(c *gin.Context) {
	methods, err := h.shipping.PaymentMethods(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Payment methods retrieved successfully", gin.H{"methods": methods})
}

// PlaceOrder handles POST /v1/checkout
// Requires the Idempotency-Key header; a repeated key returns the first
// result instead of creating another order.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req service.PlaceOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	key := c.GetHeader(middleware.HeaderIdempotencyKey)
	result, err := h.orders.PlaceOrder(c.Request.Context(), session(c), key, req)
	if err != nil {
		handleError(c, err)
		return
	}

	code, message := 201, "Order created"
	if result.Replayed {
		code, message = 200, "Order already created"
	}
	utils.Success(c, code, message, result)
}
