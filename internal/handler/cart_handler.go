package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cart"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/middleware"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/service"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

// CartStore is the cart surface the cart endpoints use.
type CartStore interface {
	Get(ctx context.Context, sess service.Session) (*models.Cart, error)
	AddItem(ctx context.Context, sess service.Session, in service.AddItemInput) (*models.Cart, error)
	ChangeQuantity(ctx context.Context, sess service.Session, key string, delta int) (*models.Cart, error)
	RemoveItem(ctx context.Context, sess service.Session, key string) (*models.Cart, error)
	Clear(ctx context.Context, sess service.Session) (*models.Cart, error)
	ApplyCoupon(ctx context.Context, sess service.Session, code string) (*models.Cart, error)
	ClearCoupon(ctx context.Context, sess service.Session) (*models.Cart, error)
	Reconcile(ctx context.Context, sess service.Session) (*models.Cart, []cart.Adjustment, error)
}

// CartHandler handles cart HTTP endpoints. Routes must run behind
// CartSessionMiddleware.
type CartHandler struct {
	carts CartStore
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(carts CartStore) *CartHandler {
	return &CartHandler{carts: carts}
}

// ChangeQuantityRequest is the body of PATCH /v1/cart/items/:key.
type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

// ApplyCouponRequest is the body of POST /v1/cart/coupon.
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// Get handles GET /v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	result, err := h.carts.Get(c.Request.Context(), session(c))
	h.respond(c, "Cart retrieved successfully", result, err)
}

// AddItem handles POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req service.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	result, err := h.carts.AddItem(c.Request.Context(), session(c), req)
	h.respond(c, "Item added to cart", result, err)
}

// ChangeQuantity handles PATCH /v1/cart/items/:key
func (h *CartHandler) ChangeQuantity(c *gin.Context) {
	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}
	result, err := h.carts.ChangeQuantity(c.Request.Context(), session(c), c.Param("key"), req.Delta)
	h.respond(c, "Quantity updated", result, err)
}

// RemoveItem handles DELETE /v1/cart/items/:key
func (h *CartHandler) RemoveItem(c *gin.Context) {
	result, err := h.carts.RemoveItem(c.Request.Context(), session(c), c.Param("key"))
	h.respond(c, "Item removed from cart", result, err)
}

// Clear handles DELETE /v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	result, err := h.carts.Clear(c.Request.Context(), session(c))
	h.respond(c, "Cart cleared", result, err)
}

// ApplyCoupon handles POST /v1/cart/coupon
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "code is required")
		return
	}
	result, err := h.carts.ApplyCoupon(c.Request.Context(), session(c), req.Code)
	h.respond(c, "Coupon applied", result, err)
}

// ClearCoupon handles DELETE /v1/cart/coupon
func (h *CartHandler) ClearCoupon(c *gin.Context) {
	result, err := h.carts.ClearCoupon(c.Request.Context(), session(c))
	h.respond(c, "Coupon removed", result, err)
}

// Reconcile handles POST /v1/cart/reconcile
func (h *CartHandler) Reconcile(c *gin.Context) {
	result, adjustments, err := h.carts.Reconcile(c.Request.Context(), session(c))
	if err != nil {
		handleError(c, err)
		return
	}
	if adjustments == nil {
		adjustments = []cart.Adjustment{}
	}
	utils.Success(c, 200, "Cart reconciled", gin.H{
		"cart":        result,
		"adjustments": adjustments,
	})
}

func (h *CartHandler) respond(c *gin.Context, message string, result *models.Cart, err error) {
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, message, gin.H{"cart": result})
}

func session(c *gin.Context) service.Session {
	return service.Session{
		Token:      middleware.CartToken(c),
		CustomerID: middleware.CustomerID(c),
	}
}
