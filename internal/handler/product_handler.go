package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/catalog"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/service"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

// ProductCatalog is the catalog surface the product endpoints use.
type ProductCatalog interface {
	GetProduct(ctx context.Context, slug string) (*service.ProductView, error)
	Resolve(ctx context.Context, slug string, selection models.Selection) (*service.Resolution, error)
	Preselect(ctx context.Context, slug, value string) (models.Selection, *service.Resolution, error)
}

// ProductHandler handles product-related HTTP endpoints.
type ProductHandler struct {
	catalog ProductCatalog
	now     func() time.Time
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalog ProductCatalog) *ProductHandler {
	return &ProductHandler{catalog: catalog, now: time.Now}
}

// ResolveRequest is the body of POST /v1/products/:slug/resolve.
type ResolveRequest struct {
	Selection models.Selection `json:"selection"`
}

// GetProduct handles GET /v1/products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	view, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}

	product := view.Product
	utils.Success(c, 200, "Product retrieved successfully", gin.H{
		"product": product,
		"price":   catalog.Price(product, h.now()),
		"stock":   catalog.AvailableStock(product, nil),
		"stale":   view.Stale,
	})
}

// Resolve handles POST /v1/products/:slug/resolve
func (h *ProductHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	res, err := h.catalog.Resolve(c.Request.Context(), c.Param("slug"), req.Selection)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Selection resolved", res)
}

// Preselect handles GET /v1/products/:slug/preselect?value=
func (h *ProductHandler) Preselect(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		utils.Error(c, 400, "MISSING_FIELD", "value is required")
		return
	}

	selection, res, err := h.catalog.Preselect(c.Request.Context(), c.Param("slug"), value)
	if err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Selection seeded", gin.H{
		"selection":  selection,
		"resolution": res,
	})
}
