package handler

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/sse"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

// OrderLister lists submitted orders.
type OrderLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.OrderRecord, error)
}

// AdminHandler serves the admin order feed.
type AdminHandler struct {
	hub       *sse.Hub
	orders    OrderLister
	keepAlive time.Duration
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(hub *sse.Hub, orders OrderLister) *AdminHandler {
	return &AdminHandler{hub: hub, orders: orders, keepAlive: 30 * time.Second}
}

// Stream handles GET /v1/admin/orders/stream?token=<jwt>
// EventSource API cannot set custom headers, so JWT is passed via query param.
func (h *AdminHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Missing token query parameter")
		return
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if claims.Role != utils.RoleAdmin {
		utils.Error(c, 403, "FORBIDDEN", "Admin role required")
		return
	}

	clientID := fmt.Sprintf("admin-%d-%d", claims.UserID, time.Now().UnixNano())

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID)
	defer h.hub.Unregister(clientID)

	// Send initial connected event
	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"message":   "SSE connection established",
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Int("user_id", claims.UserID).Msg("Admin SSE stream started")

	// Stream events
	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent("order", string(data))
			return true
		case <-time.After(h.keepAlive):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// ListOrders handles GET /v1/admin/orders?limit=
func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	orders, err := h.orders.ListRecent(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list orders")
		return
	}
	if orders == nil {
		orders = []models.OrderRecord{}
	}
	utils.Success(c, 200, "Orders retrieved successfully", gin.H{
		"orders":    orders,
		"listeners": h.hub.ClientCount(),
	})
}
