package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

var startTime = time.Now()

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler provides health endpoint.
type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 3 * time.Second}
}

// GetHealth responds with service and dependency status. A failing store
// backend only degrades the service.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	deps := gin.H{}
	status, code := "healthy", 200
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = gin.H{"status": "disconnected", "error": err.Error()}
			if name == "woocommerce" {
				if status == "healthy" {
					status = "degraded"
				}
				continue
			}
			status, code = "unhealthy", 503
			continue
		}
		deps[name] = gin.H{"status": "connected"}
	}

	data := gin.H{
		"status":       status,
		"version":      "1.0.0",
		"uptime":       int(time.Since(startTime).Seconds()),
		"dependencies": deps,
	}
	if code != 200 {
		utils.ErrorWithDetails(c, code, "UNHEALTHY", "Service is unhealthy", data)
		return
	}
	utils.Success(c, 200, "Service is "+status, data)
}
