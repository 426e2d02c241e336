package handlers

import (
	"net/http"

	"pixelforge/internal/service"
	"pixelforge/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	healthService service.HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthService service.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// Health handles the health check endpoint
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	logger.DebugWithContext(ctx, "Processing health check")

	result := h.healthService.CheckHealth(ctx)

	statusCode := http.StatusOK
	if result.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, result)
}
