package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/pkg/logger"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by the entity stores
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness probes
type HealthController struct {
	store Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

// Health reports whether the service can reach its store
// @Summary Health check
// @Tags system
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	now := time.Now().UTC()
	if err := c.store.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Health check failed to reach store")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": "down", "time": now})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "store": "up", "time": now})
}
