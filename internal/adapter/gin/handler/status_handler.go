package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"image-classifier-service/internal/usecase/status"
)

// StatusReporter reports job counters and uptime
type StatusReporter interface {
	Snapshot() status.Snapshot
}

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// StatusHandler serves the public status and health endpoints
type StatusHandler struct {
	reporter StatusReporter
	health   HealthChecker
}

// NewStatusHandler creates a new StatusHandler instance. health may be nil.
func NewStatusHandler(reporter StatusReporter, health HealthChecker) *StatusHandler {
	return &StatusHandler{reporter: reporter, health: health}
}

// Status handles GET /status
func (h *StatusHandler) Status(c *gin.Context) {
	s := h.reporter.Snapshot()
	c.JSON(http.StatusOK, StatusResponse{
		Uptime: s.Uptime,
		Processed: ProcessedResponse{
			Success: s.Processed.Success,
			Fail:    s.Processed.Fail,
			Running: s.Processed.Running,
			Queued:  s.Processed.Queued,
		},
		Health:     s.Health,
		APIVersion: s.APIVersion,
	})
}

// Health handles GET /health
func (h *StatusHandler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Healthy(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
