package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stockcast-api/pkg/services"
)

// MonitoringHandler exposes the in-memory request log.
type MonitoringHandler struct {
	monitoring *services.MonitoringService
}

// NewMonitoringHandler creates a MonitoringHandler.
func NewMonitoringHandler(monitoring *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoring: monitoring}
}

// GetLogs returns aggregated request statistics for the requested period
// (default 24 hours).
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	periodHours := 24
	if raw := c.Query("period_hours"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			periodHours = v
		}
	}
	c.JSON(http.StatusOK, h.monitoring.Stats(periodHours))
}
