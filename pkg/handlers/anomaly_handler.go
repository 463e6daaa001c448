package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockcast-api/pkg/models"
	"stockcast-api/pkg/services"
)

// AnomalyHandler serves the anomaly detection endpoint.
type AnomalyHandler struct {
	anomalies *services.AnomalyService
}

// NewAnomalyHandler creates an AnomalyHandler.
func NewAnomalyHandler(anomalies *services.AnomalyService) *AnomalyHandler {
	return &AnomalyHandler{anomalies: anomalies}
}

type detectRequest struct {
	Rows []models.AnomalyFeatures `json:"rows" binding:"required"`
}

// Detect classifies feature rows into severity-ranked anomaly records.
func (h *AnomalyHandler) Detect(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows is required"})
		return
	}

	records, err := h.anomalies.Detect(req.Rows)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"anomalies":   records,
		"total_count": len(records),
	})
}
