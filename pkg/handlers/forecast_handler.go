package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockcast-api/pkg/services"
)

// ForecastHandler serves the prediction endpoint.
type ForecastHandler struct {
	forecasts *services.ForecastService
}

// NewForecastHandler creates a ForecastHandler.
func NewForecastHandler(forecasts *services.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecasts: forecasts}
}

type predictRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// Predict returns the 30-day forecast for a product.
func (h *ForecastHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	forecast, err := h.forecasts.Forecast(req.ProductID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}
