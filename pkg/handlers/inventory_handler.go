package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockcast-api/pkg/services"
)

// InventoryHandler serves the dashboard summary and EOQ optimization
// endpoints.
type InventoryHandler struct {
	inventory *services.InventoryService
	optimizer *services.OptimizerService
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(inventory *services.InventoryService, optimizer *services.OptimizerService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, optimizer: optimizer}
}

// DashboardSummary returns per-product inventory snapshots with fleet
// statistics.
func (h *InventoryHandler) DashboardSummary(c *gin.Context) {
	summary, err := h.inventory.DashboardSummary()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Optimize runs the EOQ model across all products.
func (h *InventoryHandler) Optimize(c *gin.Context) {
	results, err := h.optimizer.OptimizeAll()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":     results,
		"total_count": len(results),
		"message":     fmt.Sprintf("Inventory optimization completed for %d products", len(results)),
	})
}
