package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockcast-api/pkg/services"
)

// ProcurementHandler serves reorder suggestions.
type ProcurementHandler struct {
	procurement *services.ProcurementService
}

// NewProcurementHandler creates a ProcurementHandler.
func NewProcurementHandler(procurement *services.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurement: procurement}
}

// Suggestions returns ranked procurement suggestions for low-stock
// products.
func (h *ProcurementHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.procurement.Suggestions()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"total_count": len(suggestions),
		"message":     fmt.Sprintf("Procurement suggestions generated for %d product-supplier combinations", len(suggestions)),
	})
}
