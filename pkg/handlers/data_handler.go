package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockcast-api/pkg/models"
	"stockcast-api/pkg/services"
)

// maxUploadSize caps uploaded dataset files at 10MB.
const maxUploadSize = 10 << 20

// DataHandler serves dataset-level endpoints: health, product list,
// history and uploads.
type DataHandler struct {
	store *services.DemandStore
}

// NewDataHandler creates a DataHandler.
func NewDataHandler(store *services.DemandStore) *DataHandler {
	return &DataHandler{store: store}
}

// Health reports whether a dataset is loaded and how many products it has.
func (h *DataHandler) Health(c *gin.Context) {
	productsCount := 0
	if table, err := h.store.Snapshot(); err == nil {
		productsCount = len(table.Products)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"data_loaded":    h.store.Loaded(),
		"products_count": productsCount,
	})
}

// ListProducts returns the products derived from the dataset's columns.
func (h *DataHandler) ListProducts(c *gin.Context) {
	table, err := h.store.Snapshot()
	if err != nil {
		abortWithError(c, err)
		return
	}
	products := make([]models.Product, 0, len(table.Products))
	for _, id := range table.Products {
		products = append(products, models.Product{ProductID: id, Name: id})
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// History returns the positive-demand history for one product, ascending
// by date.
func (h *DataHandler) History(c *gin.Context) {
	productID := c.Query("product_id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}
	table, err := h.store.Snapshot()
	if err != nil {
		abortWithError(c, err)
		return
	}
	series, err := table.PositiveSeries(productID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	history := make([]models.HistoryPoint, 0, len(series))
	for _, p := range series {
		history = append(history, models.HistoryPoint{
			Date:   p.Date.Format("2006-01-02"),
			Demand: p.Quantity,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"history":    history,
	})
}

// Upload accepts a multipart CSV or XLSX file and replaces the demand
// table wholesale.
func (h *DataHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	count, err := h.store.ReplaceFromUpload(data, header.Filename)
	if err != nil {
		abortWithError(c, err)
		return
	}

	log.Printf("Dataset replaced from upload %s (%d products)", header.Filename, count)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "File uploaded and processed successfully",
		"products_count": count,
	})
}
