package main

import (
	"log"
	"net/http"
	"os"

	config "stockcast-api/configs"
	"stockcast-api/pkg/handlers"
	"stockcast-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()

	r := gin.Default()

	// Services
	monitoringService := services.NewMonitoringService()
	demandStore := services.NewDemandStore()
	forecastService := services.NewForecastService(demandStore, services.NewModelPredictor(cfg.ModelPath))
	inventoryService := services.NewInventoryService(demandStore)
	supplierService := services.NewSupplierService()
	optimizerService := services.NewOptimizerService(demandStore, supplierService)
	procurementService := services.NewProcurementService(demandStore, supplierService)
	// No scorer is installed until a trained model is wired in; detection
	// reports the scorer as unavailable.
	anomalyService := services.NewAnomalyService(nil)

	// Load the default dataset if present. A missing or broken file is a
	// warning only: the upload endpoint can supply data later.
	if _, err := os.Stat(cfg.DatasetPath); err == nil {
		if count, err := demandStore.LoadFile(cfg.DatasetPath); err != nil {
			log.Printf("Warning: failed to load default dataset %s: %v", cfg.DatasetPath, err)
		} else {
			log.Printf("Default dataset loaded from %s (%d products)", cfg.DatasetPath, count)
		}
	} else {
		log.Printf("Default dataset not found at %s", cfg.DatasetPath)
	}

	// Handlers
	dataHandler := handlers.NewDataHandler(demandStore)
	forecastHandler := handlers.NewForecastHandler(forecastService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, optimizerService)
	procurementHandler := handlers.NewProcurementHandler(procurementService)
	anomalyHandler := handlers.NewAnomalyHandler(anomalyService)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// Middleware
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	api := r.Group("/api")
	api.Use(authMiddleware(cfg.APIKey))
	{
		api.GET("/health", dataHandler.Health)
		api.GET("/products", dataHandler.ListProducts)
		api.POST("/upload_csv", dataHandler.Upload)
		api.GET("/history", dataHandler.History)
		api.POST("/predict", forecastHandler.Predict)

		api.GET("/dashboard/summary", inventoryHandler.DashboardSummary)
		api.GET("/inventory/optimize", inventoryHandler.Optimize)
		api.POST("/inventory/optimize", inventoryHandler.Optimize)
		api.GET("/procurement/suggestions", procurementHandler.Suggestions)

		api.POST("/anomalies/detect", anomalyHandler.Detect)

		monitoring := api.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	log.Printf("Starting StockCast API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
