package config

import (
	"os"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string
	DatasetPath string
	ModelPath   string
	APIKey      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatasetPath: getEnv("DATASET_PATH", "datasets/sales_order.csv"),
		ModelPath:   getEnv("MODEL_PATH", "models/supply_chain_model.pkl"),
		APIKey:      getEnv("API_KEY", ""),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
