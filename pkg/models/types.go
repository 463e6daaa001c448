package models

// HistoryPoint is a single day of observed demand for one product,
// serialized for the history endpoint.
type HistoryPoint struct {
	Date   string  `json:"date"`
	Demand float64 `json:"demand"`
}

// Product identifies one demand column of the loaded dataset.
type Product struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

// ForecastPoint is one future day of a demand forecast with confidence bounds.
type ForecastPoint struct {
	ForecastDate    string  `json:"forecast_date"`
	PredictedDemand float64 `json:"predicted_demand"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
}

// Forecast is the full horizon forecast for one product.
type Forecast struct {
	ForecastID string          `json:"forecast_id"`
	ProductID  string          `json:"product_id"`
	Method     string          `json:"method"`
	Forecasts  []ForecastPoint `json:"forecasts"`
}

// Supplier is a static candidate supplier for a product category.
type Supplier struct {
	SupplierID  string  `json:"supplier_id"`
	Name        string  `json:"name"`
	BasePrice   float64 `json:"base_price"`
	LeadTime    int     `json:"lead_time"`
	Reliability float64 `json:"reliability"`
}

// ScoredSupplier carries a supplier with its weighted procurement score.
type ScoredSupplier struct {
	Supplier
	Score float64 `json:"score"`
}

// InventorySnapshot is a synthetic per-product stock estimate derived from
// recent demand. No real stock ledger exists; every figure here is computed,
// never observed.
type InventorySnapshot struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	CurrentStock    float64 `json:"current_stock"`
	Capacity        float64 `json:"capacity"`
	DaysOfStock     float64 `json:"days_of_stock"`
	UtilizationRate float64 `json:"utilization_rate"`
	AvgDailyDemand  float64 `json:"avg_daily_demand"`
}

// DashboardSummary aggregates inventory snapshots across all products.
type DashboardSummary struct {
	Products          []InventorySnapshot `json:"products"`
	TotalProducts     int                 `json:"total_products"`
	LowStockItems     int                 `json:"low_stock_items"`
	UrgentProcurement int                 `json:"urgent_procurement"`
	AvgUtilization    float64             `json:"avg_utilization"`
}

// OptimizationResult is the EOQ optimizer output for one product.
type OptimizationResult struct {
	ProductID         string  `json:"product_id"`
	ProductName       string  `json:"product_name"`
	CurrentStock      float64 `json:"current_stock"`
	OptimalQuantity   float64 `json:"optimal_quantity"`
	TotalCost         float64 `json:"total_cost"`
	SupplierName      string  `json:"supplier_name"`
	DaysOfStock       float64 `json:"days_of_stock"`
	Status            string  `json:"status"`
	Warning           string  `json:"warning,omitempty"`
	ReorderPoint      float64 `json:"reorder_point"`
	SafetyStock       float64 `json:"safety_stock"`
	WarehouseCapacity float64 `json:"warehouse_capacity"`
	AvgDailyDemand    float64 `json:"avg_daily_demand"`
	DemandVariability float64 `json:"demand_variability"`
}

// ProcurementSuggestion is one product-supplier reorder recommendation.
type ProcurementSuggestion struct {
	ProductID           string  `json:"product_id"`
	ProductName         string  `json:"product_name"`
	SupplierID          string  `json:"supplier_id"`
	SupplierName        string  `json:"supplier_name"`
	RecommendedQuantity float64 `json:"recommended_quantity"`
	EstimatedCost       float64 `json:"estimated_cost"`
	ETADays             int     `json:"eta_days"`
	SupplierReliability float64 `json:"supplier_reliability"`
	Priority            string  `json:"priority"`
	PricePerUnit        float64 `json:"price_per_unit"`
}

// AnomalyFeatures is the raw feature vector one anomaly-detection row is
// scored on. Pointer fields distinguish missing values from zeros so the
// classifier can impute column medians.
type AnomalyFeatures struct {
	ProductID         string   `json:"product_id"`
	CurrentDemand     *float64 `json:"current_demand"`
	CurrentStock      *float64 `json:"current_stock"`
	WarehouseCapacity *float64 `json:"warehouse_capacity"`
	LeadTimeDays      *float64 `json:"lead_time_days"`
	PricePerUnit      *float64 `json:"price_per_unit"`
}

// AnomalyFeatureSnapshot is the imputed feature vector attached to a record.
type AnomalyFeatureSnapshot struct {
	CurrentDemand     float64 `json:"current_demand"`
	CurrentStock      float64 `json:"current_stock"`
	WarehouseCapacity float64 `json:"warehouse_capacity"`
	LeadTimeDays      float64 `json:"lead_time_days"`
	PricePerUnit      float64 `json:"price_per_unit"`
}

// AnomalyRecord is one severity-classified incident produced from the
// outlier scorer's output. Records are computed per request and not stored.
type AnomalyRecord struct {
	ID          string                 `json:"id"`
	ProductID   string                 `json:"product_id"`
	Type        string                 `json:"type"`
	Severity    string                 `json:"severity"`
	Score       float64                `json:"score"`
	Threshold   float64                `json:"threshold"`
	Description string                 `json:"description"`
	DetectedAt  string                 `json:"detected_at"`
	Features    AnomalyFeatureSnapshot `json:"features"`
}
