package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stockcast-api/pkg/services"
)

func setupRouter(scorer services.OutlierScorer) (*gin.Engine, *services.DemandStore) {
	gin.SetMode(gin.TestMode)

	store := services.NewDemandStore()
	supplierService := services.NewSupplierService()
	monitoringService := services.NewMonitoringService()

	dataHandler := NewDataHandler(store)
	forecastHandler := NewForecastHandler(services.NewForecastService(store, nil))
	inventoryHandler := NewInventoryHandler(
		services.NewInventoryService(store),
		services.NewOptimizerService(store, supplierService),
	)
	procurementHandler := NewProcurementHandler(services.NewProcurementService(store, supplierService))
	anomalyHandler := NewAnomalyHandler(services.NewAnomalyService(scorer))
	monitoringHandler := NewMonitoringHandler(monitoringService)

	r := gin.New()
	r.Use(monitoringService.LoggingMiddleware())
	api := r.Group("/api")
	{
		api.GET("/health", dataHandler.Health)
		api.GET("/products", dataHandler.ListProducts)
		api.POST("/upload_csv", dataHandler.Upload)
		api.GET("/history", dataHandler.History)
		api.POST("/predict", forecastHandler.Predict)
		api.GET("/dashboard/summary", inventoryHandler.DashboardSummary)
		api.GET("/inventory/optimize", inventoryHandler.Optimize)
		api.GET("/procurement/suggestions", procurementHandler.Suggestions)
		api.POST("/anomalies/detect", anomalyHandler.Detect)
		api.GET("/monitoring/logs", monitoringHandler.GetLogs)
	}
	return r, store
}

func loadTestData(t *testing.T, store *services.DemandStore) {
	t.Helper()
	rows := [][]string{{"Date", "Laptop Pro", "Office Chair"}}
	dates := []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
		"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08",
	}
	values := []string{"10", "12", "11", "13", "12", "14", "13", "15"}
	for i, d := range dates {
		rows = append(rows, []string{d, values[i], "5"})
	}
	_, err := store.ReplaceFromRows(rows)
	assert.NoError(t, err)
}

func performRequest(r *gin.Engine, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r, store := setupRouter(nil)

	w := performRequest(r, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, false, resp["data_loaded"])
	assert.Equal(t, float64(0), resp["products_count"])

	loadTestData(t, store)
	w = performRequest(r, http.MethodGet, "/api/health", nil, "")
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["data_loaded"])
	assert.Equal(t, float64(2), resp["products_count"])
}

func TestProductsEndpoint(t *testing.T) {
	r, store := setupRouter(nil)

	// No dataset yet.
	w := performRequest(r, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	loadTestData(t, store)
	w = performRequest(r, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []struct {
			ProductID string `json:"product_id"`
			Name      string `json:"name"`
		} `json:"products"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 2)
	assert.Equal(t, "Laptop Pro", resp.Products[0].ProductID)
}

func TestUploadEndpoint(t *testing.T) {
	r, store := setupRouter(nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "sales.csv")
	assert.NoError(t, err)
	_, err = fw.Write([]byte("Date,Widget\n2024-01-01,10\n2024-01-02,12\n"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	w := performRequest(r, http.MethodPost, "/api/upload_csv", buf.Bytes(), mw.FormDataContentType())
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(1), resp["products_count"])
	assert.True(t, store.Loaded())
}

func TestUploadEndpointNoFile(t *testing.T) {
	r, _ := setupRouter(nil)

	w := performRequest(r, http.MethodPost, "/api/upload_csv", []byte("{}"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	r, store := setupRouter(nil)
	loadTestData(t, store)

	w := performRequest(r, http.MethodGet, "/api/history", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, "/api/history?product_id=Nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodGet, "/api/history?product_id=Laptop+Pro", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ProductID string `json:"product_id"`
		History   []struct {
			Date   string  `json:"date"`
			Demand float64 `json:"demand"`
		} `json:"history"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Laptop Pro", resp.ProductID)
	assert.Len(t, resp.History, 8)
	assert.Equal(t, "2024-01-01", resp.History[0].Date)
	assert.Equal(t, 10.0, resp.History[0].Demand)
}

func TestPredictEndpoint(t *testing.T) {
	r, store := setupRouter(nil)
	loadTestData(t, store)

	w := performRequest(r, http.MethodPost, "/api/predict", []byte(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/api/predict", []byte(`{"product_id":"Nope"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodPost, "/api/predict", []byte(`{"product_id":"Laptop Pro"}`), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ProductID string `json:"product_id"`
		Method    string `json:"method"`
		Forecasts []struct {
			ForecastDate    string  `json:"forecast_date"`
			PredictedDemand float64 `json:"predicted_demand"`
			ConfidenceLower float64 `json:"confidence_lower"`
			ConfidenceUpper float64 `json:"confidence_upper"`
		} `json:"forecasts"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Laptop Pro", resp.ProductID)
	assert.Equal(t, "statistical", resp.Method)
	assert.Len(t, resp.Forecasts, 30)
	assert.Equal(t, "2024-01-09", resp.Forecasts[0].ForecastDate)
}

func TestPredictEndpointInsufficientHistory(t *testing.T) {
	r, store := setupRouter(nil)
	_, err := store.ReplaceFromRows([][]string{
		{"Date", "Widget"},
		{"2024-01-01", "10"},
		{"2024-01-02", "12"},
	})
	assert.NoError(t, err)

	w := performRequest(r, http.MethodPost, "/api/predict", []byte(`{"product_id":"Widget"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient historical data")
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	r, store := setupRouter(nil)
	loadTestData(t, store)

	w := performRequest(r, http.MethodGet, "/api/dashboard/summary", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalProducts  int     `json:"total_products"`
		AvgUtilization float64 `json:"avg_utilization"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalProducts)
	assert.GreaterOrEqual(t, resp.AvgUtilization, 0.0)
}

func TestOptimizeEndpoint(t *testing.T) {
	r, store := setupRouter(nil)
	loadTestData(t, store)

	w := performRequest(r, http.MethodGet, "/api/inventory/optimize", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results    []map[string]interface{} `json:"results"`
		TotalCount int                      `json:"total_count"`
		Message    string                   `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalCount)
	assert.Len(t, resp.Results, 2)
	assert.Contains(t, resp.Message, "2 products")
}

func TestProcurementEndpoint(t *testing.T) {
	r, store := setupRouter(nil)
	loadTestData(t, store)

	w := performRequest(r, http.MethodGet, "/api/procurement/suggestions", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestions []map[string]interface{} `json:"suggestions"`
		TotalCount  int                      `json:"total_count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, len(resp.Suggestions), resp.TotalCount)
	assert.Equal(t, 4, resp.TotalCount) // 2 products x top-2 suppliers
}

func TestAnomalyEndpointNoScorer(t *testing.T) {
	r, _ := setupRouter(nil)

	body := `{"rows":[{"product_id":"P1","current_demand":1,"current_stock":1,"warehouse_capacity":1,"lead_time_days":1,"price_per_unit":1}]}`
	w := performRequest(r, http.MethodPost, "/api/anomalies/detect", []byte(body), "application/json")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAnomalyEndpointWithScorer(t *testing.T) {
	scorer := services.ScorerFunc(func(features [5]float64) (bool, float64, error) {
		return features[0] > 50, features[0], nil
	})
	r, _ := setupRouter(scorer)

	body := `{"rows":[
		{"product_id":"P1","current_demand":90,"current_stock":50,"warehouse_capacity":100,"lead_time_days":7,"price_per_unit":10},
		{"product_id":"P2","current_demand":10,"current_stock":50,"warehouse_capacity":100,"lead_time_days":7,"price_per_unit":10}
	]}`
	w := performRequest(r, http.MethodPost, "/api/anomalies/detect", []byte(body), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Anomalies  []map[string]interface{} `json:"anomalies"`
		TotalCount int                      `json:"total_count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "P1", resp.Anomalies[0]["product_id"])
	assert.Equal(t, "demand_spike", resp.Anomalies[0]["type"])
}

func TestAnomalyEndpointMissingRows(t *testing.T) {
	r, _ := setupRouter(nil)

	w := performRequest(r, http.MethodPost, "/api/anomalies/detect", []byte(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonitoringLogsEndpoint(t *testing.T) {
	r, _ := setupRouter(nil)

	// Generate some traffic first.
	performRequest(r, http.MethodGet, "/api/health", nil, "")
	performRequest(r, http.MethodGet, "/api/products", nil, "")

	w := performRequest(r, http.MethodGet, "/api/monitoring/logs", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalRequests int            `json:"total_requests"`
		Endpoints     map[string]int `json:"endpoints"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalRequests)
	assert.Equal(t, 1, resp.Endpoints["/api/health"])
	assert.Equal(t, 1, resp.Endpoints["/api/products"])
}
