package services

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/google/uuid"

	"stockcast-api/pkg/models"
)

// ForecastHorizon is the number of future days every forecast covers.
const ForecastHorizon = 30

// minHistoryDays is the minimum number of non-zero observations a product
// needs before a forecast is attempted.
const minHistoryDays = 7

// Predictor is an optional primary forecasting model. Forecast attempts it
// first and falls back to the statistical method on any error, so a
// Predictor implementation may fail freely without affecting callers.
type Predictor interface {
	Predict(productID string, history []float64, horizon int) ([]float64, error)
}

// ModelPredictor loads a serialized model artifact from disk. Model
// integration is pending: the artifact format is not wired up yet, so
// Predict always errors and the statistical fallback takes over.
type ModelPredictor struct {
	path string
}

// NewModelPredictor creates a predictor backed by a model file path.
func NewModelPredictor(path string) *ModelPredictor {
	return &ModelPredictor{path: path}
}

// Predict fails until real model loading is integrated.
func (p *ModelPredictor) Predict(string, []float64, int) ([]float64, error) {
	if _, err := os.Stat(p.path); err != nil {
		return nil, fmt.Errorf("model file not found: %s", p.path)
	}
	return nil, fmt.Errorf("model integration pending for %s", p.path)
}

// ForecastService produces per-product demand forecasts from the demand
// store, trying the primary predictor first and always falling back to the
// moving-average + trend + weekly-cycle method.
type ForecastService struct {
	store   *DemandStore
	primary Predictor // may be nil
}

// NewForecastService creates a ForecastService. primary may be nil to run
// the statistical method only.
func NewForecastService(store *DemandStore, primary Predictor) *ForecastService {
	return &ForecastService{store: store, primary: primary}
}

// Forecast returns a 30-day forecast for the product. Zero-demand days are
// excluded from the history first; fewer than 7 remaining observations is
// ErrInsufficientHistory.
func (s *ForecastService) Forecast(productID string) (*models.Forecast, error) {
	table, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	series, err := table.PositiveSeries(productID)
	if err != nil {
		return nil, err
	}
	if len(series) < minHistoryDays {
		return nil, ErrInsufficientHistory
	}

	history := make([]float64, len(series))
	for i, p := range series {
		history[i] = p.Quantity
	}

	method := "statistical"
	var predictions []float64
	if s.primary != nil {
		// Primary predictor failures never propagate; the statistical
		// method is the contract.
		if p, err := s.tryPrimary(productID, history); err != nil {
			log.Printf("primary predictor failed for %s: %v, using statistical method", productID, err)
		} else {
			predictions = p
			method = "model"
		}
	}
	if predictions == nil {
		predictions = statisticalForecast(history, ForecastHorizon)
	}

	lastDate := series[len(series)-1].Date
	points := make([]models.ForecastPoint, ForecastHorizon)
	for i := 1; i <= ForecastHorizon; i++ {
		pred := predictions[i-1]
		// Confidence half-width widens with the step, floored at 10%,
		// reaching 35% at day 30.
		uncertainty := math.Max(0.1, 0.05+0.01*float64(i))
		lower := math.Max(0, pred*(1-uncertainty))
		upper := pred * (1 + uncertainty)
		points[i-1] = models.ForecastPoint{
			ForecastDate:    lastDate.AddDate(0, 0, i).Format("2006-01-02"),
			PredictedDemand: round2(pred),
			ConfidenceLower: round2(lower),
			ConfidenceUpper: round2(upper),
		}
	}

	return &models.Forecast{
		ForecastID: uuid.New().String(),
		ProductID:  productID,
		Method:     method,
		Forecasts:  points,
	}, nil
}

func (s *ForecastService) tryPrimary(productID string, history []float64) ([]float64, error) {
	predictions, err := s.primary.Predict(productID, history, ForecastHorizon)
	if err != nil {
		return nil, err
	}
	if len(predictions) != ForecastHorizon {
		return nil, fmt.Errorf("primary predictor returned %d values, want %d", len(predictions), ForecastHorizon)
	}
	return predictions, nil
}

// statisticalForecast is the fallback forecaster: trailing-30 moving
// average plus an OLS trend, with a fixed weekly multiplier cycle.
//
// The weekly cycle is anchored to the forecast step, not the calendar
// weekday: step 1 is always treated as a "weekday" regardless of which day
// the history ends on. Known approximation.
func statisticalForecast(history []float64, days int) []float64 {
	window := len(history)
	if window > 30 {
		window = 30
	}
	recent := history[len(history)-window:]

	ma := calculateMean(recent)
	trend := 0.0
	if len(recent) > 7 {
		trend = olsSlope(recent)
	}

	predictions := make([]float64, 0, days)
	for i := 1; i <= days; i++ {
		pred := ma + trend*float64(i)

		if (i-1)%7 < 5 {
			pred *= 1.05 // weekday bump
		} else {
			pred *= 0.95 // weekend dip
		}

		predictions = append(predictions, math.Max(0, pred))
	}
	return predictions
}
