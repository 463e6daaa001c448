package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"stockcast-api/pkg/models"
)

// Anomaly types.
const (
	anomalyLowInventory  = "low_inventory"
	anomalyHighInventory = "high_inventory"
	anomalyDemandSpike   = "demand_spike"
	anomalySupplyChain   = "supply_chain_anomaly"
)

// OutlierScorer is the pre-trained anomaly-detection model, treated as an
// opaque scorer: given the five-feature vector it returns whether the row
// is an anomaly plus a continuous score, higher meaning more anomalous.
type OutlierScorer interface {
	Score(features [5]float64) (anomaly bool, score float64, err error)
}

// ScorerFunc adapts a plain function to OutlierScorer.
type ScorerFunc func(features [5]float64) (bool, float64, error)

// Score implements OutlierScorer.
func (f ScorerFunc) Score(features [5]float64) (bool, float64, error) {
	return f(features)
}

// AnomalyService converts the scorer's raw output into typed,
// severity-classified incident records.
type AnomalyService struct {
	scorer OutlierScorer // nil until a model is installed
}

// NewAnomalyService creates an AnomalyService. scorer may be nil, in which
// case Detect fails with ErrScorerUnavailable.
func NewAnomalyService(scorer OutlierScorer) *AnomalyService {
	return &AnomalyService{scorer: scorer}
}

// Detect scores every feature row and returns one record per flagged
// anomaly. Missing feature values are imputed with the column median (0 if
// the median itself is non-positive). Severity percentiles are computed
// over the flagged rows' scores only, never the full table.
func (s *AnomalyService) Detect(rows []models.AnomalyFeatures) ([]models.AnomalyRecord, error) {
	if s.scorer == nil {
		return nil, fmt.Errorf("%w: no model loaded", ErrScorerUnavailable)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no feature rows", ErrMalformedInput)
	}

	imputed := imputeFeatures(rows)

	type flagged struct {
		row      int
		score    float64
		features [5]float64
	}
	anomalies := make([]flagged, 0)
	for i, features := range imputed {
		isAnomaly, score, err := s.scorer.Score(features)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScorerUnavailable, err)
		}
		if isAnomaly {
			anomalies = append(anomalies, flagged{row: i, score: score, features: features})
		}
	}
	if len(anomalies) == 0 {
		return []models.AnomalyRecord{}, nil
	}

	// Severity thresholds come from the anomalous scores alone.
	scores := make([]float64, len(anomalies))
	for i, a := range anomalies {
		scores[i] = a.score
	}
	p5 := percentile(scores, 5)
	p10 := percentile(scores, 10)

	now := time.Now().UTC().Format(time.RFC3339)
	records := make([]models.AnomalyRecord, 0, len(anomalies))
	for _, a := range anomalies {
		severity := "normal"
		threshold := p10
		switch {
		case a.score < p5:
			severity = "critical"
			threshold = p5
		case a.score < p10:
			severity = "warning"
		}

		anomalyType := classifyAnomalyType(a.features)
		records = append(records, models.AnomalyRecord{
			ID:          uuid.New().String(),
			ProductID:   rows[a.row].ProductID,
			Type:        anomalyType,
			Severity:    severity,
			Score:       a.score,
			Threshold:   threshold,
			Description: describeAnomaly(anomalyType, a.features),
			DetectedAt:  now,
			Features: models.AnomalyFeatureSnapshot{
				CurrentDemand:     a.features[0],
				CurrentStock:      a.features[1],
				WarehouseCapacity: a.features[2],
				LeadTimeDays:      a.features[3],
				PricePerUnit:      a.features[4],
			},
		})
	}
	return records, nil
}

// imputeFeatures fills missing values with the column median, 0 when the
// median itself is non-positive.
func imputeFeatures(rows []models.AnomalyFeatures) [][5]float64 {
	columns := [5][]float64{}
	for _, r := range rows {
		for i, v := range featurePointers(r) {
			if v != nil {
				columns[i] = append(columns[i], *v)
			}
		}
	}
	fill := [5]float64{}
	for i, col := range columns {
		if m := median(col); m > 0 {
			fill[i] = m
		}
	}

	out := make([][5]float64, len(rows))
	for j, r := range rows {
		for i, v := range featurePointers(r) {
			if v != nil {
				out[j][i] = *v
			} else {
				out[j][i] = fill[i]
			}
		}
	}
	return out
}

func featurePointers(r models.AnomalyFeatures) [5]*float64 {
	return [5]*float64{r.CurrentDemand, r.CurrentStock, r.WarehouseCapacity, r.LeadTimeDays, r.PricePerUnit}
}

// classifyAnomalyType buckets a flagged row by its stock/capacity ratio,
// then by demand pressure.
func classifyAnomalyType(f [5]float64) string {
	demand, stock, capacity := f[0], f[1], f[2]
	ratio := 0.0
	if capacity > 0 {
		ratio = stock / capacity
	}
	switch {
	case ratio < 0.1:
		return anomalyLowInventory
	case ratio > 0.9:
		return anomalyHighInventory
	case demand > 0.8*capacity:
		return anomalyDemandSpike
	default:
		return anomalySupplyChain
	}
}

func describeAnomaly(anomalyType string, f [5]float64) string {
	demand, stock, capacity := f[0], f[1], f[2]
	switch anomalyType {
	case anomalyLowInventory:
		return fmt.Sprintf("Very low inventory: %.1f units against capacity %.1f", stock, capacity)
	case anomalyHighInventory:
		return fmt.Sprintf("High inventory utilization: %.1f of %.1f capacity", stock, capacity)
	case anomalyDemandSpike:
		return fmt.Sprintf("Unusual demand detected: %.1f units against capacity %.1f", demand, capacity)
	default:
		return "Irregular supply chain pattern detected"
	}
}
