package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMean(t *testing.T) {
	assert.Equal(t, 0.0, calculateMean(nil))
	assert.InDelta(t, 12.142857, calculateMean([]float64{10, 12, 11, 13, 12, 14, 13}), 0.0001)
}

func TestCalculateStandardDeviation(t *testing.T) {
	// Population std, 0 with fewer than 2 values.
	assert.Equal(t, 0.0, calculateStandardDeviation([]float64{5}))
	assert.InDelta(t, 2.0, calculateStandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.0001)
}

func TestOLSSlope(t *testing.T) {
	assert.Equal(t, 0.0, olsSlope([]float64{5}))
	assert.InDelta(t, 2.0, olsSlope([]float64{1, 3, 5, 7}), 0.0001)
	assert.InDelta(t, 0.0, olsSlope([]float64{4, 4, 4, 4}), 0.0001)
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, 0.0, percentile(nil, 50))
	assert.Equal(t, 1.0, percentile(values, 0))
	assert.Equal(t, 10.0, percentile(values, 100))
	assert.InDelta(t, 5.5, percentile(values, 50), 0.0001)
	assert.InDelta(t, 1.45, percentile(values, 5), 0.0001)
	assert.InDelta(t, 1.9, percentile(values, 10), 0.0001)
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 20.0, median([]float64{10, 30}), 0.0001)
	assert.InDelta(t, 30.0, median([]float64{10, 30, 50}), 0.0001)
}
