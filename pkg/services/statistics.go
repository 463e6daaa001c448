package services

import (
	"math"
	"sort"
)

// calculateMean returns the arithmetic mean, 0 for an empty slice.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateStandardDeviation returns the population standard deviation,
// 0 when fewer than 2 values exist.
func calculateStandardDeviation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := calculateMean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// calculateMax returns the maximum value, 0 for an empty slice.
func calculateMax(values []float64) float64 {
	max := 0.0
	for i, v := range values {
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}

// olsSlope fits an ordinary-least-squares line to values over x = 0..n-1
// and returns its slope. Returns 0 when the fit is degenerate.
func olsSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks. Returns 0 for an empty slice.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// median returns the 50th percentile, 0 for an empty slice.
func median(values []float64) float64 {
	return percentile(values, 50)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
