package services

import "errors"

// Sentinel errors for the forecasting and inventory engine. All are
// recoverable per request; handlers map them to HTTP statuses with
// errors.Is.
var (
	ErrDataNotLoaded       = errors.New("sales data not loaded")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientHistory = errors.New("insufficient historical data (minimum 7 days required)")
	ErrScorerUnavailable   = errors.New("anomaly scorer unavailable")
	ErrMalformedInput      = errors.New("malformed input")
)
