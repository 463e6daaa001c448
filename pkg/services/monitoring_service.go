package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLog is a single recorded API request.
type RequestLog struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time_ms"`
}

// MonitoringService keeps an in-memory log of handled requests.
type MonitoringService struct {
	logs []RequestLog
	mu   sync.RWMutex
}

// NewMonitoringService creates an empty MonitoringService.
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{logs: make([]RequestLog, 0)}
}

// LogRequest appends one request record.
func (s *MonitoringService) LogRequest(entry RequestLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

// LoggingMiddleware records every request except the monitoring endpoints
// themselves.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/monitoring") {
			return
		}

		s.LogRequest(RequestLog{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// MonitoringStats is the aggregated view served by the monitoring endpoint.
type MonitoringStats struct {
	TotalRequests int              `json:"total_requests"`
	Endpoints     map[string]int   `json:"endpoints"`
	StatusCodes   map[string]int   `json:"status_codes"`
	AvgResponseMs map[string]int64 `json:"avg_response_ms"`
	RecentErrors  []RequestLog     `json:"recent_errors"`
}

// Stats aggregates requests from the last periodHours hours.
func (s *MonitoringService) Stats(periodHours int) MonitoringStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().Add(-time.Duration(periodHours) * time.Hour)
	filtered := make([]RequestLog, 0, len(s.logs))
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			filtered = append(filtered, entry)
		}
	}

	endpoints := make(map[string]int)
	statusCodes := map[string]int{
		"2xx Success":      0,
		"4xx Client Error": 0,
		"5xx Server Error": 0,
	}
	responseSum := make(map[string]time.Duration)
	responseCount := make(map[string]int)
	for _, entry := range filtered {
		endpoints[entry.Path]++
		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusCodes["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			statusCodes["4xx Client Error"]++
		case entry.StatusCode >= 500:
			statusCodes["5xx Server Error"]++
		}
		responseSum[entry.Path] += entry.ResponseTime
		responseCount[entry.Path]++
	}

	avgResponse := make(map[string]int64, len(responseSum))
	for path, total := range responseSum {
		avgResponse[path] = total.Milliseconds() / int64(responseCount[path])
	}

	recentErrors := make([]RequestLog, 0)
	for i := len(filtered) - 1; i >= 0 && len(recentErrors) < 10; i-- {
		if filtered[i].StatusCode >= 500 {
			recentErrors = append(recentErrors, filtered[i])
		}
	}

	return MonitoringStats{
		TotalRequests: len(filtered),
		Endpoints:     endpoints,
		StatusCodes:   statusCodes,
		AvgResponseMs: avgResponse,
		RecentErrors:  recentErrors,
	}
}
