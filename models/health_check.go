package models

import (
	"time"

	"github.com/google/uuid"
)

// HealthCheckResult records a single probe of a registered API's base URL
type HealthCheckResult struct {
	CheckID      uuid.UUID      `json:"check_id"`
	APIID        uuid.UUID      `json:"api_id"`
	Status       HealthStatus   `json:"status"`
	ResponseTime float64        `json:"response_time"` // milliseconds
	Timestamp    int64          `json:"timestamp"`     // unix seconds
	Details      map[string]any `json:"details"`
}

type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// NewHealthCheckResult creates a result for the given API probe
func NewHealthCheckResult(apiID uuid.UUID, status HealthStatus, responseTime float64, details map[string]any) *HealthCheckResult {
	if details == nil {
		details = map[string]any{}
	}
	return &HealthCheckResult{
		CheckID:      uuid.New(),
		APIID:        apiID,
		Status:       status,
		ResponseTime: responseTime,
		Timestamp:    time.Now().Unix(),
		Details:      details,
	}
}
