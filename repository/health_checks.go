package repository

import (
	"context"
	"fmt"
	"time"

	"api-registry/models"

	"github.com/google/uuid"
)

// CreateHealthCheck records a probe result for a registered API
func (r *Repository) CreateHealthCheck(ctx context.Context, result *models.HealthCheckResult) (err error) {
	if err := r.checkDB(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { observe("insert", "api_health_checks", start, err) }()

	if result.CheckID == uuid.Nil {
		result.CheckID = uuid.New()
	}
	if result.Details == nil {
		result.Details = map[string]any{}
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO api_health_checks (check_id, api_id, status, response_time, checked_at, details)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, result.CheckID, result.APIID, result.Status, result.ResponseTime, result.Timestamp, result.Details)

	if err != nil {
		return fmt.Errorf("failed to create health check: %w", err)
	}

	return nil
}

// GetHealthChecks returns the most recent probe results for an API
func (r *Repository) GetHealthChecks(ctx context.Context, apiID uuid.UUID, limit int) (results []models.HealthCheckResult, err error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { observe("list", "api_health_checks", start, err) }()

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT check_id, api_id, status, response_time, checked_at, details
		FROM api_health_checks
		WHERE api_id = $1
		ORDER BY checked_at DESC
		LIMIT $2
	`, apiID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query health checks: %w", err)
	}
	defer rows.Close()

	results = []models.HealthCheckResult{}
	for rows.Next() {
		var hc models.HealthCheckResult
		err := rows.Scan(&hc.CheckID, &hc.APIID, &hc.Status, &hc.ResponseTime, &hc.Timestamp, &hc.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to scan health check: %w", err)
		}
		results = append(results, hc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating health checks: %w", err)
	}

	return results, nil
}
