package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"api-registry/config"
	"api-registry/models"
	"api-registry/observability"

	"github.com/google/uuid"
)

// maxProbeBodyBytes caps how much of a probe response body is drained
// when measuring response size.
const maxProbeBodyBytes = 1 << 20

// ProberStore is the subset of repository operations the prober needs
type ProberStore interface {
	ListAPIs(ctx context.Context) ([]models.API, error)
	CreateHealthCheck(ctx context.Context, result *models.HealthCheckResult) error
}

// Prober periodically probes the base URL of every registered API and
// records the outcome as a health check result. Probes to a single target
// go through a per-target circuit breaker so one dead upstream cannot
// slow the sweep down.
type Prober struct {
	store    ProberStore
	cfg      config.ProbeConfig
	client   *http.Client
	breakers *CircuitBreakerRegistry
	retry    RetryConfig

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewProber creates a Prober for the given store and configuration
func NewProber(store ProberStore, cfg config.ProbeConfig) *Prober {
	retry := DefaultRetryConfig
	retry.MaxRetries = cfg.MaxRetries

	return &Prober{
		store: store,
		cfg:   cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		breakers: NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig),
		retry:    retry,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the probe loop in a background goroutine
func (p *Prober) Start(ctx context.Context) {
	interval := time.Duration(p.cfg.IntervalSeconds) * time.Second

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		observability.Info("health check prober started",
			"interval_seconds", p.cfg.IntervalSeconds,
			"max_concurrent", p.cfg.MaxConcurrent)

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				if err := p.RunOnce(ctx); err != nil {
					observability.Error("probe sweep failed", "error", err)
				}
			}
		}
	}()
}

// Stop terminates the probe loop and waits for it to exit
func (p *Prober) Stop() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}

// RunOnce probes every registered API with a base URL and records the results
func (p *Prober) RunOnce(ctx context.Context) error {
	apis, err := p.store.ListAPIs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list apis for probing: %w", err)
	}

	observability.GetMetrics().SetRegisteredAPIs(len(apis))

	sem := make(chan struct{}, p.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for i := range apis {
		api := apis[i]
		if api.BaseURL == "" {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			result := p.Probe(ctx, &api)
			if err := p.store.CreateHealthCheck(ctx, result); err != nil {
				observability.WithAPI(api.ID.String()).Error("failed to record health check", "error", err)
			}
		}()
	}

	wg.Wait()
	return nil
}

// Probe performs a single health check against an API's base URL.
// It never returns an error: failures are encoded in the result status.
func (p *Prober) Probe(ctx context.Context, api *models.API) *models.HealthCheckResult {
	start := time.Now()

	statusCode, responseSize, err := p.fetch(ctx, api.ID, api.BaseURL)

	elapsed := time.Since(start)
	responseTime := float64(elapsed.Microseconds()) / 1000.0

	var status models.HealthStatus
	details := map[string]any{
		"endpoint": api.BaseURL,
	}

	switch {
	case err != nil:
		status = models.HealthStatusDown
		details["error"] = err.Error()
	case statusCode >= 200 && statusCode < 400:
		status = models.HealthStatusHealthy
		details["status_code"] = statusCode
		details["response_size"] = responseSize
	default:
		status = models.HealthStatusDegraded
		details["status_code"] = statusCode
		details["response_size"] = responseSize
	}

	observability.GetMetrics().RecordProbe(string(status), elapsed)

	return models.NewHealthCheckResult(api.ID, status, responseTime, details)
}

// fetch performs the HTTP GET through the target's circuit breaker with retry
func (p *Prober) fetch(ctx context.Context, apiID uuid.UUID, baseURL string) (int, int64, error) {
	type probeResponse struct {
		statusCode   int
		responseSize int64
	}

	result, err := p.breakers.Execute(ctx, apiID.String(), func() (any, error) {
		var resp probeResponse

		err := WithRetry(ctx, p.retry, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
			if err != nil {
				return fmt.Errorf("failed to build probe request: %w", err)
			}

			httpResp, err := p.client.Do(req)
			if err != nil {
				return fmt.Errorf("probe request failed: %w", err)
			}
			defer httpResp.Body.Close()

			size, _ := io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxProbeBodyBytes))
			resp = probeResponse{statusCode: httpResp.StatusCode, responseSize: size}
			return nil
		})
		if err != nil {
			return nil, err
		}

		return resp, nil
	})
	if err != nil {
		return 0, 0, err
	}

	resp := result.(probeResponse)
	return resp.statusCode, resp.responseSize, nil
}

// Breakers exposes the circuit breaker registry for status reporting
func (p *Prober) Breakers() *CircuitBreakerRegistry {
	return p.breakers
}
