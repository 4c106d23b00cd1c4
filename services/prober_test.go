package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"api-registry/config"
	"api-registry/models"

	"github.com/google/uuid"
)

// fakeProberStore records health checks in memory
type fakeProberStore struct {
	mu      sync.Mutex
	apis    []models.API
	results []*models.HealthCheckResult
	listErr error
}

func (f *fakeProberStore) ListAPIs(ctx context.Context) ([]models.API, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.apis, nil
}

func (f *fakeProberStore) CreateHealthCheck(ctx context.Context, result *models.HealthCheckResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
	return nil
}

func (f *fakeProberStore) recorded() []*models.HealthCheckResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.HealthCheckResult, len(f.results))
	copy(out, f.results)
	return out
}

func testProbeConfig() config.ProbeConfig {
	return config.ProbeConfig{
		IntervalSeconds: 60,
		TimeoutSeconds:  2,
		MaxConcurrent:   3,
		MaxRetries:      0,
	}
}

func TestProber_Probe_Healthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	prober := NewProber(&fakeProberStore{}, testProbeConfig())
	api := &models.API{ID: uuid.New(), BaseURL: server.URL}

	result := prober.Probe(context.Background(), api)

	if result.Status != models.HealthStatusHealthy {
		t.Errorf("expected healthy, got %s", result.Status)
	}
	if result.APIID != api.ID {
		t.Errorf("expected api id %s, got %s", api.ID, result.APIID)
	}
	if result.ResponseTime <= 0 {
		t.Errorf("expected positive response time, got %f", result.ResponseTime)
	}
	if result.Details["status_code"] != http.StatusOK {
		t.Errorf("expected status_code 200 in details, got %v", result.Details["status_code"])
	}
	if result.Details["endpoint"] != server.URL {
		t.Errorf("expected endpoint in details, got %v", result.Details["endpoint"])
	}
}

func TestProber_Probe_Redirect_IsHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	prober := NewProber(&fakeProberStore{}, testProbeConfig())
	api := &models.API{ID: uuid.New(), BaseURL: server.URL}

	result := prober.Probe(context.Background(), api)

	if result.Status != models.HealthStatusHealthy {
		t.Errorf("expected 3xx to classify as healthy, got %s", result.Status)
	}
}

func TestProber_Probe_Degraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	prober := NewProber(&fakeProberStore{}, testProbeConfig())
	api := &models.API{ID: uuid.New(), BaseURL: server.URL}

	result := prober.Probe(context.Background(), api)

	if result.Status != models.HealthStatusDegraded {
		t.Errorf("expected degraded, got %s", result.Status)
	}
	if result.Details["status_code"] != http.StatusInternalServerError {
		t.Errorf("expected status_code 500 in details, got %v", result.Details["status_code"])
	}
}

func TestProber_Probe_Down(t *testing.T) {
	// A closed server yields a connection error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	prober := NewProber(&fakeProberStore{}, testProbeConfig())
	api := &models.API{ID: uuid.New(), BaseURL: url}

	result := prober.Probe(context.Background(), api)

	if result.Status != models.HealthStatusDown {
		t.Errorf("expected down, got %s", result.Status)
	}
	if result.Details["error"] == nil {
		t.Error("expected error in details")
	}
}

func TestProber_RunOnce(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	degraded := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer degraded.Close()

	store := &fakeProberStore{
		apis: []models.API{
			{ID: uuid.New(), Name: "healthy-api", BaseURL: healthy.URL},
			{ID: uuid.New(), Name: "degraded-api", BaseURL: degraded.URL},
			{ID: uuid.New(), Name: "no-url-api", BaseURL: ""},
		},
	}

	prober := NewProber(store, testProbeConfig())

	if err := prober.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	results := store.recorded()
	if len(results) != 2 {
		t.Fatalf("expected 2 results (empty base_url skipped), got %d", len(results))
	}

	byAPI := make(map[uuid.UUID]models.HealthStatus)
	for _, r := range results {
		byAPI[r.APIID] = r.Status
	}

	if byAPI[store.apis[0].ID] != models.HealthStatusHealthy {
		t.Errorf("expected healthy-api healthy, got %s", byAPI[store.apis[0].ID])
	}
	if byAPI[store.apis[1].ID] != models.HealthStatusDegraded {
		t.Errorf("expected degraded-api degraded, got %s", byAPI[store.apis[1].ID])
	}
}

func TestProber_RunOnce_ListError(t *testing.T) {
	store := &fakeProberStore{listErr: context.DeadlineExceeded}
	prober := NewProber(store, testProbeConfig())

	if err := prober.RunOnce(context.Background()); err == nil {
		t.Error("expected error when listing fails")
	}
}

func TestProber_StartStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := &fakeProberStore{
		apis: []models.API{{ID: uuid.New(), BaseURL: server.URL}},
	}

	cfg := testProbeConfig()
	cfg.IntervalSeconds = 1

	prober := NewProber(store, cfg)
	prober.Start(context.Background())

	// Stop must not hang even if no tick fired yet
	prober.Stop()
}

func TestProber_Probe_OpenBreakerMarksDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	prober := NewProber(&fakeProberStore{}, testProbeConfig())
	api := &models.API{ID: uuid.New(), BaseURL: url}

	// Enough consecutive failures to trip the per-target breaker
	for i := 0; i < 6; i++ {
		result := prober.Probe(context.Background(), api)
		if result.Status != models.HealthStatusDown {
			t.Fatalf("probe %d: expected down, got %s", i, result.Status)
		}
	}

	status := prober.Breakers().Status()
	if status[api.ID.String()].State != "open" {
		t.Errorf("expected breaker open after repeated failures, got %s", status[api.ID.String()].State)
	}
}
