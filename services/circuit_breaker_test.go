package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestNewCircuitBreakerRegistry(t *testing.T) {
	config := CircuitBreakerConfig{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
	}

	registry := NewCircuitBreakerRegistry(config)

	if registry == nil {
		t.Fatal("expected registry to be created")
	}
	if registry.breakers == nil {
		t.Error("expected breakers map to be initialized")
	}
	if registry.config != config {
		t.Error("expected config to be set")
	}
}

func TestCircuitBreakerRegistry_GetBreaker(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	// First call should create a new breaker
	breaker1 := registry.GetBreaker("target-a")
	if breaker1 == nil {
		t.Fatal("expected breaker to be created")
	}

	// Second call should return the same breaker
	breaker2 := registry.GetBreaker("target-a")
	if breaker1 != breaker2 {
		t.Error("expected same breaker instance")
	}

	// Different name should create different breaker
	breaker3 := registry.GetBreaker("target-b")
	if breaker1 == breaker3 {
		t.Error("expected different breaker for different name")
	}
}

func TestCircuitBreakerRegistry_Execute_Success(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	result, err := registry.Execute(ctx, "target-a", func() (any, error) {
		return "success", nil
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %v", result)
	}
}

func TestCircuitBreakerRegistry_Execute_Error(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	expectedErr := errors.New("probe error")
	result, err := registry.Execute(ctx, "target-a", func() (any, error) {
		return nil, expectedErr
	})

	if err == nil {
		t.Error("expected error")
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}
}

func TestCircuitBreakerRegistry_Execute_ContextCanceled(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := registry.Execute(ctx, "target-a", func() (any, error) {
		return "should not reach", nil
	})

	if err == nil {
		t.Error("expected error due to cancelled context")
	}
}

func TestCircuitBreakerRegistry_Status(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	_, _ = registry.Execute(ctx, "target-a", func() (any, error) {
		return "ok", nil
	})
	_, _ = registry.Execute(ctx, "target-b", func() (any, error) {
		return nil, errors.New("fail")
	})

	status := registry.Status()

	if len(status) != 2 {
		t.Errorf("expected 2 breakers in status, got %d", len(status))
	}

	if status["target-a"].TotalSuccesses != 1 {
		t.Errorf("expected 1 success for target-a, got %d", status["target-a"].TotalSuccesses)
	}
	if status["target-b"].TotalFailures != 1 {
		t.Errorf("expected 1 failure for target-b, got %d", status["target-b"].TotalFailures)
	}
}

func TestCircuitBreakerRegistry_TripsAfterFailures(t *testing.T) {
	config := CircuitBreakerConfig{
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     1 * time.Second,
	}
	registry := NewCircuitBreakerRegistry(config)
	ctx := context.Background()

	// ReadyToTrip requires a 50% failure rate with >= 5 requests
	for i := 0; i < 5; i++ {
		_, _ = registry.Execute(ctx, "failing-target", func() (any, error) {
			return nil, errors.New("fail")
		})
	}

	status := registry.Status()
	if status["failing-target"].State != "open" {
		t.Errorf("expected breaker to be open, got %s", status["failing-target"].State)
	}

	// Next call should be rejected without executing
	executed := false
	_, err := registry.Execute(ctx, "failing-target", func() (any, error) {
		executed = true
		return nil, nil
	})

	if err == nil {
		t.Error("expected error due to open circuit breaker")
	}
	if executed {
		t.Error("expected probe function not to run while breaker is open")
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		// The error is wrapped, so check the message
		if err.Error() != "target failing-target unavailable: circuit breaker open" {
			t.Errorf("unexpected error: %v", err)
		}
	}
}

func TestCircuitBreakerRegistry_Remove(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	_, _ = registry.Execute(ctx, "target-a", func() (any, error) {
		return "ok", nil
	})

	registry.Remove("target-a")

	if len(registry.Status()) != 0 {
		t.Error("expected breaker to be removed")
	}
}

func TestDefaultCircuitBreakerConfig(t *testing.T) {
	if DefaultCircuitBreakerConfig.MaxRequests != 5 {
		t.Errorf("expected MaxRequests=5, got %d", DefaultCircuitBreakerConfig.MaxRequests)
	}
	if DefaultCircuitBreakerConfig.Interval != 1*time.Minute {
		t.Errorf("expected Interval=1m, got %v", DefaultCircuitBreakerConfig.Interval)
	}
	if DefaultCircuitBreakerConfig.Timeout != 30*time.Second {
		t.Errorf("expected Timeout=30s, got %v", DefaultCircuitBreakerConfig.Timeout)
	}
}

func TestCircuitBreakerRegistry_Concurrent(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	done := make(chan bool)
	errChan := make(chan error, 10)

	for i := 0; i < 10; i++ {
		go func(id int) {
			_, err := registry.Execute(ctx, "concurrent-target", func() (any, error) {
				return id, nil
			})
			if err != nil {
				errChan <- err
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	close(errChan)
	for err := range errChan {
		t.Errorf("concurrent execution error: %v", err)
	}

	status := registry.Status()
	if status["concurrent-target"].TotalSuccesses != 10 {
		t.Errorf("expected 10 successes, got %d", status["concurrent-target"].TotalSuccesses)
	}
}

func TestCircuitBreakerRegistry_GetBreaker_Concurrent(t *testing.T) {
	// Exercise the double-check path with concurrent GetBreaker calls
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	const goroutines = 100
	var wg sync.WaitGroup
	breakers := make(chan *gobreaker.CircuitBreaker[any], goroutines)

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			breakers <- registry.GetBreaker("shared-target")
		}()
	}

	wg.Wait()
	close(breakers)

	var first *gobreaker.CircuitBreaker[any]
	for cb := range breakers {
		if first == nil {
			first = cb
		} else if cb != first {
			t.Error("all goroutines should get the same breaker instance")
		}
	}

	if len(registry.Status()) != 1 {
		t.Errorf("expected 1 breaker, got %d", len(registry.Status()))
	}
}
