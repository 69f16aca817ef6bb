package limiter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreakerConfig holds circuit breaker configuration for a backend.
type CircuitBreakerConfig struct {
	Name        string                             `json:"name"`
	MaxRequests uint32                             `json:"max_requests"`
	Interval    time.Duration                      `json:"interval"`
	Timeout     time.Duration                      `json:"timeout"`
	ReadyToTrip func(counts gobreaker.Counts) bool `json:"-"`
}

// DefaultCircuitBreakerConfig returns a default circuit breaker configuration.
func DefaultCircuitBreakerConfig(name string) *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open when the failure rate exceeds 50% over at least 5 jobs.
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	}
}

// StateChangeFunc observes breaker transitions, e.g. to record metrics.
type StateChangeFunc func(backend string, from, to gobreaker.State)

// CircuitBreakerManager manages circuit breakers for sampler backends.
type CircuitBreakerManager struct {
	breakers      map[string]*gobreaker.CircuitBreaker
	configs       map[string]*CircuitBreakerConfig
	onStateChange StateChangeFunc
	mu            sync.RWMutex
}

// NewCircuitBreakerManager creates a new circuit breaker manager.
func NewCircuitBreakerManager() *CircuitBreakerManager {
	return &CircuitBreakerManager{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		configs:  make(map[string]*CircuitBreakerConfig),
	}
}

// OnStateChange registers a transition observer. Must be called before the
// first Execute for a backend.
func (cbm *CircuitBreakerManager) OnStateChange(fn StateChangeFunc) {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()
	cbm.onStateChange = fn
}

// GetBreaker returns or creates a circuit breaker for a backend.
func (cbm *CircuitBreakerManager) GetBreaker(backend string) *gobreaker.CircuitBreaker {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()

	if breaker, exists := cbm.breakers[backend]; exists {
		return breaker
	}

	cbConfig, exists := cbm.configs[backend]
	if !exists {
		cbConfig = DefaultCircuitBreakerConfig(fmt.Sprintf("backend-%s", backend))
		cbm.configs[backend] = cbConfig
	}

	observer := cbm.onStateChange
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cbConfig.Name,
		MaxRequests: cbConfig.MaxRequests,
		Interval:    cbConfig.Interval,
		Timeout:     cbConfig.Timeout,
		ReadyToTrip: cbConfig.ReadyToTrip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
			if observer != nil {
				observer(backend, from, to)
			}
		},
	})

	cbm.breakers[backend] = breaker
	return breaker
}

// Configure sets a backend's breaker configuration. Must be called before
// the breaker is first created.
func (cbm *CircuitBreakerManager) Configure(backend string, config *CircuitBreakerConfig) {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()
	cbm.configs[backend] = config
}

// Execute runs a function through the backend's circuit breaker.
func (cbm *CircuitBreakerManager) Execute(ctx context.Context, backend string, fn func() (interface{}, error)) (interface{}, error) {
	breaker := cbm.GetBreaker(backend)

	result, err := breaker.Execute(fn)
	if err != nil {
		return nil, fmt.Errorf("circuit breaker execution failed: %w", err)
	}
	return result, nil
}

// State returns the current state of a backend's circuit breaker.
func (cbm *CircuitBreakerManager) State(backend string) gobreaker.State {
	return cbm.GetBreaker(backend).State()
}

// Stats returns circuit breaker statistics for a backend.
func (cbm *CircuitBreakerManager) Stats(backend string) map[string]interface{} {
	breaker := cbm.GetBreaker(backend)
	counts := breaker.Counts()

	return map[string]interface{}{
		"backend":              backend,
		"state":                breaker.State().String(),
		"requests":             counts.Requests,
		"total_success":        counts.TotalSuccesses,
		"total_failures":       counts.TotalFailures,
		"consecutive_success":  counts.ConsecutiveSuccesses,
		"consecutive_failures": counts.ConsecutiveFailures,
	}
}

// Reset drops the breaker for a backend.
func (cbm *CircuitBreakerManager) Reset(backend string) {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()

	delete(cbm.breakers, backend)
	delete(cbm.configs, backend)
}
