// Package limiter protects sampler backends with per-backend rate limits
// and circuit breakers. Quota enforcement lives here, in the driving loop's
// territory; the collector itself stays free of backend concerns.
package limiter

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// BackendConfig describes the call quota of a sampler backend.
type BackendConfig struct {
	// MaxJobsPerMinute caps how many sampling jobs may be submitted.
	MaxJobsPerMinute int `yaml:"max_jobs_per_minute"`
	// MaxSamplesPerMinute caps total requested repetitions.
	MaxSamplesPerMinute int `yaml:"max_samples_per_minute"`
}

// RateLimiter manages rate limiting for sampler backends.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetLimiter returns or creates a rate limiter for a backend.
func (rl *RateLimiter) GetLimiter(backend string, config BackendConfig) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[backend]; exists {
		return limiter
	}

	// Use the more restrictive limit between jobs/min and samples/min,
	// converting the sample budget to jobs assuming full job batches.
	jpm := float64(config.MaxJobsPerMinute)
	spm := float64(config.MaxSamplesPerMinute)

	avgSamplesPerJob := 1000.0
	spmAsJPM := spm / avgSamplesPerJob

	var limit float64
	switch {
	case jpm > 0 && spmAsJPM > 0:
		limit = jpm
		if spmAsJPM < jpm {
			limit = spmAsJPM
		}
	case jpm > 0:
		limit = jpm
	case spmAsJPM > 0:
		limit = spmAsJPM
	default:
		limit = 600.0
	}

	burst := int(limit / 10.0)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit/60.0), burst)
	rl.limiters[backend] = limiter

	return limiter
}

// Wait blocks until the backend may accept one more job.
func (rl *RateLimiter) Wait(ctx context.Context, backend string, config BackendConfig) error {
	limiter := rl.GetLimiter(backend, config)

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}
	return nil
}

// Allow checks if a job is allowed without waiting.
func (rl *RateLimiter) Allow(backend string, config BackendConfig) bool {
	return rl.GetLimiter(backend, config).Allow()
}

// Stats returns rate limiter statistics for a backend.
func (rl *RateLimiter) Stats(backend string, config BackendConfig) map[string]interface{} {
	limiter := rl.GetLimiter(backend, config)

	return map[string]interface{}{
		"backend":   backend,
		"limit":     limiter.Limit(),
		"burst":     limiter.Burst(),
		"tokens":    limiter.Tokens(),
		"max_jpm":   config.MaxJobsPerMinute,
		"max_spm":   config.MaxSamplesPerMinute,
	}
}

// Reset drops the limiter for a backend.
func (rl *RateLimiter) Reset(backend string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.limiters, backend)
}
