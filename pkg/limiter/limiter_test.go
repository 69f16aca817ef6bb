package limiter

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterPicksRestrictiveLimit(t *testing.T) {
	rl := NewRateLimiter()

	t.Run("samples budget dominates", func(t *testing.T) {
		// 60000 samples/min at 1000 samples per job = 60 jobs/min.
		l := rl.GetLimiter("sim", BackendConfig{MaxJobsPerMinute: 600, MaxSamplesPerMinute: 60000})
		assert.InDelta(t, 1.0, float64(l.Limit()), 1e-9)
	})

	t.Run("jobs budget dominates", func(t *testing.T) {
		l := rl.GetLimiter("hw", BackendConfig{MaxJobsPerMinute: 60, MaxSamplesPerMinute: 600000})
		assert.InDelta(t, 1.0, float64(l.Limit()), 1e-9)
	})

	t.Run("limiter is cached per backend", func(t *testing.T) {
		a := rl.GetLimiter("sim", BackendConfig{})
		b := rl.GetLimiter("sim", BackendConfig{MaxJobsPerMinute: 1})
		assert.Same(t, a, b)
	})
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter()
	cfg := BackendConfig{MaxJobsPerMinute: 600}

	assert.True(t, rl.Allow("sim", cfg))
	require.NoError(t, rl.Wait(context.Background(), "sim", cfg))
}

func TestCircuitBreakerOpensOnFailures(t *testing.T) {
	cbm := NewCircuitBreakerManager()
	boom := errors.New("backend down")

	var transitions []gobreaker.State
	cbm.OnStateChange(func(backend string, from, to gobreaker.State) {
		transitions = append(transitions, to)
	})

	fail := func() (interface{}, error) { return nil, boom }
	for i := 0; i < 5; i++ {
		_, err := cbm.Execute(context.Background(), "sim", fail)
		require.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, cbm.State("sim"))
	require.NotEmpty(t, transitions)
	assert.Equal(t, gobreaker.StateOpen, transitions[len(transitions)-1])

	// While open, calls are rejected without reaching the backend.
	called := false
	_, err := cbm.Execute(context.Background(), "sim", func() (interface{}, error) {
		called = true
		return nil, nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestCircuitBreakerPassesResults(t *testing.T) {
	cbm := NewCircuitBreakerManager()

	res, err := cbm.Execute(context.Background(), "sim", func() (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, res)

	stats := cbm.Stats("sim")
	assert.Equal(t, "closed", stats["state"])
}
