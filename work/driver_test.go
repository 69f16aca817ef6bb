package work

import (
	"context"
	"errors"
	"testing"

	"github.com/snow-ghost/quanta/core"
	"github.com/snow-ghost/quanta/pkg/limiter"
	"github.com/snow-ghost/quanta/pkg/logging"
	"github.com/snow-ghost/quanta/pkg/tracing"
	"github.com/snow-ghost/quanta/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(t *testing.T, samplesPerTerm int, termCount int) *Collector {
	t.Helper()
	terms := make([]Term, termCount)
	for i := range terms {
		terms[i] = mustTerm(t, 1, map[core.Qubit]core.Pauli{core.Qubit(i): core.PauliZ})
	}
	c, err := NewCollector(baseCircuit(), samplesPerTerm, terms)
	require.NoError(t, err)
	return c
}

func TestDriveToExhaustion(t *testing.T) {
	sampler := testkit.NewFakeSampler(0.25)
	c := newTestCollector(t, 2500, 1)

	require.NoError(t, Drive(context.Background(), sampler, c))

	assert.Equal(t, []int{1000, 1000, 500}, sampler.Repetitions())
	assert.Equal(t, 2500, c.TotalSamplesRequested())

	zeros, ones := c.Counts("Z0")
	assert.Equal(t, int64(2500), zeros+ones)
	// 1/4 odd parity per job: 250 + 250 + 125.
	assert.Equal(t, int64(625), ones)
	assert.InDelta(t, 0.5, c.EstimatedEnergy(), 1e-9)
}

func TestDriveConcurrentMatchesSerial(t *testing.T) {
	serial := newTestCollector(t, 1200, 3)
	concurrent := newTestCollector(t, 1200, 3)

	require.NoError(t, Drive(context.Background(), testkit.NewFakeSampler(0.5), serial))
	require.NoError(t, Drive(context.Background(), testkit.NewFakeSampler(0.5), concurrent,
		WithConcurrency(4)))

	assert.Equal(t, serial.TotalSamplesRequested(), concurrent.TotalSamplesRequested())
	assert.Equal(t, serial.EstimatedEnergy(), concurrent.EstimatedEnergy())
	for i := 0; i < 3; i++ {
		key := mustTerm(t, 1, map[core.Qubit]core.Pauli{core.Qubit(i): core.PauliZ}).Key()
		sz, so := serial.Counts(key)
		cz, co := concurrent.Counts(key)
		assert.Equal(t, sz, cz)
		assert.Equal(t, so, co)
	}
}

func TestDrivePropagatesSamplerError(t *testing.T) {
	sampler := testkit.NewFakeSampler(0)
	sampler.Err = errors.New("backend down")
	c := newTestCollector(t, 100, 1)

	err := Drive(context.Background(), sampler, c)
	require.Error(t, err)

	// Partial state stays valid: nothing recorded, estimate is best effort.
	assert.Equal(t, 0.0, c.EstimatedEnergy())
}

func TestDriveWithLimiterAndBreaker(t *testing.T) {
	sampler := testkit.NewFakeSampler(0)
	c := newTestCollector(t, 300, 2)

	err := Drive(context.Background(), sampler, c,
		WithBackendName("fake"),
		WithConcurrency(2),
		WithRateLimiter(limiter.NewRateLimiter(), limiter.BackendConfig{MaxJobsPerMinute: 60000}),
		WithCircuitBreakers(limiter.NewCircuitBreakerManager()),
	)
	require.NoError(t, err)

	assert.Equal(t, 600, c.TotalSamplesRequested())
	zeros, _ := c.Counts("Z0")
	assert.Equal(t, int64(300), zeros)
}

func TestDriveWithLoggerAndTracer(t *testing.T) {
	logger, err := logging.NewLogger(logging.Config{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	tracer := tracing.NewNoopTracer()

	t.Run("success", func(t *testing.T) {
		c := newTestCollector(t, 2500, 1)
		require.NoError(t, Drive(context.Background(), testkit.NewFakeSampler(0.25), c,
			WithLogger(logger), WithTracer(tracer)))

		assert.Equal(t, 2500, c.TotalSamplesRequested())
		assert.InDelta(t, 0.5, c.EstimatedEnergy(), 1e-9)
	})

	t.Run("failure still propagates", func(t *testing.T) {
		sampler := testkit.NewFakeSampler(0)
		sampler.Err = errors.New("backend down")
		c := newTestCollector(t, 100, 1)

		err := Drive(context.Background(), sampler, c,
			WithLogger(logger), WithTracer(tracer))
		require.Error(t, err)
	})
}

func TestDriveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sampler := testkit.NewFakeSampler(0)
	c := newTestCollector(t, 100, 1)

	err := Drive(ctx, sampler, c)
	require.Error(t, err)
}
