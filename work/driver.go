package work

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/snow-ghost/quanta/core"
	"github.com/snow-ghost/quanta/pkg/limiter"
	"github.com/snow-ghost/quanta/pkg/logging"
	"github.com/snow-ghost/quanta/pkg/metrics"
	"github.com/snow-ghost/quanta/pkg/tracing"
)

// driveConfig holds driving-loop settings. The loop owns every backend
// concern the collector stays free of: concurrency, rate limits, breakers,
// telemetry.
type driveConfig struct {
	backend     string
	concurrency int
	rates       *limiter.RateLimiter
	rateConfig  limiter.BackendConfig
	breakers    *limiter.CircuitBreakerManager
	metrics     *metrics.PrometheusMetrics
	tracer      *tracing.Tracer
	logger      *logging.Logger
}

// DriveOption configures the driving loop.
type DriveOption func(*driveConfig)

// WithBackendName labels telemetry and quota bookkeeping.
func WithBackendName(name string) DriveOption {
	return func(cfg *driveConfig) { cfg.backend = name }
}

// WithConcurrency allows up to n jobs in flight at once.
func WithConcurrency(n int) DriveOption {
	return func(cfg *driveConfig) {
		if n > 0 {
			cfg.concurrency = n
		}
	}
}

// WithRateLimiter throttles job submission against the backend's quota.
func WithRateLimiter(rl *limiter.RateLimiter, config limiter.BackendConfig) DriveOption {
	return func(cfg *driveConfig) {
		cfg.rates = rl
		cfg.rateConfig = config
	}
}

// WithCircuitBreakers routes sampler calls through per-backend breakers.
func WithCircuitBreakers(cbm *limiter.CircuitBreakerManager) DriveOption {
	return func(cfg *driveConfig) { cfg.breakers = cbm }
}

// WithMetrics records job and sample counters.
func WithMetrics(m *metrics.PrometheusMetrics) DriveOption {
	return func(cfg *driveConfig) { cfg.metrics = m }
}

// WithTracer wraps the loop and each job in spans.
func WithTracer(t *tracing.Tracer) DriveOption {
	return func(cfg *driveConfig) { cfg.tracer = t }
}

// WithLogger routes job logging through the structured logger instead of
// the default slog handlers.
func WithLogger(l *logging.Logger) DriveOption {
	return func(cfg *driveConfig) { cfg.logger = l }
}

// Drive runs the request/result loop to exhaustion: it pulls jobs from the
// collector, executes them against the sampler, and feeds results back.
// Job results are applied atomically under a single mutex, so several jobs
// may be in flight while NextJob/OnJobResult stay serialized.
//
// No retries happen here; a failed sampler call fails the drive. Results
// already recorded remain valid and the collector still yields a
// best-effort estimate.
func Drive(ctx context.Context, sampler core.Sampler, collector *Collector, opts ...DriveOption) error {
	cfg := &driveConfig{
		backend:     "default",
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.tracer != nil {
		var span trace.Span
		ctx, span = cfg.tracer.StartCollectSpan(ctx, cfg.backend, collector.NumTerms(), collector.SamplesPerTerm())
		defer span.End()
	}

	if cfg.logger != nil {
		cfg.logger.Info("driving collector",
			"backend", cfg.backend, "concurrency", cfg.concurrency,
			"terms", collector.NumTerms(), "samples_per_term", collector.SamplesPerTerm())
	} else {
		slog.InfoContext(ctx, "driving collector",
			"backend", cfg.backend, "concurrency", cfg.concurrency,
			"terms", collector.NumTerms(), "samples_per_term", collector.SamplesPerTerm())
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for {
		if err := gctx.Err(); err != nil {
			break
		}

		mu.Lock()
		job := collector.NextJob()
		mu.Unlock()
		if job == nil {
			break
		}

		g.Go(func() error {
			return driveJob(gctx, cfg, sampler, collector, &mu, job)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// driveJob executes a single job and applies its result.
func driveJob(ctx context.Context, cfg *driveConfig, sampler core.Sampler, collector *Collector, mu *sync.Mutex, job *Job) error {
	if cfg.rates != nil {
		if err := cfg.rates.Wait(ctx, cfg.backend, cfg.rateConfig); err != nil {
			return err
		}
	}

	jobCtx := ctx
	var span trace.Span
	if cfg.tracer != nil {
		jobCtx, span = cfg.tracer.StartJobSpan(ctx, cfg.backend, job.Key, job.Repetitions)
		defer span.End()
	}

	start := time.Now()
	result, err := runJob(jobCtx, cfg, sampler, job)
	duration := time.Since(start)

	if cfg.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		cfg.metrics.RecordJob(cfg.backend, status, job.Repetitions, duration)
	}
	if err != nil {
		if cfg.tracer != nil {
			cfg.tracer.RecordError(span, err)
		}
		if cfg.logger != nil {
			cfg.logger.LogJob(ctx, cfg.backend, job.Key, job.Repetitions, duration, err)
		} else {
			slog.ErrorContext(ctx, "sampling job failed",
				"backend", cfg.backend, "term_key", job.Key,
				"repetitions", job.Repetitions, "error", err)
		}
		return err
	}

	mu.Lock()
	beforeZeros, beforeOnes := collector.Counts(job.Key)
	collector.OnJobResult(job, result)
	afterZeros, afterOnes := collector.Counts(job.Key)
	mu.Unlock()

	if cfg.metrics != nil {
		cfg.metrics.RecordOutcomes(cfg.backend, afterZeros-beforeZeros, afterOnes-beforeOnes)
	}
	if cfg.logger != nil {
		cfg.logger.LogJob(ctx, cfg.backend, job.Key, job.Repetitions, duration, nil)
	} else {
		slog.DebugContext(ctx, "sampling job completed",
			"backend", cfg.backend, "term_key", job.Key,
			"repetitions", job.Repetitions, "duration_ms", duration.Milliseconds())
	}
	return nil
}

// runJob executes one job against the sampler, through the breaker when one
// is configured.
func runJob(ctx context.Context, cfg *driveConfig, sampler core.Sampler, job *Job) (core.Result, error) {
	run := func() (interface{}, error) {
		return sampler.Run(ctx, job.Circuit, job.Repetitions)
	}

	var (
		raw interface{}
		err error
	)
	if cfg.breakers != nil {
		raw, err = cfg.breakers.Execute(ctx, cfg.backend, run)
	} else {
		raw, err = run()
	}
	if err != nil {
		return nil, err
	}
	return raw.(core.Result), nil
}
