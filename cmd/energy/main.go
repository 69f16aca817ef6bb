package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"

	"github.com/snow-ghost/quanta/experiment"
	"github.com/snow-ghost/quanta/pkg/cache"
	"github.com/snow-ghost/quanta/pkg/limiter"
	"github.com/snow-ghost/quanta/pkg/observability"
	"github.com/snow-ghost/quanta/sim"
	"github.com/snow-ghost/quanta/work"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "experiment.yaml", "path to the experiment definition")
	flag.Parse()

	cfg, err := experiment.NewLoader(*configPath).Load()
	if err != nil {
		logger.Error("failed to load experiment", "error", err)
		os.Exit(1)
	}

	circuit, err := cfg.BuildCircuit()
	if err != nil {
		logger.Error("failed to build preparation circuit", "error", err)
		os.Exit(1)
	}
	terms, err := cfg.BuildTerms()
	if err != nil {
		logger.Error("failed to parse terms", "error", err)
		os.Exit(1)
	}

	obs, err := observability.NewManager(observability.Config{
		ServiceName:    "energy",
		ServiceVersion: "1.0.0",
		JaegerEndpoint: os.Getenv("JAEGER_ENDPOINT"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	})
	if err != nil {
		logger.Error("failed to initialize observability", "error", err)
		os.Exit(1)
	}
	defer obs.Close()

	appLog := obs.GetLogger()
	slog.SetDefault(appLog.GetSlog())
	m := obs.GetMetrics()

	backend := cfg.Backend.Name
	if backend == "" {
		backend = "simulator"
	}

	rateLimiter := limiter.NewRateLimiter()
	backendConfig := limiter.BackendConfig{
		MaxJobsPerMinute:    cfg.Backend.MaxJobsPerMinute,
		MaxSamplesPerMinute: cfg.Backend.MaxSamplesPerMinute,
	}
	breakers := limiter.NewCircuitBreakerManager()
	breakers.OnStateChange(func(backend string, from, to gobreaker.State) {
		switch to {
		case gobreaker.StateOpen:
			m.RecordCircuitOpen(backend)
		case gobreaker.StateHalfOpen:
			m.RecordCircuitHalfOpen(backend)
		case gobreaker.StateClosed:
			m.RecordCircuitClosed(backend)
		}
		appLog.LogCircuitBreaker(context.Background(), backend, to.String())
	})

	circuitCache, err := cache.NewCircuitCache(cache.DefaultMaxSize)
	if err != nil {
		logger.Error("failed to create circuit cache", "error", err)
		os.Exit(1)
	}
	circuitCache.OnLookup(func(key string, hit bool) {
		if hit {
			m.RecordCacheHit()
		} else {
			m.RecordCacheMiss()
		}
		appLog.LogCacheOperation(context.Background(), key, hit)
	})

	maxPerJob := cfg.MaxSamplesPerJob
	if maxPerJob == 0 {
		maxPerJob = work.DefaultMaxSamplesPerJob
	}
	collector, err := work.NewCollector(circuit, cfg.SamplesPerTerm, terms,
		work.WithMaxSamplesPerJob(maxPerJob),
		work.WithDerivedCircuitCache(circuitCache),
	)
	if err != nil {
		logger.Error("failed to create collector", "error", err)
		os.Exit(1)
	}

	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics server starting", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLog.Info("experiment starting",
		"name", cfg.Name,
		"terms", len(terms),
		"samples_per_term", cfg.SamplesPerTerm,
		"backend", backend,
	)

	sampler := sim.NewSampler(cfg.Seed)
	err = work.Drive(ctx, sampler, collector,
		work.WithBackendName(backend),
		work.WithConcurrency(cfg.Concurrency),
		work.WithRateLimiter(rateLimiter, backendConfig),
		work.WithCircuitBreakers(breakers),
		work.WithMetrics(m),
		work.WithTracer(obs.GetTracer()),
		work.WithLogger(appLog),
	)
	if err != nil {
		appLog.Error("collection failed", "error", err)
		os.Exit(1)
	}

	appLog.LogEstimate(ctx, collector.EstimatedEnergy(), collector.NumTerms(), collector.TotalSamplesRequested())

	stats := circuitCache.Stats()
	appLog.Info("experiment finished",
		"name", cfg.Name,
		"energy", collector.EstimatedEnergy(),
		"samples", collector.TotalSamplesRequested(),
		"cache_hit_rate", stats.HitRate(),
	)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
