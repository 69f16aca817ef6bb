// Package observability bundles logging, metrics, and tracing setup.
package observability

import (
	"github.com/snow-ghost/quanta/pkg/logging"
	"github.com/snow-ghost/quanta/pkg/metrics"
	"github.com/snow-ghost/quanta/pkg/tracing"
)

// Manager manages all observability components.
type Manager struct {
	metrics *metrics.PrometheusMetrics
	tracer  *tracing.Tracer
	logger  *logging.Logger
}

// Config holds observability configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	JaegerEndpoint string
	LogLevel       string
	LogFormat      string
}

// NewManager creates a new observability manager. With an empty Jaeger
// endpoint tracing is a no-op.
func NewManager(config Config) (*Manager, error) {
	prometheusMetrics := metrics.NewPrometheusMetrics()

	var tracer *tracing.Tracer
	if config.JaegerEndpoint == "" {
		tracer = tracing.NewNoopTracer()
	} else {
		var err error
		tracer, err = tracing.NewTracer(tracing.Config{
			ServiceName:    config.ServiceName,
			ServiceVersion: config.ServiceVersion,
			JaegerEndpoint: config.JaegerEndpoint,
			Environment:    config.Environment,
		})
		if err != nil {
			return nil, err
		}
	}

	format := config.LogFormat
	if format == "" {
		format = "json"
	}
	logger, err := logging.NewLogger(logging.Config{
		Level:     config.LogLevel,
		Format:    format,
		Output:    "stdout",
		AddCaller: true,
		AddStack:  false,
	})
	if err != nil {
		return nil, err
	}

	return &Manager{
		metrics: prometheusMetrics,
		tracer:  tracer,
		logger:  logger,
	}, nil
}

// GetMetrics returns the metrics instance.
func (m *Manager) GetMetrics() *metrics.PrometheusMetrics {
	return m.metrics
}

// GetTracer returns the tracer instance.
func (m *Manager) GetTracer() *tracing.Tracer {
	return m.tracer
}

// GetLogger returns the logger instance.
func (m *Manager) GetLogger() *logging.Logger {
	return m.logger
}

// Close flushes pending telemetry.
func (m *Manager) Close() error {
	return m.logger.Sync()
}
