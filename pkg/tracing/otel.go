// Package tracing instruments the sampling loop with OpenTelemetry spans.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer.
type Tracer struct {
	tracer trace.Tracer
}

// Config holds tracing configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	JaegerEndpoint string
	Environment    string
}

// NewTracer creates a new OpenTelemetry tracer exporting to Jaeger.
func NewTracer(config Config) (*Tracer, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(config.JaegerEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracer{
		tracer: otel.Tracer(config.ServiceName),
	}, nil
}

// NewNoopTracer returns a tracer that records nothing; handy for tests and
// for running without a Jaeger endpoint.
func NewNoopTracer() *Tracer {
	return &Tracer{tracer: trace.NewNoopTracerProvider().Tracer("quanta")}
}

// StartSpan starts a new span.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// StartCollectSpan starts a span for one full collection run.
func (t *Tracer) StartCollectSpan(ctx context.Context, backend string, terms, samplesPerTerm int) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("sampler.backend", backend),
		attribute.Int("collector.terms", terms),
		attribute.Int("collector.samples_per_term", samplesPerTerm),
	}
	return t.StartSpan(ctx, "collector.collect", trace.WithAttributes(attrs...))
}

// StartJobSpan starts a span for a single sampling job.
func (t *Tracer) StartJobSpan(ctx context.Context, backend, termKey string, repetitions int) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("sampler.backend", backend),
		attribute.String("job.term_key", termKey),
		attribute.Int("job.repetitions", repetitions),
	}
	return t.StartSpan(ctx, "sampler.job", trace.WithAttributes(attrs...))
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}
