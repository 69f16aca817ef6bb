// Package logging provides the structured logger used by the sampling
// pipeline, wrapping both slog and zap.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps both slog and zap loggers.
type Logger struct {
	slog *slog.Logger
	zap  *zap.Logger
}

// Config holds logging configuration.
type Config struct {
	Level     string
	Format    string // "json" or "console"
	Output    string // "stdout" or "stderr"
	AddCaller bool
	AddStack  bool
}

// NewLogger creates a new structured logger.
func NewLogger(config Config) (*Logger, error) {
	out := os.Stdout
	if config.Output == "stderr" {
		out = os.Stderr
	}
	slogHandler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: parseSlogLevel(config.Level),
	})
	slogLogger := slog.New(slogHandler)

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = parseZapLevel(config.Level)
	zapConfig.Encoding = config.Format
	zapConfig.OutputPaths = []string{config.Output}
	zapConfig.ErrorOutputPaths = []string{config.Output}
	zapConfig.DisableCaller = !config.AddCaller
	zapConfig.DisableStacktrace = !config.AddStack

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		slog: slogLogger,
		zap:  zapLogger,
	}, nil
}

// parseSlogLevel parses slog level from string.
func parseSlogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseZapLevel parses zap level from string.
func parseZapLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}

// WithFields adds fields to logger context.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	slogAttrs := make([]any, 0, len(fields)*2)
	zapFields := make([]zap.Field, 0, len(fields))

	for key, value := range fields {
		slogAttrs = append(slogAttrs, key, value)
		zapFields = append(zapFields, zap.Any(key, value))
	}

	return &Logger{
		slog: l.slog.With(slogAttrs...),
		zap:  l.zap.With(zapFields...),
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.slog.Debug(msg, args...)
	l.zap.Debug(msg, convertToZapFields(args)...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.slog.Info(msg, args...)
	l.zap.Info(msg, convertToZapFields(args)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.slog.Warn(msg, args...)
	l.zap.Warn(msg, convertToZapFields(args)...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.slog.Error(msg, args...)
	l.zap.Error(msg, convertToZapFields(args)...)
}

// convertToZapFields converts interface{} args to zap.Field.
func convertToZapFields(args []interface{}) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields = append(fields, zap.Any(key, args[i+1]))
		}
	}
	return fields
}

// LogJob logs a completed sampling job.
func (l *Logger) LogJob(ctx context.Context, backend, termKey string, repetitions int, duration time.Duration, err error) {
	fields := map[string]interface{}{
		"backend":     backend,
		"term_key":    termKey,
		"repetitions": repetitions,
		"duration_ms": float64(duration.Nanoseconds()) / 1e6,
	}

	logger := l.WithFields(fields)
	if err != nil {
		logger.Error("sampling job failed", "error", err.Error())
		return
	}
	logger.Debug("sampling job completed")
}

// LogEstimate logs a final energy estimate.
func (l *Logger) LogEstimate(ctx context.Context, energy float64, terms, totalSamples int) {
	l.WithFields(map[string]interface{}{
		"energy":        energy,
		"terms":         terms,
		"total_samples": totalSamples,
	}).Info("energy estimate computed")
}

// LogCacheOperation logs a derived-circuit cache lookup.
func (l *Logger) LogCacheOperation(ctx context.Context, termKey string, hit bool) {
	logger := l.WithFields(map[string]interface{}{
		"term_key": termKey,
		"hit":      hit,
	})
	if hit {
		logger.Debug("derived circuit cache hit")
	} else {
		logger.Debug("derived circuit cache miss")
	}
}

// LogCircuitBreaker logs a circuit breaker transition.
func (l *Logger) LogCircuitBreaker(ctx context.Context, backend, state string) {
	l.WithFields(map[string]interface{}{
		"backend": backend,
		"state":   state,
	}).Warn("circuit breaker state changed")
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// GetSlog returns the slog logger, for handing to APIs that expect one.
func (l *Logger) GetSlog() *slog.Logger {
	return l.slog
}
