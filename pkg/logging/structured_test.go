package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	logger, err := NewLogger(Config{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return logger
}

func TestNewLogger(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		logger, err := NewLogger(Config{Level: "info", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.NotNil(t, logger.GetSlog())
	})

	t.Run("console format", func(t *testing.T) {
		logger, err := NewLogger(Config{Level: "warn", Format: "console", Output: "stderr"})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("unknown encoding fails", func(t *testing.T) {
		_, err := NewLogger(Config{Level: "info", Format: "xml", Output: "stdout"})
		assert.Error(t, err)
	})
}

func TestWithFieldsReturnsNewLogger(t *testing.T) {
	logger := newTestLogger(t)
	child := logger.WithFields(map[string]interface{}{"backend": "sim"})
	assert.NotSame(t, logger, child)

	// The parent must stay usable after deriving a child.
	logger.Info("parent still works")
	child.Info("child works")
}

func TestDomainHelpers(t *testing.T) {
	logger := newTestLogger(t)
	ctx := context.Background()

	logger.LogJob(ctx, "sim", "Z0*Z1", 1000, 25*time.Millisecond, nil)
	logger.LogJob(ctx, "sim", "Z0*Z1", 1000, 25*time.Millisecond, errors.New("backend down"))
	logger.LogEstimate(ctx, 1.25, 3, 7500)
	logger.LogCacheOperation(ctx, "Z0*Z1", true)
	logger.LogCacheOperation(ctx, "X0", false)
	logger.LogCircuitBreaker(ctx, "sim", "open")
}
