package cache

import (
	"testing"

	"github.com/snow-ghost/quanta/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func circuitWith(ops ...core.Operation) core.Circuit {
	var c core.Circuit
	c.Append(ops...)
	return c
}

func TestCircuitCacheGetOrBuild(t *testing.T) {
	c, err := NewCircuitCache(4)
	require.NoError(t, err)

	builds := 0
	build := func() core.Circuit {
		builds++
		return circuitWith(core.Op(core.H, 0))
	}

	first := c.GetOrBuild("Z0", build)
	second := c.GetOrBuild("Z0", build)

	assert.Equal(t, 1, builds)
	assert.Equal(t, first.Moments, second.Moments)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestCircuitCacheEviction(t *testing.T) {
	c, err := NewCircuitCache(2)
	require.NoError(t, err)

	c.Set("a", circuitWith(core.Op(core.X, 0)))
	c.Set("b", circuitWith(core.Op(core.Y, 0)))
	c.Set("c", circuitWith(core.Op(core.Z, 0)))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCircuitCacheOnLookup(t *testing.T) {
	c, err := NewCircuitCache(4)
	require.NoError(t, err)

	type lookup struct {
		key string
		hit bool
	}
	var seen []lookup
	c.OnLookup(func(key string, hit bool) {
		seen = append(seen, lookup{key: key, hit: hit})
	})

	c.Set("Z0", circuitWith(core.Op(core.H, 0)))
	_, _ = c.Get("Z0")
	_, _ = c.Get("missing")

	assert.Equal(t, []lookup{{"Z0", true}, {"missing", false}}, seen)
}

func TestCircuitCacheHitRate(t *testing.T) {
	c, err := NewCircuitCache(0) // falls back to default size
	require.NoError(t, err)

	c.Set("k", circuitWith(core.Op(core.H, 1)))
	_, _ = c.Get("k")
	_, _ = c.Get("missing")

	assert.InDelta(t, 0.5, c.Stats().HitRate(), 1e-9)
}
