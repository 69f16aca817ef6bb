package unitary

import (
	"testing"

	"github.com/snow-ghost/quanta/core"
	"github.com/stretchr/testify/assert"
)

// flagOnly exposes only the explicit flag capability.
type flagOnly struct {
	answer core.TriState
}

func (f flagOnly) HasUnitary() core.TriState { return f.answer }

// decomposeOnly decomposes into a fixed list of sub-operations.
type decomposeOnly struct {
	ops []core.Operation
}

func (d decomposeOnly) Decompose() ([]core.Operation, bool) { return d.ops, true }

// flagGate is a placeable gate answering via the explicit flag.
type flagGate struct {
	answer core.TriState
}

func (g flagGate) Name() string { return "FLAG" }
func (g flagGate) NumQubits() int { return 1 }
func (g flagGate) HasUnitary() core.TriState { return g.answer }

// probeGate exposes only the probe capability. applies=false produces the
// explicit "not applicable" signal.
type probeGate struct {
	applies bool
}

func (g probeGate) Name() string { return "PROBE" }
func (g probeGate) NumQubits() int { return 2 }

func (g probeGate) ApplyUnitary(args *core.ApplyArgs) ([]complex128, bool) {
	if !g.applies {
		return nil, true
	}
	return args.Target, true
}

// matrixOnly exposes only the materialization capability.
type matrixOnly struct {
	matrix [][]complex128
}

func (m matrixOnly) Unitary() [][]complex128 { return m.matrix }

func TestResolveExplicitFlag(t *testing.T) {
	assert.True(t, Resolve(flagOnly{answer: core.True}))
	assert.False(t, Resolve(flagOnly{answer: core.False}))

	t.Run("not-implemented sentinel falls through to default", func(t *testing.T) {
		assert.False(t, Resolve(flagOnly{answer: core.Unknown}))
		assert.Equal(t, core.Unknown, ResolveTriState(flagOnly{answer: core.Unknown}))
	})
}

func TestResolveDecomposeIsConjunctive(t *testing.T) {
	op := func(answer core.TriState) core.Operation {
		return core.Op(flagGate{answer: answer}, 0)
	}

	cases := []struct {
		name string
		subs []core.TriState
		want core.TriState
	}{
		{"all true", []core.TriState{core.True, core.True}, core.True},
		{"one false", []core.TriState{core.True, core.True, core.False}, core.False},
		{"unknown poisons", []core.TriState{core.True, core.Unknown}, core.Unknown},
		{"empty decomposition is unitary", nil, core.True},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ops := make([]core.Operation, len(tc.subs))
			for i, s := range tc.subs {
				ops[i] = op(s)
			}
			assert.Equal(t, tc.want, ResolveTriState(decomposeOnly{ops: ops}))
		})
	}
}

func TestResolveProbe(t *testing.T) {
	t.Run("buffer produced implies unitary", func(t *testing.T) {
		assert.True(t, Resolve(core.Op(probeGate{applies: true}, 0, 1)))
	})

	t.Run("explicit non-result implies non-unitary", func(t *testing.T) {
		assert.False(t, Resolve(core.Op(probeGate{applies: false}, 0, 1)))
		assert.Equal(t, core.False, ResolveTriState(core.Op(probeGate{applies: false}, 0, 1)))
	})

	t.Run("bare gate gets canonical placement", func(t *testing.T) {
		assert.True(t, Resolve(probeGate{applies: true}))
	})
}

func TestResolveMatrix(t *testing.T) {
	m := [][]complex128{{1, 0}, {0, 1}}
	assert.True(t, Resolve(matrixOnly{matrix: m}))
	assert.Equal(t, core.False, ResolveTriState(matrixOnly{matrix: nil}))
}

func TestResolveDefaultsToFalse(t *testing.T) {
	// No capability at all.
	assert.False(t, Resolve(struct{}{}))
	assert.Equal(t, core.Unknown, ResolveTriState(struct{}{}))
}

func TestResolveStandardGates(t *testing.T) {
	for _, g := range []core.Gate{core.H, core.X, core.CNOT} {
		assert.True(t, Resolve(g), g.Name())
		assert.True(t, Resolve(core.Op(g, core.LineRange(g.NumQubits())...)), g.Name())
	}
	assert.False(t, Resolve(core.Measure("out", 0)))
}

// cyclic decomposes into an operation whose gate decomposes back into the
// same structure, forever.
type cyclicGate struct{}

func (cyclicGate) Name() string   { return "CYCLE" }
func (cyclicGate) NumQubits() int { return 1 }

func (cyclicGate) DecomposeWithQubits(qubits []core.Qubit) ([]core.Operation, bool) {
	return []core.Operation{core.Op(cyclicGate{}, qubits[0])}, true
}

func TestResolveDepthGuard(t *testing.T) {
	// An unbounded decomposition chain must settle on the conservative
	// default instead of recursing forever.
	assert.False(t, Resolve(core.Op(cyclicGate{}, 0)))
}
