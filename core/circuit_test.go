package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitCopyIsIndependent(t *testing.T) {
	var c Circuit
	c.Append(Op(H, 0))
	c.Append(Op(CNOT, 0, 1))

	cp := c.Copy()
	cp.Append(Measure("out", 0, 1))

	assert.Len(t, c.Moments, 2)
	assert.Len(t, cp.Moments, 3)
}

func TestCircuitQubits(t *testing.T) {
	var c Circuit
	c.Append(Op(H, 3))
	c.Append(Op(CNOT, 3, 1))
	c.Append(Op(X, 1))

	assert.Equal(t, []Qubit{1, 3}, c.Qubits())
}

func TestStandardGatesProvideMatrices(t *testing.T) {
	for _, g := range []Gate{H, X, Y, Z, S, SDag, CNOT} {
		t.Run(g.Name(), func(t *testing.T) {
			mp, ok := g.(MatrixProvider)
			require.True(t, ok)
			m := mp.Unitary()
			dim := 1 << g.NumQubits()
			require.Len(t, m, dim)
			for _, row := range m {
				require.Len(t, row, dim)
			}
		})
	}
}

func TestSampleResultHistogram(t *testing.T) {
	res := NewSampleResult(map[string][][]byte{
		"out": {
			{0, 0},
			{1, 0},
			{1, 1},
			{0, 1},
		},
	})

	parity := func(bits []byte) int {
		sum := 0
		for _, b := range bits {
			sum += int(b)
		}
		return sum % 2
	}

	hist := res.Histogram("out", parity)
	assert.Equal(t, 2, hist[0])
	assert.Equal(t, 2, hist[1])

	t.Run("missing key yields empty histogram", func(t *testing.T) {
		assert.Empty(t, res.Histogram("absent", parity))
	})
}
