package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPauliStringKey(t *testing.T) {
	ps := NewPauliString(2, map[Qubit]Pauli{
		5: PauliZ,
		0: PauliX,
		2: PauliY,
	})

	assert.Equal(t, "X0*Y2*Z5", ps.Key())
	assert.Equal(t, []Qubit{0, 2, 5}, ps.Qubits())

	t.Run("key ignores coefficient", func(t *testing.T) {
		scaled := ps.WithCoefficient(-3)
		assert.Equal(t, ps.Key(), scaled.Key())
	})
}

func TestPauliStringImmutable(t *testing.T) {
	factors := map[Qubit]Pauli{1: PauliX}
	ps := NewPauliString(1, factors)

	// Mutating the input map must not leak into the observable.
	factors[1] = PauliZ
	factors[7] = PauliY

	p, ok := ps.Factor(1)
	require.True(t, ok)
	assert.Equal(t, PauliX, p)
	_, ok = ps.Factor(7)
	assert.False(t, ok)
}

func TestPauliStringUnit(t *testing.T) {
	ps := NewPauliString(complex(0, 2), map[Qubit]Pauli{3: PauliY})
	unit := ps.Unit()

	assert.Equal(t, complex128(1), unit.Coefficient())
	assert.Equal(t, complex(0, 2), ps.Coefficient())
	assert.Equal(t, ps.Key(), unit.Key())
}

func TestZBasisOps(t *testing.T) {
	ps := NewPauliString(1, map[Qubit]Pauli{
		0: PauliX,
		1: PauliY,
		2: PauliZ,
	})

	ops := ps.ZBasisOps()
	require.Len(t, ops, 3)
	assert.Equal(t, H, ops[0].Gate)
	assert.Equal(t, []Qubit{0}, ops[0].Qubits)
	assert.Equal(t, SDag, ops[1].Gate)
	assert.Equal(t, H, ops[2].Gate)
	assert.Equal(t, []Qubit{1}, ops[2].Qubits)
}
