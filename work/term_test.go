package work

import (
	"testing"

	"github.com/snow-ghost/quanta/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTermMergesCoefficients(t *testing.T) {
	ps := core.NewPauliString(complex(3, 0), map[core.Qubit]core.Pauli{0: core.PauliZ})

	term, err := NewTerm(ps, complex(2, 0))
	require.NoError(t, err)

	assert.Equal(t, complex(6, 0), term.Coefficient())
	assert.Equal(t, complex128(1), term.Observable().Coefficient())
	assert.Equal(t, "Z0", term.Key())
}

func TestNewTermRejectsEmptyObservable(t *testing.T) {
	empty := core.NewPauliString(1, nil)

	_, err := NewTerm(empty, 1)
	require.ErrorIs(t, err, ErrEmptyObservable)
}
