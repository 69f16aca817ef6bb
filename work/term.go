// Package work turns a weighted sum of product observables into bounded
// sampling jobs and aggregates the measured outcomes into an energy
// estimate.
package work

import (
	"errors"

	"github.com/snow-ghost/quanta/core"
)

// ErrEmptyObservable rejects terms whose product observable acts on no
// qubits; such a term has no measurement to sample.
var ErrEmptyObservable = errors.New("term observable acts on no qubits")

// Term is an immutable weighted product observable. The coefficient merges
// the term's own weight with the observable's intrinsic scalar factor,
// computed once at construction; the stored observable is normalized to
// coefficient 1.
type Term struct {
	observable  core.PauliString
	coefficient complex128
}

// NewTerm builds a term from an observable and its weight in the linear
// combination.
func NewTerm(observable core.PauliString, weight complex128) (Term, error) {
	if observable.Len() == 0 {
		return Term{}, ErrEmptyObservable
	}
	return Term{
		observable:  observable.Unit(),
		coefficient: weight * observable.Coefficient(),
	}, nil
}

// Observable returns the unit-coefficient product observable.
func (t Term) Observable() core.PauliString { return t.observable }

// Coefficient returns the merged scalar weight.
func (t Term) Coefficient() complex128 { return t.coefficient }

// Key returns the identity under which the term's outcomes are accumulated.
func (t Term) Key() string { return t.observable.Key() }
