package core

import (
	"fmt"
	"strings"
)

// Pauli is a single-qubit measurement axis.
type Pauli uint8

const (
	PauliX Pauli = iota
	PauliY
	PauliZ
)

func (p Pauli) String() string {
	switch p {
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	default:
		return "Z"
	}
}

// BasisChangeGates returns the Clifford sequence that rotates this axis onto
// the computational (Z) basis.
func (p Pauli) BasisChangeGates() []Gate {
	switch p {
	case PauliX:
		return []Gate{H}
	case PauliY:
		return []Gate{SDag, H}
	default:
		return nil
	}
}

// PauliString is a product observable: a product of single-qubit Pauli
// factors scaled by a complex coefficient. A PauliString is immutable after
// construction; the factor map is copied in and never exposed directly.
type PauliString struct {
	factors     map[Qubit]Pauli
	coefficient complex128
}

// NewPauliString builds a product observable from per-qubit factors and a
// coefficient.
func NewPauliString(coefficient complex128, factors map[Qubit]Pauli) PauliString {
	fs := make(map[Qubit]Pauli, len(factors))
	for q, p := range factors {
		fs[q] = p
	}
	return PauliString{factors: fs, coefficient: coefficient}
}

// Coefficient returns the intrinsic scalar factor of the observable.
func (ps PauliString) Coefficient() complex128 { return ps.coefficient }

// Len returns the number of qubits the observable acts on nontrivially.
func (ps PauliString) Len() int { return len(ps.factors) }

// Qubits returns the observable's qubits in sorted order.
func (ps PauliString) Qubits() []Qubit {
	qs := make([]Qubit, 0, len(ps.factors))
	for q := range ps.factors {
		qs = append(qs, q)
	}
	return SortedQubits(qs)
}

// Factor returns the Pauli acting on q, if any.
func (ps PauliString) Factor(q Qubit) (Pauli, bool) {
	p, ok := ps.factors[q]
	return p, ok
}

// Unit returns the same product observable with coefficient 1.
func (ps PauliString) Unit() PauliString {
	return PauliString{factors: ps.factors, coefficient: 1}
}

// WithCoefficient returns the same product observable scaled to the given
// coefficient.
func (ps PauliString) WithCoefficient(c complex128) PauliString {
	return PauliString{factors: ps.factors, coefficient: c}
}

// Key returns a canonical identity for the observable's factor set. The
// coefficient is deliberately excluded: two strings measuring the same
// product share a key.
func (ps PauliString) Key() string {
	qs := ps.Qubits()
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = fmt.Sprintf("%s%d", ps.factors[q], q)
	}
	return strings.Join(parts, "*")
}

// ZBasisOps returns the operations that rotate every factor of the
// observable onto the Z axis, ordered by qubit.
func (ps PauliString) ZBasisOps() []Operation {
	var ops []Operation
	for _, q := range ps.Qubits() {
		for _, g := range ps.factors[q].BasisChangeGates() {
			ops = append(ops, Op(g, q))
		}
	}
	return ops
}
