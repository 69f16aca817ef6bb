package core

import "sort"

// Qubit is a line qubit: an addressable two-level subsystem identified by
// its position on a one-dimensional register.
type Qubit int

// LineRange returns the qubits 0..n-1.
func LineRange(n int) []Qubit {
	qs := make([]Qubit, n)
	for i := range qs {
		qs[i] = Qubit(i)
	}
	return qs
}

// SortedQubits returns a sorted copy of the given qubits.
func SortedQubits(qs []Qubit) []Qubit {
	out := make([]Qubit, len(qs))
	copy(out, qs)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
