package core

import "math"

// Gate is an unplaced transformation acting on a fixed number of qubits.
type Gate interface {
	Name() string
	NumQubits() int
}

// Operation is a gate placed on concrete qubits.
type Operation struct {
	Gate   Gate
	Qubits []Qubit
}

// Op places a gate on the given qubits.
func Op(g Gate, qubits ...Qubit) Operation {
	return Operation{Gate: g, Qubits: qubits}
}

// Moment is a set of operations applied in the same time slice.
type Moment struct {
	Operations []Operation
}

// Circuit is an ordered sequence of moments.
type Circuit struct {
	Moments []Moment
}

// Append adds the operations as a single new moment.
func (c *Circuit) Append(ops ...Operation) {
	if len(ops) == 0 {
		return
	}
	c.Moments = append(c.Moments, Moment{Operations: ops})
}

// Copy returns a deep copy of the circuit's moment structure. Gates are
// shared; they are immutable.
func (c Circuit) Copy() Circuit {
	moments := make([]Moment, len(c.Moments))
	for i, m := range c.Moments {
		ops := make([]Operation, len(m.Operations))
		copy(ops, m.Operations)
		moments[i] = Moment{Operations: ops}
	}
	return Circuit{Moments: moments}
}

// Qubits returns the sorted set of qubits touched by the circuit.
func (c Circuit) Qubits() []Qubit {
	seen := map[Qubit]bool{}
	var qs []Qubit
	for _, m := range c.Moments {
		for _, op := range m.Operations {
			for _, q := range op.Qubits {
				if !seen[q] {
					seen[q] = true
					qs = append(qs, q)
				}
			}
		}
	}
	return SortedQubits(qs)
}

// matrixGate is a standard gate defined by its dense unitary matrix.
type matrixGate struct {
	name      string
	numQubits int
	matrix    [][]complex128
}

func (g *matrixGate) Name() string { return g.name }
func (g *matrixGate) NumQubits() int { return g.numQubits }
func (g *matrixGate) HasUnitary() TriState { return True }
func (g *matrixGate) Unitary() [][]complex128 {
	m := make([][]complex128, len(g.matrix))
	for i, row := range g.matrix {
		m[i] = make([]complex128, len(row))
		copy(m[i], row)
	}
	return m
}

var invSqrt2 = complex(1/math.Sqrt2, 0)

// Standard gate set.
var (
	H Gate = &matrixGate{name: "H", numQubits: 1, matrix: [][]complex128{
		{invSqrt2, invSqrt2},
		{invSqrt2, -invSqrt2},
	}}
	X Gate = &matrixGate{name: "X", numQubits: 1, matrix: [][]complex128{
		{0, 1},
		{1, 0},
	}}
	Y Gate = &matrixGate{name: "Y", numQubits: 1, matrix: [][]complex128{
		{0, complex(0, -1)},
		{complex(0, 1), 0},
	}}
	Z Gate = &matrixGate{name: "Z", numQubits: 1, matrix: [][]complex128{
		{1, 0},
		{0, -1},
	}}
	S Gate = &matrixGate{name: "S", numQubits: 1, matrix: [][]complex128{
		{1, 0},
		{0, complex(0, 1)},
	}}
	SDag Gate = &matrixGate{name: "S_DAG", numQubits: 1, matrix: [][]complex128{
		{1, 0},
		{0, complex(0, -1)},
	}}
	CNOT Gate = &matrixGate{name: "CNOT", numQubits: 2, matrix: [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}}
)

// GateByName returns the standard gate with the given name.
func GateByName(name string) (Gate, bool) {
	switch name {
	case "H":
		return H, true
	case "X":
		return X, true
	case "Y":
		return Y, true
	case "Z":
		return Z, true
	case "S":
		return S, true
	case "S_DAG":
		return SDag, true
	case "CNOT":
		return CNOT, true
	}
	return nil, false
}

// MeasureGate records the computational-basis value of its qubits under a
// result key. Measurement is not reversible.
type MeasureGate struct {
	Key       string
	numQubits int
}

func (g *MeasureGate) Name() string { return "M(" + g.Key + ")" }
func (g *MeasureGate) NumQubits() int { return g.numQubits }
func (g *MeasureGate) HasUnitary() TriState { return False }

// Measure places a terminal measurement of the given qubits under key.
func Measure(key string, qubits ...Qubit) Operation {
	return Op(&MeasureGate{Key: key, numQubits: len(qubits)}, qubits...)
}
