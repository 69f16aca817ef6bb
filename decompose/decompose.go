// Package decompose performs one-level structural decomposition of
// operations, gates, and other decomposable values.
package decompose

import "github.com/snow-ghost/quanta/core"

// Once attempts a single level of decomposition. A placed operation without
// its own decomposition falls back to the gate's, using the operation's
// qubits.
func Once(val any) ([]core.Operation, bool) {
	if d, ok := val.(core.Decomposable); ok {
		return d.Decompose()
	}
	if op, ok := val.(core.Operation); ok {
		if d, ok := op.Gate.(core.Decomposable); ok {
			return d.Decompose()
		}
		if d, ok := op.Gate.(core.GateDecomposable); ok {
			return d.DecomposeWithQubits(op.Qubits)
		}
	}
	return nil, false
}

// OnceWithQubits decomposes a gate-shaped value after placing it on the
// given qubits.
func OnceWithQubits(gate core.Gate, qubits []core.Qubit) ([]core.Operation, bool) {
	if d, ok := gate.(core.GateDecomposable); ok {
		return d.DecomposeWithQubits(qubits)
	}
	return nil, false
}

// IntoOperationsAndQubits returns the value's decomposition and the qubits
// it applies to. Gates are given fresh sequential line qubits; placed
// operations use their own; any other decomposable value gets the sorted
// union of the qubits its sub-operations touch.
func IntoOperationsAndQubits(val any) ([]core.Operation, []core.Qubit, bool) {
	if gate, ok := val.(core.Gate); ok {
		// Gates don't specify qubits; place them on a fresh line register.
		qubits := core.LineRange(gate.NumQubits())
		ops, ok := OnceWithQubits(gate, qubits)
		return ops, qubits, ok
	}

	if op, ok := val.(core.Operation); ok {
		ops, ok := Once(op)
		return ops, op.Qubits, ok
	}

	ops, ok := Once(val)
	if !ok {
		return nil, nil, false
	}
	seen := map[core.Qubit]bool{}
	var qubits []core.Qubit
	for _, op := range ops {
		for _, q := range op.Qubits {
			if !seen[q] {
				seen[q] = true
				qubits = append(qubits, q)
			}
		}
	}
	return ops, core.SortedQubits(qubits), true
}
