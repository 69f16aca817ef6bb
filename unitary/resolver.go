// Package unitary decides whether a value represents a unitary (reversible,
// norm-preserving) transformation without always materializing its matrix.
package unitary

import (
	"github.com/snow-ghost/quanta/core"
	"github.com/snow-ghost/quanta/decompose"
)

// DefaultMaxDepth bounds the decomposition recursion. Decomposition graphs
// are expected to be finite and acyclic; the bound turns a cycle into an
// Unknown answer instead of a stack overflow.
const DefaultMaxDepth = 64

// Resolve determines whether val has a unitary effect by trying, in order:
// the explicit flag, one-level decomposition, probe application, and full
// matrix materialization. The first conclusive strategy wins. If every
// strategy is inconclusive the value is classified as non-unitary.
func Resolve(val any) bool {
	return ResolveTriState(val) == core.True
}

// ResolveTriState is Resolve without the closed-world default: it reports
// Unknown when no strategy is conclusive.
func ResolveTriState(val any) core.TriState {
	return resolve(val, DefaultMaxDepth)
}

type strategy func(val any, depth int) core.TriState

var strategies []strategy

func init() {
	strategies = []strategy{
		fromExplicitFlag,
		fromDecompose,
		fromApplyUnitary,
		fromMatrix,
	}
}

func resolve(val any, depth int) core.TriState {
	if depth <= 0 {
		return core.Unknown
	}
	for _, strat := range strategies {
		if result := strat(val, depth); result.Conclusive() {
			return result
		}
	}
	return core.Unknown
}

// fromExplicitFlag asks the value directly. Cheapest and authoritative when
// present, so it runs first.
func fromExplicitFlag(val any, _ int) core.TriState {
	if v, ok := val.(core.ExplicitUnitary); ok {
		return v.HasUnitary()
	}
	if op, ok := val.(core.Operation); ok {
		if v, ok := op.Gate.(core.ExplicitUnitary); ok {
			return v.HasUnitary()
		}
	}
	return core.Unknown
}

// fromDecompose resolves the value through one level of decomposition. A
// composition is unitary iff every component is, so the sub-results are
// conjoined; any Unknown sub-result makes the whole strategy Unknown.
func fromDecompose(val any, depth int) core.TriState {
	ops, _, ok := decompose.IntoOperationsAndQubits(val)
	if !ok {
		return core.Unknown
	}
	for _, op := range ops {
		switch resolve(op, depth-1) {
		case core.False:
			return core.False
		case core.Unknown:
			return core.Unknown
		}
	}
	return core.True
}

// fromApplyUnitary probes the value by applying it to a one-hot basis
// state. A produced buffer implies unitary; an explicit non-result implies
// not. Gate-shaped values are first placed on a fresh line register.
func fromApplyUnitary(val any, _ int) core.TriState {
	if gate, ok := val.(core.Gate); ok {
		val = core.Op(gate, core.LineRange(gate.NumQubits())...)
	}
	op, ok := val.(core.Operation)
	if !ok {
		return core.Unknown
	}
	applier, ok := op.Gate.(core.UnitaryApplicable)
	if !ok {
		return core.Unknown
	}

	args := core.NewApplyArgs(len(op.Qubits))
	result, ok := applier.ApplyUnitary(args)
	if !ok {
		return core.Unknown
	}
	return core.TriStateOf(result != nil)
}

// fromMatrix materializes the full matrix. Most expensive, so it runs last.
func fromMatrix(val any, _ int) core.TriState {
	if v, ok := val.(core.MatrixProvider); ok {
		return core.TriStateOf(v.Unitary() != nil)
	}
	if op, ok := val.(core.Operation); ok {
		if v, ok := op.Gate.(core.MatrixProvider); ok {
			return core.TriStateOf(v.Unitary() != nil)
		}
	}
	return core.Unknown
}
