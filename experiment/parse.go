package experiment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/snow-ghost/quanta/core"
	"github.com/snow-ghost/quanta/work"
)

// ParseTerm parses a weighted Pauli product like "2.0*Z0*Z1" or "-0.5*X3".
// The leading coefficient is optional and defaults to 1.
func ParseTerm(expr string) (work.Term, error) {
	tokens := strings.Split(strings.ReplaceAll(expr, " ", ""), "*")
	if len(tokens) == 0 || tokens[0] == "" {
		return work.Term{}, fmt.Errorf("empty term expression %q", expr)
	}

	coefficient := 1.0
	factorTokens := tokens
	if parsed, err := strconv.ParseFloat(tokens[0], 64); err == nil {
		coefficient = parsed
		factorTokens = tokens[1:]
	}

	if len(factorTokens) == 0 {
		return work.Term{}, fmt.Errorf("term %q has no Pauli factors", expr)
	}

	factors := make(map[core.Qubit]core.Pauli, len(factorTokens))
	for _, tok := range factorTokens {
		pauli, qubit, err := parseFactor(tok)
		if err != nil {
			return work.Term{}, fmt.Errorf("term %q: %w", expr, err)
		}
		if _, dup := factors[qubit]; dup {
			return work.Term{}, fmt.Errorf("term %q repeats qubit %d", expr, qubit)
		}
		factors[qubit] = pauli
	}

	return work.NewTerm(core.NewPauliString(complex(coefficient, 0), factors), 1)
}

// parseFactor parses a single factor like "Z12" into its Pauli and qubit.
func parseFactor(tok string) (core.Pauli, core.Qubit, error) {
	if len(tok) < 2 {
		return 0, 0, fmt.Errorf("invalid Pauli factor %q", tok)
	}
	var pauli core.Pauli
	switch tok[0] {
	case 'X':
		pauli = core.PauliX
	case 'Y':
		pauli = core.PauliY
	case 'Z':
		pauli = core.PauliZ
	default:
		return 0, 0, fmt.Errorf("invalid Pauli letter in %q", tok)
	}
	qubit, err := strconv.Atoi(tok[1:])
	if err != nil || qubit < 0 {
		return 0, 0, fmt.Errorf("invalid qubit index in %q", tok)
	}
	return pauli, core.Qubit(qubit), nil
}

// BuildTerms parses every term expression in the config, preserving order.
func (c *Config) BuildTerms() ([]work.Term, error) {
	terms := make([]work.Term, 0, len(c.Terms))
	for _, expr := range c.Terms {
		term, err := ParseTerm(expr)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// BuildCircuit assembles the preparation circuit from the gate list, one
// moment per listed gate.
func (c *Config) BuildCircuit() (core.Circuit, error) {
	var circuit core.Circuit
	for _, spec := range c.Prep {
		gate, ok := core.GateByName(spec.Gate)
		if !ok {
			return core.Circuit{}, fmt.Errorf("unknown gate %q", spec.Gate)
		}
		if gate.NumQubits() != len(spec.Qubits) {
			return core.Circuit{}, fmt.Errorf("gate %s expects %d qubits, got %d",
				spec.Gate, gate.NumQubits(), len(spec.Qubits))
		}
		qubits := make([]core.Qubit, len(spec.Qubits))
		for i, q := range spec.Qubits {
			qubits[i] = core.Qubit(q)
		}
		circuit.Append(core.Op(gate, qubits...))
	}
	return circuit, nil
}
