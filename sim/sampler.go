// Package sim provides a seedable state-vector sampler backend. It is the
// in-process stand-in for real execution hardware: it applies every gate's
// matrix to a dense state vector and samples measurement outcomes from the
// resulting distribution.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/snow-ghost/quanta/core"
)

// MaxQubits bounds the dense state vector; beyond this the simulation would
// not fit in memory anyway.
const MaxQubits = 24

// Sampler is a state-vector simulator implementing core.Sampler. A Sampler
// is safe for concurrent use; runs share one seeded random source.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a simulator with a fixed seed, so repeated runs of the
// same program sample identical outcome sequences.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Run implements core.Sampler: it simulates the circuit once and draws
// repetitions outcomes from the final-state distribution.
func (s *Sampler) Run(ctx context.Context, circuit core.Circuit, repetitions int) (core.Result, error) {
	if repetitions <= 0 {
		return nil, fmt.Errorf("repetitions must be positive, got %d", repetitions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	qubits := circuit.Qubits()
	n := len(qubits)
	if n > MaxQubits {
		return nil, fmt.Errorf("circuit touches %d qubits, simulator supports at most %d", n, MaxQubits)
	}

	axis := make(map[core.Qubit]int, n)
	for i, q := range qubits {
		axis[q] = i
	}

	state := make([]complex128, 1<<n)
	state[0] = 1

	type measurement struct {
		key    string
		qubits []core.Qubit
	}
	var measurements []measurement
	seenKeys := map[string]bool{}

	for _, moment := range circuit.Moments {
		for _, op := range moment.Operations {
			if mg, ok := op.Gate.(*core.MeasureGate); ok {
				if seenKeys[mg.Key] {
					return nil, fmt.Errorf("duplicate measurement key %q", mg.Key)
				}
				seenKeys[mg.Key] = true
				measurements = append(measurements, measurement{key: mg.Key, qubits: op.Qubits})
				continue
			}

			if len(measurements) > 0 {
				return nil, fmt.Errorf("gate %s follows a measurement: measurements must be terminal", op.Gate.Name())
			}
			mp, ok := op.Gate.(core.MatrixProvider)
			if !ok {
				return nil, fmt.Errorf("cannot simulate gate %s: no matrix available", op.Gate.Name())
			}
			m := mp.Unitary()
			if m == nil {
				return nil, fmt.Errorf("cannot simulate gate %s: nil matrix", op.Gate.Name())
			}

			targets := make([]int, len(op.Qubits))
			for i, q := range op.Qubits {
				targets[i] = axis[q]
			}
			applyMatrix(state, m, targets, n)
		}
	}

	probs := make([]float64, len(state))
	for i, amp := range state {
		probs[i] = real(amp)*real(amp) + imag(amp)*imag(amp)
	}

	rows := make(map[string][][]byte, len(measurements))
	for _, m := range measurements {
		rows[m.key] = make([][]byte, 0, repetitions)
	}

	s.mu.Lock()
	outcomes := make([]int, repetitions)
	for r := range outcomes {
		outcomes[r] = sampleIndex(s.rng, probs)
	}
	s.mu.Unlock()

	for _, idx := range outcomes {
		for _, m := range measurements {
			row := make([]byte, len(m.qubits))
			for i, q := range m.qubits {
				row[i] = bitAt(idx, axis[q], n)
			}
			rows[m.key] = append(rows[m.key], row)
		}
	}

	return core.NewSampleResult(rows), nil
}

// bitAt extracts the value of the given axis from a basis-state index.
// Axis 0 is the most significant bit.
func bitAt(index, axis, n int) byte {
	return byte((index >> (n - 1 - axis)) & 1)
}

// sampleIndex draws one basis-state index from the probability vector.
func sampleIndex(rng *rand.Rand, probs []float64) int {
	r := rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return i
		}
	}
	// Numerical round-off can leave a sliver above acc; attribute it to the
	// last nonzero-probability state.
	for i := len(probs) - 1; i >= 0; i-- {
		if probs[i] > 0 {
			return i
		}
	}
	return len(probs) - 1
}

// applyMatrix applies a k-qubit matrix to the state on the target axes.
func applyMatrix(state []complex128, m [][]complex128, targets []int, n int) {
	k := len(targets)
	dim := 1 << k

	positions := make([]int, k)
	targetMask := 0
	for t, axis := range targets {
		positions[t] = n - 1 - axis
		targetMask |= 1 << positions[t]
	}

	idx := make([]int, dim)
	amps := make([]complex128, dim)

	for base := 0; base < len(state); base++ {
		if base&targetMask != 0 {
			continue
		}
		for b := 0; b < dim; b++ {
			x := base
			for t := 0; t < k; t++ {
				if b&(1<<(k-1-t)) != 0 {
					x |= 1 << positions[t]
				}
			}
			idx[b] = x
			amps[b] = state[x]
		}
		for b := 0; b < dim; b++ {
			var sum complex128
			for c := 0; c < dim; c++ {
				sum += m[b][c] * amps[c]
			}
			state[idx[b]] = sum
		}
	}
}
