// Package testkit provides deterministic sampler fakes for tests.
package testkit

import (
	"context"
	"sync"

	"github.com/snow-ghost/quanta/core"
)

// SampleCall records one sampler invocation.
type SampleCall struct {
	Circuit     core.Circuit
	Repetitions int
}

// FakeSampler is a scripted core.Sampler: each run reports a fixed fraction
// of odd-parity outcomes under the circuit's terminal measurement key. It
// records every call for assertions.
type FakeSampler struct {
	// OddFraction of outcomes per run carry odd parity; the rest are even.
	OddFraction float64
	// Err, when set, fails every run.
	Err error

	mu    sync.Mutex
	calls []SampleCall
}

// NewFakeSampler returns a sampler reporting the given odd-parity fraction.
func NewFakeSampler(oddFraction float64) *FakeSampler {
	return &FakeSampler{OddFraction: oddFraction}
}

// Run implements core.Sampler.
func (s *FakeSampler) Run(_ context.Context, circuit core.Circuit, repetitions int) (core.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, SampleCall{Circuit: circuit, Repetitions: repetitions})
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	key, width := terminalMeasurement(circuit)
	odd := int(float64(repetitions)*s.OddFraction + 0.5)
	if odd > repetitions {
		odd = repetitions
	}

	rows := make([][]byte, repetitions)
	for i := range rows {
		row := make([]byte, width)
		if i < odd && width > 0 {
			row[0] = 1
		}
		rows[i] = row
	}
	return core.NewSampleResult(map[string][][]byte{key: rows}), nil
}

// Calls returns a snapshot of the recorded invocations.
func (s *FakeSampler) Calls() []SampleCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SampleCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// Repetitions returns the per-call repetition counts in call order.
func (s *FakeSampler) Repetitions() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	reps := make([]int, len(s.calls))
	for i, c := range s.calls {
		reps[i] = c.Repetitions
	}
	return reps
}

// terminalMeasurement finds the last measurement operation in the circuit.
func terminalMeasurement(circuit core.Circuit) (key string, width int) {
	for i := len(circuit.Moments) - 1; i >= 0; i-- {
		for _, op := range circuit.Moments[i].Operations {
			if mg, ok := op.Gate.(*core.MeasureGate); ok {
				return mg.Key, len(op.Qubits)
			}
		}
	}
	return "", 0
}
