package core

import "context"

// ExplicitUnitary is the direct-flag capability: the value answers the
// unitarity question itself. Returning Unknown means "not implemented".
type ExplicitUnitary interface {
	HasUnitary() TriState
}

// Decomposable is the structural-decomposition capability. ok=false means
// no decomposition is available.
type Decomposable interface {
	Decompose() ([]Operation, bool)
}

// GateDecomposable is the decomposition capability for gate-shaped values,
// which need qubits supplied before they can decompose.
type GateDecomposable interface {
	DecomposeWithQubits(qubits []Qubit) ([]Operation, bool)
}

// ApplyArgs carries the buffers for an in-place unitary application: the
// state to transform, an equally sized scratch buffer, and the axis indices
// the value acts on.
type ApplyArgs struct {
	Target    []complex128
	Available []complex128
	Axes      []int
}

// NewApplyArgs allocates buffers for an n-axis one-hot basis state.
func NewApplyArgs(n int) *ApplyArgs {
	size := 1 << n
	target := make([]complex128, size)
	target[0] = 1
	axes := make([]int, n)
	for i := range axes {
		axes[i] = i
	}
	return &ApplyArgs{
		Target:    target,
		Available: make([]complex128, size),
		Axes:      axes,
	}
}

// UnitaryApplicable is the probe capability: the value applies its
// transformation to a numeric state buffer. ok=false means the capability
// is not implemented; (nil, true) is the explicit "not applicable" signal.
type UnitaryApplicable interface {
	ApplyUnitary(args *ApplyArgs) ([]complex128, bool)
}

// MatrixProvider is the materialization capability: the value produces its
// full dense matrix, or nil if it has none.
type MatrixProvider interface {
	Unitary() [][]complex128
}

// Result exposes sampled measurement outcomes. Histogram folds each
// recorded bit-array under key through fold and counts the fold outputs.
type Result interface {
	Histogram(key string, fold func(bits []byte) int) map[int]int
}

// Sampler executes a circuit repeatedly and reports the measured outcomes.
type Sampler interface {
	Run(ctx context.Context, circuit Circuit, repetitions int) (Result, error)
}

// SampleResult is the concrete Result backed by per-key bit-arrays, one row
// per repetition.
type SampleResult struct {
	measurements map[string][][]byte
}

// NewSampleResult wraps measurement rows keyed by measurement label. Rows
// are not copied; callers hand over ownership.
func NewSampleResult(measurements map[string][][]byte) SampleResult {
	return SampleResult{measurements: measurements}
}

// Rows returns the recorded bit-arrays for a key.
func (r SampleResult) Rows(key string) [][]byte {
	return r.measurements[key]
}

// Histogram implements Result.
func (r SampleResult) Histogram(key string, fold func(bits []byte) int) map[int]int {
	hist := make(map[int]int)
	for _, row := range r.measurements[key] {
		hist[fold(row)]++
	}
	return hist
}
