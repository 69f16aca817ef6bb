package work

import (
	"fmt"
	"sync/atomic"

	"github.com/snow-ghost/quanta/core"
	"github.com/snow-ghost/quanta/pkg/cache"
)

// MeasurementKey is the label under which derived circuits record the
// observable's qubits.
const MeasurementKey = "out"

// DefaultMaxSamplesPerJob caps job size when no cap is configured; a
// backpressure control for backends with per-call limits.
const DefaultMaxSamplesPerJob = 1000

// Collector emits sampling jobs term by term in capped batches, ingests
// their results, and computes the final weighted estimate.
//
// NextJob and OnJobResult must be serialized relative to each other; the
// driving loop may keep several jobs in flight as long as each result is
// applied atomically.
type Collector struct {
	id               uint64
	circuit          core.Circuit
	samplesPerTerm   int
	maxSamplesPerJob int
	terms            []Term
	acc              accumulator
	totalRequested   int
	derived          *cache.CircuitCache
}

// collectorSeq numbers collectors so that a shared circuit cache never
// serves one collector's derived circuits to another.
var collectorSeq atomic.Uint64

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithMaxSamplesPerJob caps the repetitions of any single job.
func WithMaxSamplesPerJob(n int) CollectorOption {
	return func(c *Collector) { c.maxSamplesPerJob = n }
}

// WithDerivedCircuitCache memoizes derived measurement circuits, so a term
// whose quota spans several jobs builds its circuit once. A cache may be
// shared between collectors; entries are namespaced per collector because
// the derived circuit depends on the base circuit, not just the term.
func WithDerivedCircuitCache(dc *cache.CircuitCache) CollectorOption {
	return func(c *Collector) { c.derived = dc }
}

// NewCollector creates a collector over the given state-preparation circuit
// and ordered terms. Terms are sampled strictly in slice order; that order
// is a public contract, not an incidental artifact. Duplicate term keys are
// rejected: two terms sharing a key would merge their sampled outcomes
// indistinguishably.
func NewCollector(circuit core.Circuit, samplesPerTerm int, terms []Term, opts ...CollectorOption) (*Collector, error) {
	if samplesPerTerm <= 0 {
		return nil, fmt.Errorf("samples per term must be positive, got %d", samplesPerTerm)
	}

	c := &Collector{
		id:               collectorSeq.Add(1),
		circuit:          circuit,
		samplesPerTerm:   samplesPerTerm,
		maxSamplesPerJob: DefaultMaxSamplesPerJob,
		terms:            make([]Term, len(terms)),
		acc:              newAccumulator(),
	}
	copy(c.terms, terms)

	for _, opt := range opts {
		opt(c)
	}
	if c.maxSamplesPerJob <= 0 {
		return nil, fmt.Errorf("max samples per job must be positive, got %d", c.maxSamplesPerJob)
	}

	seen := make(map[string]bool, len(c.terms))
	for _, t := range c.terms {
		if t.observable.Len() == 0 {
			return nil, ErrEmptyObservable
		}
		if seen[t.Key()] {
			return nil, fmt.Errorf("duplicate term key %q", t.Key())
		}
		seen[t.Key()] = true
	}

	return c, nil
}

// NextJob returns the next bounded sampling job, or nil once every term's
// quota has been requested. nil is the loop's sole termination signal.
func (c *Collector) NextJob() *Job {
	i := c.totalRequested / c.samplesPerTerm
	if i >= len(c.terms) {
		return nil
	}
	term := c.terms[i]

	remaining := c.samplesPerTerm*(i+1) - c.totalRequested
	batch := remaining
	if batch > c.maxSamplesPerJob {
		batch = c.maxSamplesPerJob
	}
	c.totalRequested += batch

	return &Job{
		Circuit:     c.derivedCircuit(term),
		Repetitions: batch,
		Key:         term.Key(),
	}
}

// OnJobResult folds each measured row into its parity and credits the
// job's accumulator. Increments are commutative, so results of different
// jobs may arrive in any order.
func (c *Collector) OnJobResult(job *Job, result core.Result) {
	parities := result.Histogram(MeasurementKey, func(bits []byte) int {
		sum := 0
		for _, b := range bits {
			sum += int(b)
		}
		return sum % 2
	})
	c.acc.add(job.Key, int64(parities[0]), int64(parities[1]))
}

// EstimatedEnergy sums the sampled expectations weighted by their
// coefficients. Terms without any recorded samples contribute zero. Only
// the real part is reported; a Hermitian sum's estimate is real up to
// sampling noise.
func (c *Collector) EstimatedEnergy() float64 {
	var energy complex128
	for _, term := range c.terms {
		a, b := c.acc.counts(term.Key())
		if a+b == 0 {
			continue
		}
		energy += term.Coefficient() * complex(float64(a-b)/float64(a+b), 0)
	}
	return real(energy)
}

// TotalSamplesRequested returns the repetitions requested so far across all
// emitted jobs.
func (c *Collector) TotalSamplesRequested() int {
	return c.totalRequested
}

// NumTerms returns the number of terms being estimated.
func (c *Collector) NumTerms() int { return len(c.terms) }

// SamplesPerTerm returns the per-term sample target.
func (c *Collector) SamplesPerTerm() int { return c.samplesPerTerm }

// Counts returns the parity counts recorded for a term key.
func (c *Collector) Counts(key string) (zeros, ones int64) {
	return c.acc.counts(key)
}

// derivedCircuit copies the base circuit and appends the term's basis
// rotation followed by a terminal measurement of its qubits.
func (c *Collector) derivedCircuit(term Term) core.Circuit {
	if c.derived == nil {
		return buildDerivedCircuit(c.circuit, term.Observable())
	}
	cacheKey := fmt.Sprintf("%d/%s", c.id, term.Key())
	return c.derived.GetOrBuild(cacheKey, func() core.Circuit {
		return buildDerivedCircuit(c.circuit, term.Observable())
	})
}

func buildDerivedCircuit(base core.Circuit, observable core.PauliString) core.Circuit {
	derived := base.Copy()
	qubits := observable.Qubits()
	// Basis rotations layer by layer, so a qubit needing two gates (the Y
	// axis) gets them in consecutive moments.
	for layer := 0; ; layer++ {
		var ops []core.Operation
		for _, q := range qubits {
			p, _ := observable.Factor(q)
			if gates := p.BasisChangeGates(); layer < len(gates) {
				ops = append(ops, core.Op(gates[layer], q))
			}
		}
		if len(ops) == 0 {
			break
		}
		derived.Append(ops...)
	}
	derived.Append(core.Measure(MeasurementKey, qubits...))
	return derived
}
