package work

import "github.com/snow-ghost/quanta/core"

// Job is one bounded unit of sampling work: a derived measurement circuit,
// a repetition count, and the key of the term it estimates. A Job is
// immutable once created; Key routes results back to the right accumulator.
type Job struct {
	Circuit     core.Circuit
	Repetitions int
	Key         string
}

// accumulator tracks per-term outcome parity counts. Counts only grow;
// lookups of unseen keys read as zero without inserting anything.
type accumulator struct {
	zeros map[string]int64
	ones  map[string]int64
}

func newAccumulator() accumulator {
	return accumulator{
		zeros: make(map[string]int64),
		ones:  make(map[string]int64),
	}
}

// counts returns the even- and odd-parity counts recorded for key.
func (a accumulator) counts(key string) (zeros, ones int64) {
	return a.zeros[key], a.ones[key]
}

func (a accumulator) add(key string, zeros, ones int64) {
	a.zeros[key] += zeros
	a.ones[key] += ones
}
