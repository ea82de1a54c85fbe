// Package producer implements the benchmark driver: a 90%-hot/10%-random
// key-mix generator that hands batches to whichever coordination fabric
// the scenario selected, tallies hits/misses, and reports throughput.
package producer

import (
	"time"

	"github.com/IvanBrykalov/twoqfabric/cache2q"
	"github.com/IvanBrykalov/twoqfabric/fabric"
	"github.com/IvanBrykalov/twoqfabric/internal/randgen"
)

const (
	// HotHit is the percentage of batch draws pulled from the shared hot
	// pool rather than the producer's local random pool.
	HotHit = 90

	// TransactionOneStepLeastKeys / MostKeys bound a single batch size,
	// half-open upper.
	TransactionOneStepLeastKeys = 1
	TransactionOneStepMostKeys  = 21 // exclusive upper bound -> batches of 1..20
)

// Stats accumulates one producer's run counters. RequestWait, ResultWait,
// and MaxWaitBurst are wait/retry instrumentation reported by whichever
// fabric the Driver was handed (see fabric/lockless.ProducerHandle.Stats);
// a fabric with no such instrumentation leaves them at zero.
type Stats struct {
	Hits, Misses int64
	BatchCount   int64
	KeyCount     int64
	Start, End   time.Time

	RequestWait  int64
	ResultWait   int64
	MaxWaitBurst int64
	Sleeps       int64
}

// QPS derives throughput from accumulated counters and wall-clock span.
func (s Stats) QPS() float64 {
	elapsed := s.End.Sub(s.Start)
	if elapsed <= 0 {
		return 0
	}
	return float64(s.KeyCount) / elapsed.Seconds()
}

// MissPercent reports the integer-truncated miss percentage.
func (s Stats) MissPercent() int {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return int(s.Misses * 100 / total)
}

// Driver runs one producer's benchmark loop against an Exchanger.
type Driver struct {
	pid       uint64
	re        *randgen.Engine
	hot       [][]byte
	random    [][]byte
	benchmark int
	exchanger fabric.Exchanger
}

// New builds a Driver for pid, copying hot (the shared sample pool) and
// generating an equal-cardinality local random pool seeded from pid so
// runs are reproducible. benchmarkCount is the per-producer quota; the
// driver loops until it has issued at least that many lookups.
func New(pid uint64, hot [][]byte, benchmarkCount int, exchanger fabric.Exchanger) *Driver {
	re := randgen.New(int64(pid))
	random := make([][]byte, len(hot))
	for i := range random {
		random[i] = re.RandStrScope(cache2q.KeyMinLen, cache2q.KeyMaxLen)
	}
	return &Driver{
		pid:       pid,
		re:        re,
		hot:       append([][]byte(nil), hot...),
		random:    random,
		benchmark: benchmarkCount,
		exchanger: exchanger,
	}
}

// Run executes the benchmark loop to completion and returns Stats.
func (d *Driver) Run() Stats {
	st := Stats{Start: time.Now()}

	for st.KeyCount < int64(d.benchmark) {
		b := d.re.RandIntRange(TransactionOneStepLeastKeys, TransactionOneStepMostKeys)
		keys := make([][]byte, b)
		for i := 0; i < b; i++ {
			keys[i] = d.draw()
		}

		results := d.exchanger.Exchange(d.pid, keys)
		st.BatchCount++
		st.KeyCount += int64(len(results))
		for _, r := range results {
			if r.Hit {
				st.Hits++
			} else {
				st.Misses++
			}
		}
	}

	st.End = time.Now()
	return st
}

// draw implements the 90/10 hot/random key-mix pick.
func (d *Driver) draw() []byte {
	dice := d.re.RandIntRange(0, 100)
	if dice < HotHit && len(d.hot) > 0 {
		return d.hot[d.re.RandIntRange(0, len(d.hot))]
	}
	if len(d.random) == 0 {
		return d.hot[d.re.RandIntRange(0, len(d.hot))]
	}
	return d.random[d.re.RandIntRange(0, len(d.random))]
}
