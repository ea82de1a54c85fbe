// Package lockless implements the per-producer lock-free slot fabric:
// two padded atomic-pointer arrays (request, result) per producer. Each
// (producer, index) pair is a single-producer/single-consumer handoff;
// Go's sync/atomic loads and stores are sequentially consistent, which
// subsumes the release/acquire ordering the handoff needs. There is no
// lock anywhere in this package; false sharing across the
// producer/consumer boundary is avoided with internal/util's cache-line
// padding.
package lockless

import (
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/twoqfabric/fabric"
	"github.com/IvanBrykalov/twoqfabric/internal/util"
)

// L is one cache line's worth of pointer-sized slots.
const L = util.LockLessArrayLen

// consumerSleep is the backoff the consumer takes when it has taken
// nothing this scan and the run is either just starting or winding down.
const consumerSleep = 100 * time.Microsecond

// Ring is one producer's pair of request/result slot arrays.
type Ring struct {
	request util.PointerArray[[]byte]
	result  util.PointerArray[[]byte]
}

// Fabric owns one Ring per producer plus the shared "total resolved"
// counter the consumer's backoff decision depends on.
type Fabric struct {
	rings          [fabric.FixProducerNumber]Ring
	runProducerNum int
	targetTotal    int64 // runProducerNum * benchmarkCount

	resolvedTotal atomic.Int64
}

// NewFabric constructs a Fabric sized for runProducerNum active
// producers. benchmarkCount is each producer's quota, used only to
// compute the consumer's "winding down" backoff threshold.
func NewFabric(runProducerNum, benchmarkCount int) *Fabric {
	if runProducerNum < 1 || runProducerNum > fabric.FixProducerNumber {
		panic("lockless: runProducerNum out of range")
	}
	return &Fabric{
		runProducerNum: runProducerNum,
		targetTotal:    int64(runProducerNum) * int64(benchmarkCount),
	}
}

// Quiescent reports whether every ring's result slots are nil — the
// precondition PlantExit asserts.
func (f *Fabric) Quiescent() bool {
	for p := 0; p < fabric.FixProducerNumber; p++ {
		for i := 0; i < L; i++ {
			if f.rings[p].result.Ptrs[i].Load() != nil {
				return false
			}
		}
	}
	return true
}

// PlantExit release-stores the exit sentinel into ring 0's first request
// slot. The caller must guarantee every producer has already joined and
// Quiescent() holds. Only the Quiescent() half is checked: PlantExit
// panics if it does not hold; whether producers have joined is not checked.
func (f *Fabric) PlantExit() {
	if !f.Quiescent() {
		panic("lockless: PlantExit called while fabric is not quiescent")
	}
	f.rings[0].request.Ptrs[0].Store(fabric.ExitSentinel)
}
