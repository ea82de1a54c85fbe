package lockless

import "github.com/IvanBrykalov/twoqfabric/fabric"

// ProducerHandle is one producer's view of its own Ring. It is not safe
// for concurrent use by more than one goroutine (exactly one producer
// owns a given pid).
type ProducerHandle struct {
	fabric *Fabric
	pid    uint64

	requestWaitCnt int64
	resultWaitCnt  int64
	maxWaitBurst   int64
}

// NewProducer binds a ProducerHandle to pid's ring (1-based).
func (f *Fabric) NewProducer(pid uint64) *ProducerHandle {
	if pid < 1 || int(pid) > fabric.FixProducerNumber {
		panic("lockless: pid out of range")
	}
	return &ProducerHandle{fabric: f, pid: pid}
}

func (p *ProducerHandle) ring() *Ring { return &p.fabric.rings[p.pid-1] }

// Exchange implements fabric.Exchanger, delegating to BatchKeys.
func (p *ProducerHandle) Exchange(pid uint64, keys [][]byte) []fabric.Result {
	if pid != p.pid {
		panic("lockless: Exchange called with a foreign pid")
	}
	return p.BatchKeys(keys)
}

// BatchKeys publishes a batch of keys and blocks until all are resolved:
// fill free request slots, drain resolved results, and loop — so a batch
// larger than L simply refills as slots free up. The precondition —
// every request slot nil on entry — is asserted; it can only be violated
// by two goroutines driving the same pid.
func (p *ProducerHandle) BatchKeys(keys [][]byte) []fabric.Result {
	r := p.ring()
	for i := 0; i < L; i++ {
		if r.request.Ptrs[i].Load() != nil {
			panic("lockless: BatchKeys precondition violated: a request slot is not nil")
		}
	}

	results := make([]fabric.Result, 0, len(keys))
	var inFlight [L]bool
	var localKeys [L][]byte
	remaining := keys

	fillBurst, drainBurst := int64(0), int64(0)

	for len(results) < len(keys) {
		// Fill phase.
		filled := false
		for i := 0; i < L && len(remaining) > 0; i++ {
			if inFlight[i] {
				continue
			}
			k := remaining[0]
			remaining = remaining[1:]
			localKeys[i] = k
			r.request.Ptrs[i].Store(&k)
			inFlight[i] = true
			filled = true
		}
		if len(remaining) > 0 && !filled {
			p.requestWaitCnt++
			fillBurst++
			if fillBurst > p.maxWaitBurst {
				p.maxWaitBurst = fillBurst
			}
		} else {
			fillBurst = 0
		}

		// Drain phase.
		drained := false
		for i := 0; i < L; i++ {
			if !inFlight[i] {
				continue
			}
			v := r.result.Ptrs[i].Load()
			if v == nil {
				continue
			}
			hit := v != fabric.NotFound
			var val []byte
			if hit {
				val = *v
			}
			results = append(results, fabric.Result{Key: localKeys[i], Val: val, Hit: hit})
			r.result.Ptrs[i].Store(nil)
			inFlight[i] = false
			drained = true
		}
		if !drained {
			p.resultWaitCnt++
			drainBurst++
			if drainBurst > p.maxWaitBurst {
				p.maxWaitBurst = drainBurst
			}
		} else {
			drainBurst = 0
		}
	}

	return results
}

// Stats returns this producer's wait instrumentation. The counters never
// drive control flow; they only feed the final report.
func (p *ProducerHandle) Stats() (requestWait, resultWait, maxBurst int64) {
	return p.requestWaitCnt, p.resultWaitCnt, p.maxWaitBurst
}
