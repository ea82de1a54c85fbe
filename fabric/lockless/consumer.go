package lockless

import (
	"time"

	"github.com/IvanBrykalov/twoqfabric/fabric"
)

// ConsumerHandle is the single consumer goroutine's view across every
// active producer's ring.
type ConsumerHandle struct {
	f       *Fabric
	waitCnt int64
}

// NewConsumer builds a ConsumerHandle for f's active producers.
func (f *Fabric) NewConsumer() *ConsumerHandle { return &ConsumerHandle{f: f} }

// ScanOnce checks the exit sentinel first, then sweeps every active
// producer's request slots, resolving each taken key against cache and
// publishing the result. Returns the count resolved this scan and
// whether the exit sentinel was observed.
func (c *ConsumerHandle) ScanOnce(cache fabric.Finder) (resolved int, exit bool) {
	if c.f.rings[0].request.Ptrs[0].Load() == fabric.ExitSentinel {
		return 0, true
	}

	n := 0
	for p := 0; p < c.f.runProducerNum; p++ {
		r := &c.f.rings[p]
		for i := 0; i < L; i++ {
			kp := r.request.Ptrs[i].Load()
			if kp == nil || kp == fabric.ExitSentinel {
				continue
			}
			r.request.Ptrs[i].Store(nil)

			var res *[]byte
			if v, ok := cache.Find(*kp); ok {
				vv := v
				res = &vv
			} else {
				res = fabric.NotFound
			}
			r.result.Ptrs[i].Store(res)
			n++
		}
	}

	if n == 0 {
		c.waitCnt++
		total := c.f.resolvedTotal.Load()
		if total == 0 || total >= c.f.targetTotal {
			time.Sleep(consumerSleep)
		}
		// else: spin — no sleep, loop again immediately.
	} else {
		c.f.resolvedTotal.Add(int64(n))
	}

	return n, false
}

// WaitCount returns the number of scans that took nothing.
func (c *ConsumerHandle) WaitCount() int64 { return c.waitCnt }

// Run scans until the exit sentinel is observed.
func (c *ConsumerHandle) Run(cache fabric.Finder) {
	for {
		if _, exit := c.ScanOnce(cache); exit {
			return
		}
	}
}
