// Command twoqbench runs the cache2q producer/consumer benchmark across
// any of the five coordination scenarios and prints a throughput report.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/twoqfabric/cache2q"
	"github.com/IvanBrykalov/twoqfabric/fabric"
	"github.com/IvanBrykalov/twoqfabric/fabric/consumerloop"
	"github.com/IvanBrykalov/twoqfabric/fabric/lockless"
	"github.com/IvanBrykalov/twoqfabric/fabric/taskboard"
	"github.com/IvanBrykalov/twoqfabric/metrics/prom"
	"github.com/IvanBrykalov/twoqfabric/producer"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		scenario   = flag.String("scenario", "single", "single | shared | mutex-pure | mutex-signaled | lockless")
		producers  = flag.Int("producers", 2, fmt.Sprintf("producer goroutines (1..%d)", fabric.FixProducerNumber))
		keyspace   = flag.Int("keyspace", 1<<20, "number of distinct keys to pre-populate")
		samples    = flag.Int("samples", 1<<12, "size of the shared hot-key sample pool")
		protectPct = flag.Int("protect-pct", 90, "percentage of keyspace held in the protected segment")
		benchCount = flag.Int("bench-count", 1<<24, "lookups each producer issues before stopping")
		spinlock   = flag.Bool("spinlock", false, "use a CAS spinlock instead of sync.Mutex for mutex-* scenarios")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	if *producers < 1 || *producers > fabric.FixProducerNumber {
		log.Fatalf("twoqbench: -producers must be in [1, %d]", fabric.FixProducerNumber)
	}
	if *scenario == "single" && *producers != 1 {
		// Cache2Q carries no lock of its own; the single-goroutine scenario
		// is only well defined with exactly one caller.
		log.Fatalf("twoqbench: -scenario=single requires -producers=1 (use shared for concurrent direct access)")
	}

	c, hotKeys := cache2q.New(*keyspace, *samples, *seed, cache2q.WithProtectSpace(*keyspace**protectPct/100))

	reg := prometheus.NewRegistry()
	metrics := prom.New(reg, "twoqfabric", *scenario, nil)

	// Only the shared scenario needs the lock wrapper: every fabric
	// scenario funnels all Find calls through the one consumer goroutine,
	// so the cache stays single-caller there.
	var finder fabric.Finder = c
	if *scenario == "shared" {
		finder = cache2q.NewShared(c)
	}

	var results []producer.Stats
	switch *scenario {
	case "single":
		results = runDirect(finder, hotKeys, *producers, *benchCount)
	case "shared":
		results = runDirect(finder, hotKeys, *producers, *benchCount)
	case "mutex-pure":
		results = runMutexBoard(finder, hotKeys, *producers, *benchCount, *spinlock, false)
	case "mutex-signaled":
		results = runMutexBoard(finder, hotKeys, *producers, *benchCount, *spinlock, true)
	case "lockless":
		results = runLockless(finder, hotKeys, *producers, *benchCount, metrics)
	default:
		log.Fatalf("twoqbench: unknown -scenario %q", *scenario)
	}

	metrics.Observe(c)
	hits, misses := c.HitMiss()
	promHits, promMisses := metrics.Totals()
	fmt.Printf("scenario=%s producers=%d keyspace=%d protect-pct=%d bench-count=%d seed=%d\n",
		*scenario, *producers, *keyspace, *protectPct, *benchCount, *seed)
	fmt.Printf("cache: protected=%d probationary=%d hits=%d misses=%d\n",
		c.ProtectedLen(), c.ProbationaryLen(), hits, misses)
	fmt.Printf("prometheus cross-check: hits_total=%.0f misses_total=%.0f\n", promHits, promMisses)
	report(*producers, results)
}

// runDirect benchmarks the single-goroutine and shared-lock scenarios:
// no task board or ring fabric, each producer calling finder.Find
// directly (through Cache2Q.Find or Cache2Q.Shared.Find, depending on
// which finder was constructed).
func runDirect(finder fabric.Finder, hotKeys [][]byte, n, benchCount int) []producer.Stats {
	results := make([]producer.Stats, n)
	var g errgroup.Group
	for pid := 1; pid <= n; pid++ {
		pid := pid
		g.Go(func() error {
			drv := producer.New(uint64(pid), hotKeys, benchCount, directExchanger{finder})
			results[pid-1] = drv.Run()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// runMutexBoard benchmarks the fixed task-board fabric, either the pure
// polling consumer or the flag-signaled variant.
func runMutexBoard(finder fabric.Finder, hotKeys [][]byte, n, benchCount int, spinlock, signaled bool) []producer.Stats {
	board := taskboard.New(spinlock)
	loopDone := make(chan struct{})

	var flags *taskboard.Flags
	var loop *consumerloop.Loop
	if signaled {
		flags = &taskboard.Flags{}
		loop = taskboard.NewSignaledLoop(board, finder, flags)
	} else {
		loop = taskboard.NewPureLoop(board, finder)
	}
	go func() { loop.Run(); close(loopDone) }()

	results := make([]producer.Stats, n)
	var g errgroup.Group
	for pid := 1; pid <= n; pid++ {
		pid := pid
		g.Go(func() error {
			// One exchanger per producer: its sleep counter is owned by
			// this goroutine alone.
			var exchanger fabric.Exchanger
			sleeps := func() int64 { return 0 }
			if signaled {
				e := &taskboard.SignaledExchanger{Board: board, Flags: flags}
				exchanger, sleeps = e, e.Sleeps
			} else {
				e := &taskboard.PureExchanger{Board: board}
				exchanger, sleeps = e, e.Sleeps
			}
			drv := producer.New(uint64(pid), hotKeys, benchCount, exchanger)
			st := drv.Run()
			st.Sleeps = sleeps()
			results[pid-1] = st
			return nil
		})
	}
	_ = g.Wait()

	if signaled {
		taskboard.PlantExitSignaled(board, flags)
	} else {
		board.PlantExit()
	}
	<-loopDone
	fmt.Printf("consumer: resolved=%d\n", loop.Resolved())

	return results
}

// runLockless benchmarks the per-producer atomic-pointer ring fabric.
// This is the only scenario with per-producer wait/retry instrumentation
// (fabric/taskboard's exchangers track no equivalent counters), so its
// results carry RequestWait/ResultWait/MaxWaitBurst while the other
// scenarios leave them at zero.
func runLockless(finder fabric.Finder, hotKeys [][]byte, n, benchCount int, metrics *prom.Adapter) []producer.Stats {
	fab := lockless.NewFabric(n, benchCount)
	consumer := fab.NewConsumer()

	consumerDone := make(chan struct{})
	go func() { consumer.Run(finder); close(consumerDone) }()

	results := make([]producer.Stats, n)
	var g errgroup.Group
	for pid := 1; pid <= n; pid++ {
		pid := pid
		g.Go(func() error {
			ph := fab.NewProducer(uint64(pid))
			drv := producer.New(uint64(pid), hotKeys, benchCount, ph)
			st := drv.Run()
			requestWait, resultWait, maxBurst := ph.Stats()
			st.RequestWait = requestWait
			st.ResultWait = resultWait
			st.MaxWaitBurst = maxBurst
			metrics.ObserveProducerWaits(uint64(pid), requestWait, resultWait)
			results[pid-1] = st
			return nil
		})
	}
	_ = g.Wait()

	fab.PlantExit()
	<-consumerDone
	fmt.Printf("consumer: empty scans=%d\n", consumer.WaitCount())

	return results
}

// report prints one line per producer plus an aggregate summary.
// requestWait/resultWait/maxBurst are zero for scenarios that carry no
// such instrumentation (only "lockless" fills them in; see runLockless),
// and sleeps is zero everywhere but the mutex-board scenarios.
func report(n int, results []producer.Stats) {
	var totalKeys, totalHits, totalMisses int64
	var totalRequestWait, totalResultWait, totalSleeps, maxBurst int64
	for i, st := range results {
		fmt.Printf("producer[%d]: keys=%d hits=%d misses=%d miss%%=%d qps=%.0f sleeps=%d requestWait=%d resultWait=%d maxWaitBurst=%d\n",
			i+1, st.KeyCount, st.Hits, st.Misses, st.MissPercent(), st.QPS(),
			st.Sleeps, st.RequestWait, st.ResultWait, st.MaxWaitBurst)
		totalKeys += st.KeyCount
		totalHits += st.Hits
		totalMisses += st.Misses
		totalRequestWait += st.RequestWait
		totalResultWait += st.ResultWait
		totalSleeps += st.Sleeps
		if st.MaxWaitBurst > maxBurst {
			maxBurst = st.MaxWaitBurst
		}
	}
	missPct := 0
	if totalKeys > 0 {
		missPct = int(totalMisses * 100 / totalKeys)
	}
	fmt.Printf("total: producers=%d keys=%d hits=%d misses=%d miss%%=%d sleeps=%d requestWait=%d resultWait=%d maxWaitBurst=%d\n",
		n, totalKeys, totalHits, totalMisses, missPct, totalSleeps, totalRequestWait, totalResultWait, maxBurst)
}

// directExchanger adapts a bare fabric.Finder into a fabric.Exchanger for
// the single/shared scenarios, which have no board or ring in between
// the producer and the cache.
type directExchanger struct {
	f fabric.Finder
}

func (d directExchanger) Exchange(_ uint64, keys [][]byte) []fabric.Result {
	out := make([]fabric.Result, len(keys))
	for i, k := range keys {
		v, ok := d.f.Find(k)
		out[i] = fabric.Result{Key: k, Val: v, Hit: ok}
	}
	return out
}

