// Package prom wires cache2q and fabric counters into Prometheus metric
// types registered against a private registry. Nothing here ever starts
// an HTTP listener or touches prometheus.DefaultRegisterer: the adapter
// exists purely so the benchmark's final report can be read back with
// testutil.ToFloat64, not to expose a scrape endpoint.
package prom

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/IvanBrykalov/twoqfabric/cache2q"
)

// Adapter exports cache2q hit/miss counters and Protected/Probationary
// occupancy gauges. Safe for concurrent use; all Prometheus metric types
// are goroutine-safe.
type Adapter struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	protected    prometheus.Gauge
	probationary prometheus.Gauge

	waitRequest *prometheus.CounterVec
	waitResult  *prometheus.CounterVec
}

// New constructs a Prometheus metrics adapter and registers it against
// reg, a registry owned by the caller (never the package-global default
// registerer — see the package doc comment).
//   - reg:         registry to register metrics with; must not be nil
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache2Q lookups resolved against a resident key",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache2Q lookups for a key not present in the index",
			ConstLabels: constLabels,
		}),
		protected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "protected_entries",
			Help:        "Entries currently resident in the protected segment",
			ConstLabels: constLabels,
		}),
		probationary: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "probationary_entries",
			Help:        "Entries currently resident in the probationary segment",
			ConstLabels: constLabels,
		}),
		waitRequest: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "producer_request_wait_total",
				Help:        "Producer iterations that found no free request slot, by producer id",
				ConstLabels: constLabels,
			},
			[]string{"producer"},
		),
		waitResult: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "producer_result_wait_total",
				Help:        "Producer iterations that found no resolved result, by producer id",
				ConstLabels: constLabels,
			},
			[]string{"producer"},
		),
	}
	reg.MustRegister(a.hits, a.misses, a.protected, a.probationary, a.waitRequest, a.waitResult)
	return a
}

// Observe snapshots c's hit/miss counters and segment sizes into the
// gauges and counters. Counters only move forward, so Observe must be
// called exactly once per cache after the benchmark run completes —
// calling it mid-run would double count against the running totals
// cache2q itself keeps.
func (a *Adapter) Observe(c *cache2q.Cache2Q) {
	hits, misses := c.HitMiss()
	a.hits.Add(float64(hits))
	a.misses.Add(float64(misses))
	a.protected.Set(float64(c.ProtectedLen()))
	a.probationary.Set(float64(c.ProbationaryLen()))
}

// Totals reads the hit/miss counters back via testutil.ToFloat64, for a
// report that cross-checks the registry against the cache's own
// bookkeeping rather than trusting a cached value.
func (a *Adapter) Totals() (hits, misses float64) {
	return testutil.ToFloat64(a.hits), testutil.ToFloat64(a.misses)
}

// ObserveProducerWaits records one producer's wait-instrumentation
// counters under its pid label.
func (a *Adapter) ObserveProducerWaits(pid uint64, requestWait, resultWait int64) {
	label := prometheus.Labels{"producer": strconv.FormatUint(pid, 10)}
	a.waitRequest.With(label).Add(float64(requestWait))
	a.waitResult.With(label).Add(float64(resultWait))
}
