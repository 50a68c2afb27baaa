package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for the oracle response cache.
type CacheMetrics struct {
	Hits   prometheus.Counter
	Misses prometheus.Counter
	Errors *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle_cache",
			Name:      "hits_total",
			Help:      "Total number of oracle labels served from the cache.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle_cache",
			Name:      "misses_total",
			Help:      "Total number of oracle lookups not found in the cache.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle_cache",
			Name:      "errors_total",
			Help:      "Total number of cache errors that were bypassed, by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Errors)
	return m
}
