package metrics

import "github.com/prometheus/client_golang/prometheus"

// OracleMetrics tracks calls to the external classifier.
type OracleMetrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	CircuitState    prometheus.Gauge
}

func NewOracleMetrics(reg prometheus.Registerer) *OracleMetrics {
	m := &OracleMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "requests_total",
			Help:      "Total number of oracle requests, by outcome.",
		}, []string{"outcome"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "request_duration_seconds",
			Help:      "Duration of oracle HTTP requests in seconds.",
			Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CircuitState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "circuit_state",
			Help:      "Oracle circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
	}

	reg.MustRegister(m.Requests, m.RequestDuration, m.CircuitState)
	return m
}
