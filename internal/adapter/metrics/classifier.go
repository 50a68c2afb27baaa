package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pscheid92/vnsentiment/internal/domain"
)

// ClassifierMetrics counts classification decisions.
type ClassifierMetrics struct {
	Decisions     *prometheus.CounterVec
	InvalidInputs prometheus.Counter
	HistoryErrors prometheus.Counter
}

func NewClassifierMetrics(reg prometheus.Registerer) *ClassifierMetrics {
	m := &ClassifierMetrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "decisions_total",
			Help:      "Total number of classifications, by decision branch, evidence source and label.",
		}, []string{"branch", "source", "sentiment"}),
		InvalidInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "invalid_input_total",
			Help:      "Total number of texts rejected as too short.",
		}),
		HistoryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "history_append_errors_total",
			Help:      "Total number of classifications that could not be written to history.",
		}),
	}

	reg.MustRegister(m.Decisions, m.InvalidInputs, m.HistoryErrors)
	return m
}

// ObserveDecision is nil-safe so callers can run without metrics.
func (m *ClassifierMetrics) ObserveDecision(r domain.ClassificationResult) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(string(r.Branch), string(r.Source), string(r.Sentiment)).Inc()
}

func (m *ClassifierMetrics) ObserveInvalidInput() {
	if m == nil {
		return
	}
	m.InvalidInputs.Inc()
}

func (m *ClassifierMetrics) ObserveHistoryError() {
	if m == nil {
		return
	}
	m.HistoryErrors.Inc()
}
