// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vnsentiment"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Set bundles every collector group the server registers.
type Set struct {
	HTTP       *HTTPMetrics
	Classifier *ClassifierMetrics
	Oracle     *OracleMetrics
	Cache      *CacheMetrics
	Redis      *RedisMetrics
	DB         *DBMetrics
}

func NewSet(reg prometheus.Registerer) *Set {
	return &Set{
		HTTP:       NewHTTPMetrics(reg),
		Classifier: NewClassifierMetrics(reg),
		Oracle:     NewOracleMetrics(reg),
		Cache:      NewCacheMetrics(reg),
		Redis:      NewRedisMetrics(reg),
		DB:         NewDBMetrics(reg),
	}
}
