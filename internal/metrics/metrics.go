package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like
// without colliding on the default one.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	OrderQueryDuration *prometheus.HistogramVec
	OrderQueryResults  prometheus.Histogram

	SessionCacheLookups *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OrderQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "order_query_duration_seconds",
			Help:    "Order query engine latency, split by whether distance was computed.",
			Buckets: prometheus.DefBuckets,
		}, []string{"distance"}),
		OrderQueryResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_query_results",
			Help:    "Number of orders returned per query.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		SessionCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_cache_lookups_total",
			Help: "Session cache lookups by outcome (hit, miss, error).",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.OrderQueryDuration,
		m.OrderQueryResults,
		m.SessionCacheLookups,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
