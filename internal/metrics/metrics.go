// Package metrics holds the Prometheus collectors for the recommendation
// service. Collectors live on their own registry so tests can build as many
// instances as they need.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recommendationservice"

type Metrics struct {
	registry *prometheus.Registry

	RPCRequests  *prometheus.CounterVec
	RPCDuration  *prometheus.HistogramVec
	RPCInFlight  prometheus.Gauge
	RPCQueued    prometheus.Gauge
	CatalogCalls *prometheus.CounterVec
	CatalogTime  prometheus.Histogram
	BreakerState prometheus.Gauge
	Recommended  prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Unary RPCs handled, by method and status code.",
		}, []string{"method", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Unary RPC latency, including time spent waiting for a worker.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		RPCInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rpc_in_flight",
			Help:      "Calls currently holding a worker slot.",
		}),
		RPCQueued: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rpc_queued",
			Help:      "Calls waiting for a free worker slot.",
		}),
		CatalogCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Product catalog fetches, by result.",
		}, []string{"result"}),
		CatalogTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Product catalog fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		BreakerState: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_breaker_state",
			Help:      "Catalog circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}),
		Recommended: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommended_products",
			Help:      "Number of product ids returned per request.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
