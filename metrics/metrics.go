// Package metrics exposes Prometheus metrics for the invocation subsystem.
// The recorders are nil-safe: until Init runs they do nothing, so library
// users who never scrape pay nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type invokeMetrics struct {
	registry *prometheus.Registry

	invocationsTotal   *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec
	poolAvailable      *prometheus.GaugeVec
}

// Buckets for invocation duration in milliseconds; invocations are network
// round-trips so the range is wide.
var defaultBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000}

var m *invokeMetrics

// Init sets up the metrics registry. Call once at startup, before Handler.
func Init(namespace string) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	im := &invokeMetrics{
		registry: registry,
		invocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Total invocations by invoker type and status",
			},
			[]string{"type", "status"},
		),
		invocationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "invocation_duration_ms",
				Help:      "Invocation duration in milliseconds",
				Buckets:   defaultBuckets,
			},
			[]string{"type"},
		),
		poolAvailable: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pool_available",
				Help:      "Idle invoker instances per pool",
			},
			[]string{"type"},
		),
	}
	registry.MustRegister(im.invocationsTotal, im.invocationDuration, im.poolAvailable)
	m = im
}

// RecordInvocation counts one invocation and observes its duration.
func RecordInvocation(typeName, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.invocationsTotal.WithLabelValues(typeName, status).Inc()
	m.invocationDuration.WithLabelValues(typeName).Observe(float64(d.Milliseconds()))
}

// SetPoolAvailable publishes the idle-instance count of a pool.
func SetPoolAvailable(typeName string, n int) {
	if m == nil {
		return
	}
	m.poolAvailable.WithLabelValues(typeName).Set(float64(n))
}

// Handler serves the scrape endpoint. Returns a 404 handler before Init.
func Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
