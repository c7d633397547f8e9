// Package metrics exposes Prometheus instrumentation for catalog traffic and
// scene updates.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	staleResponses  prometheus.Counter
	sceneSystems    prometheus.Gauge
	scenePlanets    prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lsexo_request_duration_seconds",
				Help:    "Duration of catalog service requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lsexo_requests_total",
				Help: "Catalog service requests by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		staleResponses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lsexo_filter_stale_responses_total",
				Help: "Filter responses discarded because a newer request was applied",
			},
		),
		sceneSystems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lsexo_scene_systems",
				Help: "Star systems in the current scene",
			},
		),
		scenePlanets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lsexo_scene_planets",
				Help: "Planets in the current scene",
			},
		),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.staleResponses,
		m.sceneSystems,
		m.scenePlanets,
	)
	return m
}

// ObserveRequest records one request to endpoint.
func (m *Metrics) ObserveRequest(endpoint string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(endpoint, result).Inc()
}

// StaleResponse counts a discarded filter response.
func (m *Metrics) StaleResponse() {
	if m == nil {
		return
	}
	m.staleResponses.Inc()
}

// SetScene records the size of the scene currently shown.
func (m *Metrics) SetScene(systems, planets int) {
	if m == nil {
		return
	}
	m.sceneSystems.Set(float64(systems))
	m.scenePlanets.Set(float64(planets))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
