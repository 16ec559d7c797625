// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "esekoir"

type Metrics struct {
	// HTTP requests by method, route template and status code.
	HTTPRequests *prometheus.CounterVec
	// HTTP latency by method and route template.
	HTTPDuration *prometheus.HistogramVec
	// Rate table fetches by outcome: live or fallback.
	RateFetches *prometheus.CounterVec
	// Failed steps of multi-step admin workflows.
	WorkflowFailures *prometheus.CounterVec
	// Events pushed to WebSocket clients by type.
	EventsPublished *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New builds the collectors and registers them on a fresh registry together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := build()
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.RateFetches, m.WorkflowFailures, m.EventsPublished)
	m.gatherer = reg
	return m
}

// Nop returns unregistered collectors, for tests and CLI commands.
func Nop() *Metrics {
	m := build()
	m.gatherer = prometheus.NewRegistry()
	return m
}

func build() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "rates",
			Name:      "fetches_total",
			Help:      "Rate table fetches by source.",
		}, []string{"source"}),
		WorkflowFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "workflow",
			Name:      "step_failures_total",
			Help:      "Failed steps of admin approval workflows.",
		}, []string{"workflow", "step"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "realtime",
			Name:      "events_published_total",
			Help:      "Events pushed to WebSocket clients.",
		}, []string{"type"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
