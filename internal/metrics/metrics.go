// Package metrics exposes request and proposal counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	proposals *prometheus.CounterVec
	messages  prometheus.Counter
}

// New registers every collector on a fresh registry, so several instances
// can coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "daymate",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "daymate",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		proposals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "daymate",
			Name:      "proposals_total",
			Help:      "Meeting proposals created or moved to a final status.",
		}, []string{"status"}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "daymate",
			Name:      "messages_posted_total",
			Help:      "Text messages posted by users.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.latency,
		m.proposals,
		m.messages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Proposal counts a proposal reaching status, PENDING meaning created.
func (m *Metrics) Proposal(status string) {
	m.proposals.WithLabelValues(status).Inc()
}

func (m *Metrics) MessagePosted() {
	m.messages.Inc()
}
