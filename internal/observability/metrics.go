package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	upstreamTotal       *prometheus.CounterVec
	upstreamDuration    *prometheus.HistogramVec
	recoveredParses     prometheus.Counter
	discardedItems      prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "climapp_http_requests_total",
				Help: "Total number of HTTP requests handled.",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "climapp_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		upstreamTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "climapp_upstream_requests_total",
				Help: "Total outbound calls to hosted services (ai, speech, identity, media).",
			},
			[]string{"service", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "climapp_upstream_request_duration_seconds",
				Help:    "Outbound call duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "outcome"},
		),
		recoveredParses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "climapp_ai_recovered_parses_total",
				Help: "Model responses that needed brace-span recovery instead of a clean JSON parse.",
			},
		),
		discardedItems: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "climapp_ai_discarded_items_total",
				Help: "Extracted items dropped by the confidence filter.",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.upstreamTotal,
		m.upstreamDuration,
		m.recoveredParses,
		m.discardedItems,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	statusLabel := strconv.Itoa(status)
	m.httpRequestsTotal.WithLabelValues(route, method, statusLabel).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusLabel).Observe(duration.Seconds())
}

func (m *Metrics) ObserveUpstream(service string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.upstreamTotal.WithLabelValues(service, outcome).Inc()
	m.upstreamDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *Metrics) IncRecoveredParse() {
	if m == nil {
		return
	}
	m.recoveredParses.Inc()
}

func (m *Metrics) AddDiscardedItems(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.discardedItems.Add(float64(n))
}
