package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	tokensIssued    prometheus.Counter
	activeViews     prometheus.Gauge
	viewsOpened     *prometheus.CounterVec
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		errorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Requests that ended with an error response, by error code",
			},
			[]string{"path", "method", "code"},
		),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pass_tokens_issued_total",
			Help: "Pass tokens generated across all views",
		}),
		activeViews: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pass_views_active",
			Help: "Pass views currently rotating or waiting on a profile",
		}),
		viewsOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pass_views_opened_total",
				Help: "Pass views activated, by resulting state",
			},
			[]string{"state"},
		),
	}

	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.tokensIssued,
		m.activeViews,
		m.viewsOpened,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// TokenIssued counts one generated pass token.
func (m *Metrics) TokenIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

// ViewOpened records a view entering the registry.
func (m *Metrics) ViewOpened() {
	if m == nil {
		return
	}
	m.activeViews.Inc()
}

// ViewSettled records the state a view left loading for.
func (m *Metrics) ViewSettled(state string) {
	if m == nil {
		return
	}
	m.viewsOpened.WithLabelValues(state).Inc()
}

// ViewClosed records a view deactivation.
func (m *Metrics) ViewClosed() {
	if m == nil {
		return
	}
	m.activeViews.Dec()
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
