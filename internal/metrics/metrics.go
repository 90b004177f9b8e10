// Package metrics provides Prometheus metrics for the Mudra backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	registry *prometheus.Registry

	eventsAccepted  prometheus.Counter
	eventsDebounced prometheus.Counter
	logWriteErrors  prometheus.Counter
	rowsSwept       prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager = NewManager()

// NewManager creates a Manager with its own registry.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	m := &Manager{registry: registry}

	m.eventsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "mudra",
		Name:      "events_accepted_total",
		Help:      "Total number of gesture events accepted by the pipeline",
	})

	m.eventsDebounced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "mudra",
		Name:      "events_debounced_total",
		Help:      "Total number of gesture events rejected by the debounce filter",
	})

	m.logWriteErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "mudra",
		Name:      "log_write_errors_total",
		Help:      "Total number of failed background event log writes",
	})

	m.rowsSwept = auto.NewCounter(prometheus.CounterOpts{
		Namespace: "mudra",
		Name:      "log_rows_swept_total",
		Help:      "Total number of event rows deleted by the retention sweeper",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mudra",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mudra",
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of HTTP request latency by endpoint",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})

	return m
}

// RecordEventAccepted increments the accepted-events counter.
func RecordEventAccepted() {
	globalManager.eventsAccepted.Inc()
}

// RecordEventDebounced increments the debounced-events counter.
func RecordEventDebounced() {
	globalManager.eventsDebounced.Inc()
}

// RecordLogWriteFailure increments the failed-write counter.
func RecordLogWriteFailure() {
	globalManager.logWriteErrors.Inc()
}

// RecordRowsSwept adds to the retention sweep counter.
func RecordRowsSwept(n int64) {
	if n > 0 {
		globalManager.rowsSwept.Add(float64(n))
	}
}

// RecordHTTPRequest increments the request counter for one endpoint.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// ObserveHTTPDuration records the latency of one request in seconds.
func ObserveHTTPDuration(endpoint, method string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
}

// Registry returns the registry backing the global manager, for the
// /metrics endpoint.
func Registry() *prometheus.Registry {
	return globalManager.registry
}
