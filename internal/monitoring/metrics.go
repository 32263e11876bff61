// Package monitoring collects Prometheus metrics for the graphing engine.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engine metrics
	FunctionsActive prometheus.Gauge
	FunctionsTotal  prometheus.Counter
	Evaluations     prometheus.Counter
	ScansTotal      *prometheus.CounterVec
	ScanDuration    *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		FunctionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_functions_active",
				Help: "Number of functions currently in the collection",
			},
		),
		FunctionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_functions_created_total",
				Help: "Total number of functions ever created",
			},
		),
		Evaluations: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "engine_evaluations_total",
				Help: "Total number of point evaluations served",
			},
		),
		ScansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_scans_total",
				Help: "Total number of interval scans by kind",
			},
			[]string{"kind"},
		),
		ScanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "engine_scan_duration_seconds",
				Help:    "Interval scan duration in seconds by kind",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"kind"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_ws_messages_total",
				Help: "Total WebSocket messages by type",
			},
			[]string{"type"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "engine_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordScan records a completed interval scan.
func (m *Metrics) RecordScan(kind string, duration time.Duration) {
	m.ScansTotal.WithLabelValues(kind).Inc()
	m.ScanDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// Timer measures scan duration.
type Timer struct {
	start   time.Time
	metrics *Metrics
	kind    string
}

// NewTimer starts a timer for a scan of the given kind.
func NewTimer(metrics *Metrics, kind string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, kind: kind}
}

// Stop stops the timer and records the duration.
func (t *Timer) Stop() {
	t.metrics.RecordScan(t.kind, time.Since(t.start))
}
