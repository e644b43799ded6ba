// Package metrics tracks gateway metrics and serves them in Prometheus
// exposition format. It uses a custom prometheus.Registry for isolation
// and testability.
package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the gateway's collector set.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	rateLimitHits   prometheus.Counter
	sourceChanges   prometheus.Counter
	buildInfo       *prometheus.GaugeVec
}

// New creates a Metrics collector with a custom Prometheus registry.
// All metric families are pre-registered with HELP and TYPE metadata.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wsgate_requests_total",
			Help: "Total number of requests handled, by local route, method, and relayed status.",
		}, []string{"route", "method", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wsgate_request_duration_seconds",
			Help:    "End-to-end request duration in seconds, including the upstream call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),

		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wsgate_upstream_errors_total",
			Help: "Total number of outbound calls that failed at the transport level.",
		}, []string{"route"}),

		rateLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wsgate_rate_limit_hits_total",
			Help: "Total number of requests rejected by the global rate limiter.",
		}),

		sourceChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wsgate_source_changes_total",
			Help: "Times the url source file changed on disk after startup (routes are fixed until restart).",
		}),

		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wsgate_build_info",
			Help: "Build information about the wsgate binary. Value is always 1.",
		}, []string{"version", "go_version"}),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.upstreamErrors,
		m.rateLimitHits,
		m.sourceChanges,
		m.buildInfo,
	)

	return m
}

// SetBuildInfo records the binary version gauge.
func (m *Metrics) SetBuildInfo(version string) {
	m.buildInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// RecordRequest records one handled request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordUpstreamError records a transport-level outbound failure.
func (m *Metrics) RecordUpstreamError(route string) {
	m.upstreamErrors.WithLabelValues(route).Inc()
}

// RecordRateLimitHit records a request rejected by the global limiter.
func (m *Metrics) RecordRateLimitHit() {
	m.rateLimitHits.Inc()
}

// RecordSourceChange records an on-disk change to the url source file.
func (m *Metrics) RecordSourceChange() {
	m.sourceChanges.Inc()
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}
