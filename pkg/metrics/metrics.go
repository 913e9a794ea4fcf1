package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics holds the collectors shared by the HTTP layer and domain services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpDuration     *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	debounceCalls    *prometheus.CounterVec
	loginAttempts    *prometheus.CounterVec
}

// New registers the storefront collectors on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of calls to the remote commerce API in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Calls to the remote commerce API by operation and status.",
		}, []string{"operation", "status"}),
		debounceCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_debounce_events_total",
			Help:      "Debounced cart quantity events (scheduled, coalesced, flushed).",
		}, []string{"event"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Credential sign-in attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.httpDuration,
		m.httpRequests,
		m.upstreamDuration,
		m.upstreamRequests,
		m.debounceCalls,
		m.loginAttempts,
	)
	return m
}

// ObserveHTTP records a finished inbound request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}
	route = normalizeLabel(route)
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveUpstream records a call to the remote API. status is 0 when no response arrived.
func (m *Metrics) ObserveUpstream(operation string, status int, duration time.Duration) {
	if m == nil || m.upstreamRequests == nil {
		return
	}
	operation = normalizeLabel(operation)
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.upstreamRequests.WithLabelValues(operation, label).Inc()
}

// IncDebounce counts a debouncer event.
func (m *Metrics) IncDebounce(event string) {
	if m == nil || m.debounceCalls == nil {
		return
	}
	m.debounceCalls.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncLogin counts a finished sign-in attempt.
func (m *Metrics) IncLogin(outcome string) {
	if m == nil || m.loginAttempts == nil {
		return
	}
	m.loginAttempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
