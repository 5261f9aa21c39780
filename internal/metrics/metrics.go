// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers authentication and HTTP metrics.
type Collector struct {
	registrations prometheus.Counter
	loginSuccess  prometheus.Counter
	loginFailure  prometheus.Counter
	tokenRejected *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
	httpDuration  prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskhub_registrations_total",
			Help: "Total number of successful user registrations",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskhub_login_success_total",
			Help: "Total number of successful logins",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskhub_login_failure_total",
			Help: "Total number of rejected login attempts",
		}),
		tokenRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskhub_token_rejected_total",
			Help: "Total number of rejected bearer tokens by reason",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskhub_http_requests_total",
			Help: "Total number of HTTP responses by status code",
		}, []string{"status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.loginSuccess,
		c.loginFailure,
		c.tokenRejected,
		c.httpStatus,
		c.httpDuration,
	)

	return c
}

// RecordRegistration records a successful registration.
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordLogin records a login attempt outcome.
func (c *Collector) RecordLogin(success bool) {
	if success {
		c.loginSuccess.Inc()
	} else {
		c.loginFailure.Inc()
	}
}

// RecordTokenRejected records a rejected bearer token by reason.
func (c *Collector) RecordTokenRejected(reason string) {
	c.tokenRejected.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records the status code and duration of a response.
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
