// Package metrics collects and exposes Prometheus metrics for the
// login gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records login flow outcomes.
type Collector struct {
	loginStarted    *prometheus.CounterVec
	loginSucceeded  *prometheus.CounterVec
	loginFailed     *prometheus.CounterVec
	exchangeLatency prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authgate_login_started_total",
			Help: "Login flows started, by provider.",
		}, []string{"provider"}),
		loginSucceeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authgate_login_succeeded_total",
			Help: "Login flows completed with a session issued, by provider.",
		}, []string{"provider"}),
		loginFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authgate_login_failed_total",
			Help: "Login flows that ended in a failure redirect, by provider and reason.",
		}, []string{"provider", "reason"}),
		exchangeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "authgate_provider_exchange_seconds",
			Help:    "Latency of provider code exchanges in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.loginStarted, c.loginSucceeded, c.loginFailed, c.exchangeLatency)
	return c
}

// RecordLoginStarted counts a flow entering the STARTED state.
func (c *Collector) RecordLoginStarted(provider string) {
	c.loginStarted.WithLabelValues(provider).Inc()
}

// RecordLoginSucceeded counts a flow that issued a session.
func (c *Collector) RecordLoginSucceeded(provider string) {
	c.loginSucceeded.WithLabelValues(provider).Inc()
}

// RecordLoginFailed counts a flow that redirected with a failure flag.
func (c *Collector) RecordLoginFailed(provider, reason string) {
	c.loginFailed.WithLabelValues(provider, reason).Inc()
}

// RecordExchangeLatency observes one provider exchange duration.
func (c *Collector) RecordExchangeLatency(d time.Duration) {
	c.exchangeLatency.Observe(d.Seconds())
}

// Handler returns the HTTP handler exposing the registry's metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
