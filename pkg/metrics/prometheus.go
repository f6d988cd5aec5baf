package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects b3dash metrics on its own registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	validations  *prometheus.CounterVec
	accepted     *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New creates a recorder with all collectors registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "b3dash_ticker_validations_total",
				Help: "Ticker liveness checks by verdict and rejection reason",
			},
			[]string{"verdict", "reason"},
		),
		accepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "b3dash_tickers_accepted_total",
				Help: "Tickers accepted into a selection, by tier",
			},
			[]string{"tier"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "b3dash_ticker_cache_lookups_total",
				Help: "Validation cache lookups by result",
			},
			[]string{"result"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "b3dash_http_request_duration_seconds",
				Help:    "Dashboard API request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	r.registry.MustRegister(r.validations, r.accepted, r.cacheLookups, r.httpLatency)
	return r
}

// RecordValidation records one liveness verdict
func (r *Recorder) RecordValidation(valid bool, reason string) {
	if r == nil {
		return
	}
	verdict := "valid"
	if !valid {
		verdict = "invalid"
	}
	r.validations.WithLabelValues(verdict, reason).Inc()
}

// RecordAccepted records a ticker accepted from a tier
func (r *Recorder) RecordAccepted(tier string) {
	if r == nil {
		return
	}
	r.accepted.WithLabelValues(tier).Inc()
}

// RecordCacheLookup records a validation cache hit or miss
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records a served API request
func (r *Recorder) ObserveHTTP(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
