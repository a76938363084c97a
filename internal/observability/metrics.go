package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "garage_service"

// Metrics holds the prometheus collectors exported on /metrics.
type Metrics struct {
	gatherer       prometheus.Gatherer
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	reviews        *prometheus.CounterVec
	nearbySearches prometheus.Counter
	nearbyResults  prometheus.Histogram
	cacheLookups   *prometheus.CounterVec
}

// NewMetrics registers every collector on reg. Pass prometheus.NewRegistry() in tests.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors rendered to callers by code.",
		}, []string{"route", "method", "code"}),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_submitted_total",
			Help:      "Review submissions by outcome.",
		}, []string{"outcome"}),
		nearbySearches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nearby_searches_total",
			Help:      "Nearby-garage searches served.",
		}),
		nearbyResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "nearby_search_results",
			Help:      "Garages returned per nearby search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nearby_cache_lookups_total",
			Help:      "Nearby cache lookups by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.requests,
		m.latency,
		m.errors,
		m.reviews,
		m.nearbySearches,
		m.nearbyResults,
		m.cacheLookups,
	)
	return m
}

// RecordRequest counts a completed request and observes its latency.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordReview counts a review submission; outcome is "accepted" or an error code.
func (m *Metrics) RecordReview(outcome string) {
	if m == nil {
		return
	}
	m.reviews.WithLabelValues(outcome).Inc()
}

// RecordNearbySearch counts a search and the size of its result.
func (m *Metrics) RecordNearbySearch(results int) {
	if m == nil {
		return
	}
	m.nearbySearches.Inc()
	m.nearbyResults.Observe(float64(results))
}

// RecordCacheLookup counts a nearby cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
