package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cache effectiveness, variant resolution outcomes
// and HTTP latency for the storefront API.
type StorefrontMetrics struct {
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheErrors *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_hits_total",
		Help: "Read-through cache hits by cache name.",
	}, []string{"cache"})
	cacheMisses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_misses_total",
		Help: "Read-through cache misses by cache name.",
	}, []string{"cache"})
	cacheErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_errors_total",
		Help: "Cache backend failures by cache name.",
	}, []string{"cache"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_variant_resolutions_total",
		Help: "Variant selection outcomes by resolver state.",
	}, []string{"state"})
	requests := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
	reg.MustRegister(cacheHits, cacheMisses, cacheErrors, resolutions, requests)
	return &StorefrontMetrics{
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		cacheErrors: cacheErrors,
		resolutions: resolutions,
		requests:    requests,
	}
}

// CacheHit increments the hit counter for the named cache.
func (m *StorefrontMetrics) CacheHit(name string) {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.WithLabelValues(normalizeLabel(name)).Inc()
}

// CacheMiss increments the miss counter for the named cache.
func (m *StorefrontMetrics) CacheMiss(name string) {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.WithLabelValues(normalizeLabel(name)).Inc()
}

// CacheError increments the backend failure counter for the named cache.
func (m *StorefrontMetrics) CacheError(name string) {
	if m == nil || m.cacheErrors == nil {
		return
	}
	m.cacheErrors.WithLabelValues(normalizeLabel(name)).Inc()
}

// ObserveResolution counts a resolver outcome.
func (m *StorefrontMetrics) ObserveResolution(state string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(state)).Inc()
}

// ObserveRequest records the duration of one HTTP request.
func (m *StorefrontMetrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(route), method, strconv.Itoa(status)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
