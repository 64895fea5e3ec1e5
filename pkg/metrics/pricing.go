package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ResolutionMetrics records outcomes and timings for price resolution calls.
type ResolutionMetrics struct {
	duration *prometheus.HistogramVec
	resolved *prometheus.CounterVec
	noPrice  *prometheus.CounterVec
	cacheHit *prometheus.CounterVec
}

// NewResolutionMetrics registers the pricing metrics on the provided registerer.
func NewResolutionMetrics(reg prometheus.Registerer) *ResolutionMetrics {
	if reg == nil {
		return &ResolutionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "price_resolution_duration_seconds",
		Help:    "Duration of price resolution calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolution_resolved_total",
		Help: "Resolutions that produced a price.",
	}, []string{"operation"})
	noPrice := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolution_no_price_total",
		Help: "Resolutions with no eligible candidate.",
	}, []string{"operation"})
	cacheHit := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_candidate_cache_requests_total",
		Help: "Candidate cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(duration, resolved, noPrice, cacheHit)
	return &ResolutionMetrics{
		duration: duration,
		resolved: resolved,
		noPrice:  noPrice,
		cacheHit: cacheHit,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *ResolutionMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncResolved increments the resolved counter for the named operation.
func (m *ResolutionMetrics) IncResolved(operation string) {
	if m == nil || m.resolved == nil {
		return
	}
	m.resolved.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncNoPrice increments the no-price counter for the named operation.
func (m *ResolutionMetrics) IncNoPrice(operation string) {
	if m == nil || m.noPrice == nil {
		return
	}
	m.noPrice.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncCacheHit counts a candidate cache hit.
func (m *ResolutionMetrics) IncCacheHit() {
	if m == nil || m.cacheHit == nil {
		return
	}
	m.cacheHit.WithLabelValues("hit").Inc()
}

// IncCacheMiss counts a candidate cache miss.
func (m *ResolutionMetrics) IncCacheMiss() {
	if m == nil || m.cacheHit == nil {
		return
	}
	m.cacheHit.WithLabelValues("miss").Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
