package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestResolutionMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewResolutionMetrics(reg)

	m.ObserveDuration("resolve", 250*time.Millisecond)
	m.IncResolved("resolve")
	m.IncNoPrice("resolve")
	m.IncCacheHit()
	m.IncCacheMiss()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	if fam := byName["price_resolution_resolved_total"]; fam == nil || fam.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("resolved counter not exported: %v", fam)
	}
	if fam := byName["price_resolution_no_price_total"]; fam == nil || fam.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("no-price counter not exported: %v", fam)
	}
	if fam := byName["price_resolution_duration_seconds"]; fam == nil || fam.GetMetric()[0].GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("duration histogram not exported: %v", fam)
	}
	if fam := byName["price_candidate_cache_requests_total"]; fam == nil || len(fam.GetMetric()) != 2 {
		t.Fatalf("cache counter should carry hit and miss series: %v", fam)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewResolutionMetrics(nil)
	m.IncResolved("resolve")
	m.ObserveDuration("resolve", time.Second)
	m.IncCacheHit()
}
