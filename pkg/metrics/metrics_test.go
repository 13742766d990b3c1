package metrics_test

import (
	"testing"

	"github.com/Gunvolt24/weather_dash/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMustRegister_IsIdempotent(t *testing.T) {
	// Повторный вызов не паникует (bootstrap и тесты вызывают его независимо).
	metrics.MustRegister()
	metrics.MustRegister()

	metrics.StaleOutcomes.Add(0)
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "weather_session_stale_outcomes_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("stale outcomes counter must be registered")
	}
}

func TestFetchOutcomes_ByKind(t *testing.T) {
	tests := []struct{ outcome, kind string }{
		{"hit", ""},
		{"fetched", ""},
		{"failed", "not_found"},
		{"failed", "network"},
	}

	for _, tt := range tests {
		c := metrics.FetchOutcomes.WithLabelValues(tt.outcome, tt.kind)
		before := testutil.ToFloat64(c)
		c.Inc()
		if got := testutil.ToFloat64(c); got != before+1 {
			t.Fatalf("FetchOutcomes(%s,%s): got=%v want=%v", tt.outcome, tt.kind, got, before+1)
		}
	}
}

func TestCacheOps_CountersByLabel(t *testing.T) {
	hitBefore := testutil.ToFloat64(metrics.CacheOps.WithLabelValues("hit"))
	evictedBefore := testutil.ToFloat64(metrics.CacheOps.WithLabelValues("evicted"))

	metrics.CacheOps.WithLabelValues("hit").Inc()
	metrics.CacheOps.WithLabelValues("hit").Inc()

	if got := testutil.ToFloat64(metrics.CacheOps.WithLabelValues("hit")); got != hitBefore+2 {
		t.Fatalf("CacheOps(hit): got=%v want=%v", got, hitBefore+2)
	}
	if got := testutil.ToFloat64(metrics.CacheOps.WithLabelValues("evicted")); got != evictedBefore {
		t.Fatalf("CacheOps(evicted): got=%v want=%v", got, evictedBefore)
	}
}

func TestProviderLatency_Observe(t *testing.T) {
	metrics.ProviderLatency.WithLabelValues("metrics-test").Observe(0.05)

	if n := testutil.CollectAndCount(metrics.ProviderLatency, "weather_provider_request_duration_seconds"); n < 1 {
		t.Fatalf("ProviderLatency: want at least one series, got %d", n)
	}
}

func TestCacheSize_GaugeSet(t *testing.T) {
	cur := testutil.ToFloat64(metrics.CacheSize)
	defer metrics.CacheSize.Set(cur) // вернуть как было

	metrics.CacheSize.Set(10)
	if got := testutil.ToFloat64(metrics.CacheSize); got != 10 {
		t.Fatalf("CacheSize: got=%v want=10", got)
	}
}
