package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_cache_operations_total",
			Help: "Weather cache operations",
		},
		[]string{"op"}, // hit|miss|expired|evicted|removed|cleared
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "weather_cache_size",
			Help: "Number of places currently in cache",
		},
	)
)

var (
	FetchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_outcomes_total",
			Help: "Fetch orchestrator outcomes",
		},
		[]string{"outcome", "kind"}, // hit|fetched|failed; kind — вид ошибки или ""
	)
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_provider_request_duration_seconds",
			Help:    "Weather provider round-trip latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	StaleOutcomes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_session_stale_outcomes_total",
			Help: "Outcomes discarded because a newer request was issued",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует коллекторы в глобальном реестре (повторный вызов безопасен).
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(CacheOps, CacheSize, FetchOutcomes, ProviderLatency, StaleOutcomes)
	})
}
