package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of a full recommendation query, cache lookup included
	RecommendationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_query_latency_seconds",
		Help:    "Latency of recommendation queries by mode",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	// Total number of recommendation queries served
	RecommendationRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_query_requests_total",
		Help: "Total number of recommendation queries by mode",
	}, []string{"mode"})

	// 0 closed, 1 half-open, 2 open
	StoreBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "store_circuit_breaker_state",
		Help: "Circuit breaker state per data store (0 closed, 1 half-open, 2 open)",
	}, []string{"breaker"})
)

func Init() {
	prometheus.MustRegister(
		RecommendationLatency,
		RecommendationRequests,
		StoreBreakerState,
	)
}
