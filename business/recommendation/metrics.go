package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	reasonStore   = "store_error"
	reasonHistory = "history_error"
	reasonCatalog = "catalog_error"

	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

var (
	RecommendationFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallbacks_total",
			Help: "Count of recommendation calls that degraded to a default, by mode and reason.",
		},
		[]string{"mode", "reason"},
	)

	RecommendationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_lookups_total",
			Help: "Recommendation result cache lookups by result (hit, miss, error).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RecommendationFallbacksTotal, RecommendationCacheTotal)
}
