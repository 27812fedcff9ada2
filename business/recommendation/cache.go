package recommendation

import (
	"context"
	"fmt"

	"myTrekMarket/domain"
	"myTrekMarket/pkg/logger"
)

// cacheable reports whether a mode's result is the same for every caller.
// Personal recommendations must drop a trek as soon as the user interacts
// with it, so they are always computed fresh.
func cacheable(mode domain.RecommendationMode) bool {
	return mode != domain.ModeRecommendations
}

func cacheKey(mode domain.RecommendationMode, limit int) string {
	return fmt.Sprintf("reco:%s:%d", mode, limit)
}

func (s *Service) cachedResult(ctx context.Context, key string) (domain.RecommendationResult, bool) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return domain.RecommendationResult{}, false
	}

	res, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		RecommendationCacheTotal.WithLabelValues(cacheError).Inc()
		logger.Warn("recommendation cache read failed", "key", key, err)
		return domain.RecommendationResult{}, false
	}
	if !ok || res == nil {
		RecommendationCacheTotal.WithLabelValues(cacheMiss).Inc()
		return domain.RecommendationResult{}, false
	}

	RecommendationCacheTotal.WithLabelValues(cacheHit).Inc()
	return *res, true
}

// storeResult skips empty results so a transient store failure is not served
// from cache for a whole TTL.
func (s *Service) storeResult(ctx context.Context, key string, result domain.RecommendationResult) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 || result.Len() == 0 {
		return
	}

	if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
		RecommendationCacheTotal.WithLabelValues(cacheError).Inc()
		logger.Warn("recommendation cache write failed", "key", key, err)
	}
}
