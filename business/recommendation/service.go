package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"myTrekMarket/domain"
	"myTrekMarket/pkg/logger"
	"myTrekMarket/pkg/metrics"
)

var (
	ErrUserIDRequired = errors.New("user id is required for recommendations")
	ErrUnknownMode    = errors.New("unknown recommendation mode")
)

// ---- Repository interfaces ----

type TrekRepository interface {
	FindApprovedTreks(ctx context.Context, filter domain.TrekFilter) ([]domain.Trek, error)
}

// InteractionRepository returns interactions with their treks joined.
type InteractionRepository interface {
	FindReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error)
	FindBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	FindWishlistByUser(ctx context.Context, userID string) (*domain.Wishlist, error)
}

// ResultCache stores finished results for a bounded time.
type ResultCache interface {
	Get(ctx context.Context, key string) (*domain.RecommendationResult, bool, error)
	Set(ctx context.Context, key string, result domain.RecommendationResult, ttl time.Duration) error
}

// ---- Service ----

// Service is the recommendation engine. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	trekRepo        TrekRepository
	interactionRepo InteractionRepository
	cache           ResultCache
	cfg             Config
}

// NewService wires the engine. cache may be nil.
func NewService(
	trekRepo TrekRepository,
	interactionRepo InteractionRepository,
	cache ResultCache,
	cfg Config,
) *Service {
	return &Service{
		trekRepo:        trekRepo,
		interactionRepo: interactionRepo,
		cache:           cache,
		cfg:             cfg.withDefaults(),
	}
}

// UserVector is the weighted centroid of the user's interactions. Users with
// no weighted interactions, and any load failure, get the catalog average.
func (s *Service) UserVector(ctx context.Context, userID string) Vector {
	history, err := s.loadHistory(ctx, userID)
	if err != nil {
		s.logFallback(ctx, domain.ModeRecommendations, reasonHistory, err)
		return s.AverageCatalogVector(ctx)
	}

	if v, ok := WeightedCentroid(history); ok {
		return v
	}

	return s.AverageCatalogVector(ctx)
}

// AverageCatalogVector averages every approved trek, or returns DefaultVector
// when the catalog is empty or unreachable.
func (s *Service) AverageCatalogVector(ctx context.Context) Vector {
	treks, err := s.trekRepo.FindApprovedTreks(ctx, domain.TrekFilter{})
	if err != nil {
		s.logFallback(ctx, domain.ModeRecommendations, reasonCatalog, err)
		return DefaultVector
	}

	v, _ := CatalogAverage(treks)
	return v
}

// Recommend returns up to limit approved treks the user has not interacted
// with, ranked by similarity boosted by rating and rating volume. It never
// fails; errors yield an empty list.
func (s *Service) Recommend(ctx context.Context, userID string, limit int) []domain.RecommendedTrek {
	recs, err := s.recommend(ctx, userID, s.cfg.normalizeLimit(limit))
	if err != nil {
		s.logFallback(ctx, domain.ModeRecommendations, reasonStore, err)
		return []domain.RecommendedTrek{}
	}
	return recs
}

func (s *Service) recommend(ctx context.Context, userID string, limit int) ([]domain.RecommendedTrek, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	history, err := s.loadHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	excluded := history.InteractedTrekIDs()

	candidates, err := s.trekRepo.FindApprovedTreks(ctx, domain.TrekFilter{ExcludeIDs: excluded})
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	// the store filter is trusted, but the exclusion must hold regardless
	candidates = withoutIDs(candidates, excluded)

	userVec, ok := WeightedCentroid(history)
	if !ok {
		if len(excluded) == 0 {
			// nothing excluded: the candidates are the whole catalog
			userVec, _ = CatalogAverage(candidates)
		} else {
			userVec = s.AverageCatalogVector(ctx)
		}
	}

	logger.Debug("recommendation_recommend",
		"trace_id", logger.TraceIDFromContext(ctx),
		"user_id", userID,
		"limit", limit,
		"reviews", len(history.Reviews),
		"bookings", len(history.Bookings),
		"excluded", len(excluded),
		"candidate_count", len(candidates),
		"cold_start", !ok,
	)

	return rankRecommendations(userVec, candidates, limit), nil
}

// Trending ranks approved treks by rating and rating volume.
func (s *Service) Trending(ctx context.Context, limit int) []domain.TrendingTrek {
	limit = s.cfg.normalizeLimit(limit)

	treks, err := s.trekRepo.FindApprovedTreks(ctx, domain.TrekFilter{})
	if err != nil {
		s.logFallback(ctx, domain.ModeTrending, reasonStore, err)
		return []domain.TrendingTrek{}
	}

	return rankTrending(treks, limit)
}

// PopularDestinations ranks locations by their ratings-weighted average.
func (s *Service) PopularDestinations(ctx context.Context, limit int) []domain.DestinationSummary {
	limit = s.cfg.normalizeLimit(limit)

	treks, err := s.trekRepo.FindApprovedTreks(ctx, domain.TrekFilter{})
	if err != nil {
		s.logFallback(ctx, domain.ModePopularDestinations, reasonStore, err)
		return []domain.DestinationSummary{}
	}

	return rankDestinations(treks, limit, s.cfg.PlaceholderImage)
}

// Query is the single entry point for the transport layer. Its only errors
// are ErrUnknownMode and ErrUserIDRequired; data failures give empty lists.
func (s *Service) Query(ctx context.Context, q domain.RecommendationQuery) (domain.RecommendationResult, error) {
	if !q.Mode.Valid() {
		return domain.RecommendationResult{}, fmt.Errorf("%w: %q", ErrUnknownMode, q.Mode)
	}

	userID := strings.TrimSpace(q.UserID)
	if q.Mode == domain.ModeRecommendations && userID == "" {
		return domain.RecommendationResult{}, ErrUserIDRequired
	}

	limit := s.cfg.normalizeLimit(q.Limit)
	mode := string(q.Mode)

	start := time.Now()
	metrics.RecommendationRequests.WithLabelValues(mode).Inc()
	defer func() {
		metrics.RecommendationLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	useCache := cacheable(q.Mode)
	key := cacheKey(q.Mode, limit)
	if useCache {
		if cached, ok := s.cachedResult(ctx, key); ok {
			return cached, nil
		}
	}

	result := domain.RecommendationResult{Mode: q.Mode}
	switch q.Mode {
	case domain.ModeRecommendations:
		result.Recommended = s.Recommend(ctx, userID, limit)
	case domain.ModeTrending:
		result.Trending = s.Trending(ctx, limit)
	case domain.ModePopularDestinations:
		result.Destinations = s.PopularDestinations(ctx, limit)
	}

	if useCache {
		s.storeResult(ctx, key, result)
	}

	return result, nil
}

func withoutIDs(treks []domain.Trek, ids []string) []domain.Trek {
	if len(ids) == 0 {
		return treks
	}

	skip := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}

	out := make([]domain.Trek, 0, len(treks))
	for _, t := range treks {
		if _, ok := skip[t.ID]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *Service) logFallback(ctx context.Context, mode domain.RecommendationMode, reason string, err error) {
	RecommendationFallbacksTotal.WithLabelValues(string(mode), reason).Inc()
	logger.Warn("recommendation fallback",
		"trace_id", logger.TraceIDFromContext(ctx),
		"mode", string(mode),
		"reason", reason,
		err,
	)
}
