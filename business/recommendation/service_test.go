//go:build !integration

package recommendation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"myTrekMarket/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ---- fakes ----

type fakeTrekRepo struct {
	treks []domain.Trek
	err   error
}

// FindApprovedTreks ignores the filter so the service's own exclusion is exercised.
func (f *fakeTrekRepo) FindApprovedTreks(ctx context.Context, filter domain.TrekFilter) ([]domain.Trek, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Trek, len(f.treks))
	copy(out, f.treks)
	return out, nil
}

type fakeInteractionRepo struct {
	reviews     []domain.Review
	bookings    []domain.Booking
	wishlist    *domain.Wishlist
	reviewErr   error
	bookingErr  error
	wishlistErr error
}

func (f *fakeInteractionRepo) FindReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return f.reviews, f.reviewErr
}

func (f *fakeInteractionRepo) FindBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return f.bookings, f.bookingErr
}

func (f *fakeInteractionRepo) FindWishlistByUser(ctx context.Context, userID string) (*domain.Wishlist, error) {
	return f.wishlist, f.wishlistErr
}

type fakeCache struct {
	mu     sync.Mutex
	items  map[string]domain.RecommendationResult
	getErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]domain.RecommendationResult)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (*domain.RecommendationResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	res, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	return &res, true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, result domain.RecommendationResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = result
	c.sets++
	return nil
}

// ---- fixtures ----

func catalog() []domain.Trek {
	return []domain.Trek{
		{ID: "t1", Location: "Pokhara", Difficulty: "moderate", Category: "trekking", Duration: 7, Price: 800, Rating: 4.6, RatingCount: 120, Images: []string{"p1.jpg"}},
		{ID: "t2", Location: "Everest", Difficulty: "extreme", Category: "mountain climbing", Duration: 21, Price: 9000, Rating: 4.9, RatingCount: 40},
		{ID: "t3", Location: "Chitwan", Difficulty: "easy", Category: "wildlife safari", Duration: 3, Price: 250, Rating: 4.2, RatingCount: 300},
		{ID: "t4", Location: "Pokhara", Difficulty: "easy", Category: "hiking", Duration: 1, Price: 30, Rating: 3.9, RatingCount: 15},
		{ID: "t5", Location: "Mustang", Difficulty: "difficult", Category: "trekking", Duration: 12, Price: 2000, Rating: 4.7, RatingCount: 60},
		{ID: "t6", Location: "Langtang", Difficulty: "moderate", Category: "camping", Duration: 5, Price: 400, Rating: 4.1, RatingCount: 25},
	}
}

func trekByID(id string) *domain.Trek {
	for _, t := range catalog() {
		if t.ID == id {
			tt := t
			return &tt
		}
	}
	return nil
}

func newTestService(treks *fakeTrekRepo, inter *fakeInteractionRepo, cache ResultCache) *Service {
	return NewService(treks, inter, cache, DefaultConfig())
}

// ---- UserVector / AverageCatalogVector ----

func TestUserVector_Fallbacks(t *testing.T) {
	avg, _ := CatalogAverage(catalog())

	tests := []struct {
		name  string
		treks *fakeTrekRepo
		inter *fakeInteractionRepo
		want  Vector
	}{
		{
			name:  "no interactions uses catalog average",
			treks: &fakeTrekRepo{treks: catalog()},
			inter: &fakeInteractionRepo{},
			want:  avg,
		},
		{
			name:  "no interactions and empty catalog uses default",
			treks: &fakeTrekRepo{},
			inter: &fakeInteractionRepo{},
			want:  DefaultVector,
		},
		{
			name:  "history error uses catalog average",
			treks: &fakeTrekRepo{treks: catalog()},
			inter: &fakeInteractionRepo{bookingErr: errors.New("timeout")},
			want:  avg,
		},
		{
			name:  "history and catalog errors use default",
			treks: &fakeTrekRepo{err: errors.New("down")},
			inter: &fakeInteractionRepo{reviewErr: errors.New("down")},
			want:  DefaultVector,
		},
		{
			name:  "empty wishlist counts as no interaction",
			treks: &fakeTrekRepo{treks: catalog()},
			inter: &fakeInteractionRepo{wishlist: &domain.Wishlist{UserID: "u1"}},
			want:  avg,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.treks, tt.inter, nil)
			if got := svc.UserVector(context.Background(), "u1"); !vectorsEqual(got, tt.want) {
				t.Errorf("UserVector() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserVector_WeightedCentroid(t *testing.T) {
	a, b, c := trekByID("t1"), trekByID("t2"), trekByID("t3")
	inter := &fakeInteractionRepo{
		reviews:  []domain.Review{{TrekID: a.ID, Trek: a, Rating: 5}},
		bookings: []domain.Booking{{TrekID: b.ID, Trek: b, Status: domain.BookingStatusCompleted}},
		wishlist: &domain.Wishlist{TrekIDs: []string{c.ID}, Treks: []domain.Trek{*c}},
	}
	svc := newTestService(&fakeTrekRepo{treks: catalog()}, inter, nil)

	va, vb, vc := VectorizeTrek(*a), VectorizeTrek(*b), VectorizeTrek(*c)
	got := svc.UserVector(context.Background(), "u1")
	for i := range vectorDim {
		want := (va[i]*5 + vb[i]*4 + vc[i]*2) / 11
		if !approxEqual(got[i], want) {
			t.Errorf("component %d = %f, want %f", i, got[i], want)
		}
	}
}

// ---- Recommend ----

func TestRecommend_ExcludesInteractedTreks(t *testing.T) {
	t1, t2 := trekByID("t1"), trekByID("t2")
	inter := &fakeInteractionRepo{
		reviews:  []domain.Review{{TrekID: "t1", Trek: t1, Rating: 4}},
		bookings: []domain.Booking{{TrekID: "t2", Trek: t2, Status: domain.BookingStatusPending}},
		// t6 is referenced but its trek could not be joined
		wishlist: &domain.Wishlist{TrekIDs: []string{"t3", "t6"}, Treks: []domain.Trek{*trekByID("t3")}},
	}
	svc := newTestService(&fakeTrekRepo{treks: catalog()}, inter, nil)

	recs := svc.Recommend(context.Background(), "u1", 10)

	excluded := map[string]bool{"t1": true, "t2": true, "t3": true, "t6": true}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	for _, r := range recs {
		if excluded[r.ID] {
			t.Errorf("Recommend() returned interacted trek %s", r.ID)
		}
	}
}

func TestRecommend_ScoresAndOrder(t *testing.T) {
	svc := newTestService(&fakeTrekRepo{treks: catalog()}, &fakeInteractionRepo{
		reviews: []domain.Review{{TrekID: "t2", Trek: trekByID("t2"), Rating: 5}},
	}, nil)

	recs := svc.Recommend(context.Background(), "u1", 0)
	if len(recs) != 5 {
		t.Fatalf("len(recs) = %d, want default limit 5", len(recs))
	}

	user := VectorizeTrek(*trekByID("t2"))
	for i, r := range recs {
		wantSim := CosineSimilarity(user, VectorizeTrek(r.Trek))
		if !approxEqual(r.SimilarityScore, wantSim) {
			t.Errorf("%s similarity = %f, want %f", r.ID, r.SimilarityScore, wantSim)
		}
		wantScore := wantSim * r.Rating * math.Log(float64(r.RatingCount)+1)
		if !approxEqual(r.RecommendationScore, wantScore) {
			t.Errorf("%s score = %f, want %f", r.ID, r.RecommendationScore, wantScore)
		}
		if i > 0 && recs[i-1].RecommendationScore < r.RecommendationScore {
			t.Errorf("results not sorted at %d: %f < %f", i, recs[i-1].RecommendationScore, r.RecommendationScore)
		}
	}
}

func TestRecommend_LimitTruncation(t *testing.T) {
	treks := make([]domain.Trek, 0, 10)
	for i := 0; i < 10; i++ {
		treks = append(treks, domain.Trek{
			ID: fmt.Sprintf("t%02d", i), Location: "L", Difficulty: "easy", Category: "hiking",
			Duration: i + 1, Price: float64(100 * (i + 1)), Rating: 4, RatingCount: 10 + i,
		})
	}
	svc := newTestService(&fakeTrekRepo{treks: treks}, &fakeInteractionRepo{}, nil)

	if got := svc.Recommend(context.Background(), "u1", 3); len(got) != 3 {
		t.Errorf("len(Recommend(limit=3)) = %d, want 3", len(got))
	}
	if got := svc.Trending(context.Background(), 3); len(got) != 3 {
		t.Errorf("len(Trending(limit=3)) = %d, want 3", len(got))
	}
}

func TestRecommend_FailSoft(t *testing.T) {
	tests := []struct {
		name  string
		treks *fakeTrekRepo
		inter *fakeInteractionRepo
	}{
		{name: "catalog error", treks: &fakeTrekRepo{err: errors.New("connection refused")}, inter: &fakeInteractionRepo{}},
		{name: "reviews error", treks: &fakeTrekRepo{treks: catalog()}, inter: &fakeInteractionRepo{reviewErr: errors.New("boom")}},
		{name: "wishlist error", treks: &fakeTrekRepo{treks: catalog()}, inter: &fakeInteractionRepo{wishlistErr: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendationFallbacksTotal.WithLabelValues(string(domain.ModeRecommendations), reasonStore))

			svc := newTestService(tt.treks, tt.inter, nil)
			got := svc.Recommend(context.Background(), "u1", 5)
			if got == nil || len(got) != 0 {
				t.Errorf("Recommend() = %v, want empty non-nil slice", got)
			}

			after := testutil.ToFloat64(RecommendationFallbacksTotal.WithLabelValues(string(domain.ModeRecommendations), reasonStore))
			if after != before+1 {
				t.Errorf("fallback counter = %f, want %f", after, before+1)
			}
		})
	}
}

func TestRecommend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(&fakeTrekRepo{treks: catalog()}, &fakeInteractionRepo{}, nil)
	if got := svc.Recommend(ctx, "u1", 5); len(got) != 0 {
		t.Errorf("Recommend(cancelled) len = %d, want 0", len(got))
	}
}

// ---- Trending ----

func TestTrending_Order(t *testing.T) {
	treks := []domain.Trek{
		{ID: "mid", Rating: 4, RatingCount: 50},
		{ID: "low", Rating: 3, RatingCount: 10},
		{ID: "top", Rating: 5, RatingCount: 200},
	}
	svc := newTestService(&fakeTrekRepo{treks: treks}, &fakeInteractionRepo{}, nil)

	got := svc.Trending(context.Background(), 5)
	wantOrder := []string{"top", "mid", "low"}
	if len(got) != len(wantOrder) {
		t.Fatalf("len(Trending()) = %d, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("Trending()[%d] = %s, want %s", i, got[i].ID, id)
		}
		want := got[i].Rating * math.Log(float64(got[i].RatingCount)+1) * float64(got[i].RatingCount) / 100
		if !approxEqual(got[i].TrendingScore, want) {
			t.Errorf("%s trendingScore = %f, want %f", id, got[i].TrendingScore, want)
		}
	}
	if !(got[0].TrendingScore > got[1].TrendingScore && got[1].TrendingScore > got[2].TrendingScore) {
		t.Errorf("trending scores not strictly descending: %f %f %f", got[0].TrendingScore, got[1].TrendingScore, got[2].TrendingScore)
	}
}

func TestTrending_FailSoft(t *testing.T) {
	svc := newTestService(&fakeTrekRepo{err: errors.New("down")}, &fakeInteractionRepo{}, nil)
	if got := svc.Trending(context.Background(), 5); got == nil || len(got) != 0 {
		t.Errorf("Trending() = %v, want empty non-nil slice", got)
	}
}

// ---- PopularDestinations ----

func TestPopularDestinations_Aggregation(t *testing.T) {
	treks := []domain.Trek{
		{ID: "p1", Location: "Pokhara", Rating: 4, RatingCount: 10},
		{ID: "k1", Location: "Kathmandu", Rating: 3, RatingCount: 2, Images: []string{"ktm.jpg"}},
		{ID: "p2", Location: "Pokhara", Rating: 5, RatingCount: 30, Images: []string{"pokhara.jpg", "b.jpg"}},
		{ID: "n1", Location: "Nowhere", Rating: 0, RatingCount: 0},
	}
	svc := newTestService(&fakeTrekRepo{treks: treks}, &fakeInteractionRepo{}, nil)

	got := svc.PopularDestinations(context.Background(), 5)
	if len(got) != 3 {
		t.Fatalf("len(PopularDestinations()) = %d, want 3", len(got))
	}

	pokhara := got[0]
	if pokhara.Location != "Pokhara" {
		t.Fatalf("first destination = %s, want Pokhara", pokhara.Location)
	}
	if pokhara.AvgRating != 4.8 {
		t.Errorf("Pokhara avgRating = %v, want 4.8", pokhara.AvgRating)
	}
	if want := 4.75 * math.Log(41); !approxEqual(pokhara.PopularityScore, want) {
		t.Errorf("Pokhara popularityScore = %f, want %f", pokhara.PopularityScore, want)
	}
	if pokhara.TrekCount != 2 {
		t.Errorf("Pokhara trekCount = %d, want 2", pokhara.TrekCount)
	}
	if pokhara.BestTrek.ID != "p2" {
		t.Errorf("Pokhara bestTrek = %s, want p2", pokhara.BestTrek.ID)
	}
	if pokhara.Image != "pokhara.jpg" {
		t.Errorf("Pokhara image = %s, want pokhara.jpg", pokhara.Image)
	}

	last := got[2]
	if last.Location != "Nowhere" || last.AvgRating != 0 || last.PopularityScore != 0 {
		t.Errorf("unrated destination = %+v, want Nowhere with zero scores", last)
	}
	if last.Image != defaultPlaceholderImage {
		t.Errorf("unrated destination image = %s, want placeholder", last.Image)
	}
}

func TestPopularDestinations_BestTrekTieBreaksByID(t *testing.T) {
	treks := []domain.Trek{
		{ID: "b", Location: "Pokhara", Rating: 5, RatingCount: 1},
		{ID: "a", Location: "Pokhara", Rating: 5, RatingCount: 1},
		{ID: "c", Location: "Pokhara", Rating: 4, RatingCount: 1},
	}
	svc := newTestService(&fakeTrekRepo{treks: treks}, &fakeInteractionRepo{}, nil)

	got := svc.PopularDestinations(context.Background(), 1)
	if len(got) != 1 || got[0].BestTrek.ID != "a" {
		t.Errorf("bestTrek = %+v, want a", got)
	}
}

func TestPopularDestinations_FailSoft(t *testing.T) {
	svc := newTestService(&fakeTrekRepo{err: errors.New("down")}, &fakeInteractionRepo{}, nil)
	if got := svc.PopularDestinations(context.Background(), 5); got == nil || len(got) != 0 {
		t.Errorf("PopularDestinations() = %v, want empty non-nil slice", got)
	}
}

// ---- Query ----

func TestQuery_Errors(t *testing.T) {
	svc := newTestService(&fakeTrekRepo{treks: catalog()}, &fakeInteractionRepo{}, nil)

	tests := []struct {
		name    string
		query   domain.RecommendationQuery
		wantErr error
	}{
		{name: "missing user", query: domain.RecommendationQuery{Mode: domain.ModeRecommendations}, wantErr: ErrUserIDRequired},
		{name: "blank user", query: domain.RecommendationQuery{Mode: domain.ModeRecommendations, UserID: "  "}, wantErr: ErrUserIDRequired},
		{name: "unknown mode", query: domain.RecommendationQuery{Mode: "random"}, wantErr: ErrUnknownMode},
		{name: "trending needs no user", query: domain.RecommendationQuery{Mode: domain.ModeTrending}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Query(context.Background(), tt.query)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Query() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuery_DispatchesByMode(t *testing.T) {
	svc := newTestService(&fakeTrekRepo{treks: catalog()}, &fakeInteractionRepo{}, nil)
	ctx := context.Background()

	res, err := svc.Query(ctx, domain.RecommendationQuery{Mode: domain.ModeRecommendations, UserID: "u1", Limit: 2})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(res.Recommended) != 2 || res.Trending != nil || res.Destinations != nil {
		t.Errorf("recommendations result = %+v", res)
	}

	res, _ = svc.Query(ctx, domain.RecommendationQuery{Mode: domain.ModeTrending, Limit: 500})
	if len(res.Trending) != len(catalog()) {
		t.Errorf("len(trending) = %d, want %d", len(res.Trending), len(catalog()))
	}

	res, _ = svc.Query(ctx, domain.RecommendationQuery{Mode: domain.ModePopularDestinations})
	if len(res.Destinations) != 5 {
		t.Errorf("len(destinations) = %d, want 5", len(res.Destinations))
	}
}

func TestQuery_UsesCache(t *testing.T) {
	repo := &fakeTrekRepo{treks: catalog()}
	cache := newFakeCache()
	svc := newTestService(repo, &fakeInteractionRepo{}, cache)
	ctx := context.Background()
	q := domain.RecommendationQuery{Mode: domain.ModeTrending, Limit: 3}

	first, err := svc.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	// the store is now down; the cached result must still be served
	repo.err = errors.New("down")
	second, err := svc.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(second.Trending) != len(first.Trending) {
		t.Errorf("cached len = %d, want %d", len(second.Trending), len(first.Trending))
	}
}

func TestQuery_DoesNotCacheEmptyResults(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(&fakeTrekRepo{err: errors.New("down")}, &fakeInteractionRepo{}, cache)

	res, err := svc.Query(context.Background(), domain.RecommendationQuery{Mode: domain.ModePopularDestinations})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if res.Len() != 0 {
		t.Errorf("Len() = %d, want 0", res.Len())
	}
	if cache.sets != 0 {
		t.Errorf("cache sets = %d, want 0", cache.sets)
	}
}

func TestQuery_CacheErrorIsIgnored(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	svc := newTestService(&fakeTrekRepo{treks: catalog()}, &fakeInteractionRepo{}, cache)

	res, err := svc.Query(context.Background(), domain.RecommendationQuery{Mode: domain.ModeTrending})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(res.Trending) != 5 {
		t.Errorf("len(trending) = %d, want 5", len(res.Trending))
	}
}

func TestQuery_RecommendationsBypassCache(t *testing.T) {
	inter := &fakeInteractionRepo{}
	cache := newFakeCache()
	svc := newTestService(&fakeTrekRepo{treks: catalog()}, inter, cache)
	ctx := context.Background()
	q := domain.RecommendationQuery{Mode: domain.ModeRecommendations, UserID: "u1", Limit: 10}

	first, err := svc.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !containsTrek(first.Recommended, "t1") {
		t.Fatalf("first result %v does not contain t1", first.Recommended)
	}

	// the user books t1; the next call must exclude it straight away
	inter.bookings = []domain.Booking{{TrekID: "t1", Trek: trekByID("t1"), Status: domain.BookingStatusConfirmed}}

	second, err := svc.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if containsTrek(second.Recommended, "t1") {
		t.Errorf("booked trek t1 still recommended: %v", second.Recommended)
	}
	if cache.sets != 0 {
		t.Errorf("cache sets = %d, want 0", cache.sets)
	}
}

func TestQuery_LargeLimitIsNotCapped(t *testing.T) {
	treks := make([]domain.Trek, 0, 80)
	for i := 0; i < 80; i++ {
		treks = append(treks, domain.Trek{
			ID: fmt.Sprintf("t%d", i), Location: "Pokhara", Difficulty: "easy", Category: "hiking",
			Duration: 2, Price: 100, Rating: 4, RatingCount: i + 1,
		})
	}
	svc := newTestService(&fakeTrekRepo{treks: treks}, &fakeInteractionRepo{}, nil)
	ctx := context.Background()

	res, _ := svc.Query(ctx, domain.RecommendationQuery{Mode: domain.ModeTrending, Limit: 70})
	if len(res.Trending) != 70 {
		t.Errorf("len(trending) = %d, want 70", len(res.Trending))
	}

	res, _ = svc.Query(ctx, domain.RecommendationQuery{Mode: domain.ModeRecommendations, UserID: "u1", Limit: 100})
	if len(res.Recommended) != 80 {
		t.Errorf("len(recommended) = %d, want 80", len(res.Recommended))
	}
}

func TestCacheKey(t *testing.T) {
	if a, b := cacheKey(domain.ModeTrending, 5), cacheKey(domain.ModeTrending, 10); a == b {
		t.Errorf("trending keys collide across limits: %s", a)
	}
	if cacheable(domain.ModeRecommendations) {
		t.Error("cacheable(recommendations) = true, want false")
	}
	if !cacheable(domain.ModeTrending) || !cacheable(domain.ModePopularDestinations) {
		t.Error("shared modes are not cacheable")
	}
}

func containsTrek(recs []domain.RecommendedTrek, id string) bool {
	for _, r := range recs {
		if r.ID == id {
			return true
		}
	}
	return false
}

func TestConcurrentQueries(t *testing.T) {
	svc := newTestService(&fakeTrekRepo{treks: catalog()}, &fakeInteractionRepo{
		reviews: []domain.Review{{TrekID: "t1", Trek: trekByID("t1"), Rating: 3}},
	}, newFakeCache())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Query(context.Background(), domain.RecommendationQuery{
				Mode:   domain.ModeRecommendations,
				UserID: fmt.Sprintf("u%d", i%3),
			})
			if err != nil {
				t.Errorf("Query() error = %v", err)
				return
			}
			for _, r := range res.Recommended {
				if r.ID == "t1" {
					t.Errorf("reviewed trek t1 recommended")
				}
			}
		}(i)
	}
	wg.Wait()
}
