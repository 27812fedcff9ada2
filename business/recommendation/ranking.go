package recommendation

import (
	"math"
	"sort"

	"myTrekMarket/domain"
)

// rankRecommendations scores candidates against the user vector with
//
//	score = cos(user, trek) * rating * ln(ratingCount+1)
//
// and keeps the top limit. Equal scores keep catalog order.
func rankRecommendations(user Vector, candidates []domain.Trek, limit int) []domain.RecommendedTrek {
	out := make([]domain.RecommendedTrek, 0, len(candidates))
	for _, t := range candidates {
		sim := CosineSimilarity(user, VectorizeTrek(t))
		out = append(out, domain.RecommendedTrek{
			Trek:                t,
			SimilarityScore:     sim,
			RecommendationScore: sim * finite(t.Rating) * log1p(float64(t.RatingCount)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecommendationScore > out[j].RecommendationScore
	})

	return truncate(out, limit)
}

// trendingScore = rating * ln(ratingCount+1) * ratingCount/100
func trendingScore(t domain.Trek) float64 {
	count := float64(t.RatingCount)
	if count < 0 {
		count = 0
	}
	return finite(t.Rating) * log1p(count) * (count / 100)
}

func rankTrending(treks []domain.Trek, limit int) []domain.TrendingTrek {
	out := make([]domain.TrendingTrek, 0, len(treks))
	for _, t := range treks {
		out = append(out, domain.TrendingTrek{
			Trek:          t,
			TrendingScore: trendingScore(t),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrendingScore > out[j].TrendingScore
	})

	return truncate(out, limit)
}

type destinationStats struct {
	location    string
	treks       []domain.Trek
	ratingSum   float64
	ratingCount int
	best        domain.Trek
}

// rankDestinations groups treks by location (first-seen order) and ranks the
// groups by avgRating * ln(totalRatings+1), where avgRating is the mean
// rating weighted by each trek's rating count.
func rankDestinations(treks []domain.Trek, limit int, placeholder string) []domain.DestinationSummary {
	order := make([]string, 0)
	groups := make(map[string]*destinationStats)

	for _, t := range treks {
		st, ok := groups[t.Location]
		if !ok {
			st = &destinationStats{location: t.Location, best: t}
			groups[t.Location] = st
			order = append(order, t.Location)
		} else if betterTrek(t, st.best) {
			st.best = t
		}

		count := t.RatingCount
		if count < 0 {
			count = 0
		}
		st.treks = append(st.treks, t)
		st.ratingSum += finite(t.Rating) * float64(count)
		st.ratingCount += count
	}

	out := make([]domain.DestinationSummary, 0, len(order))
	for _, loc := range order {
		st := groups[loc]

		avg := 0.0
		if st.ratingCount > 0 {
			avg = st.ratingSum / float64(st.ratingCount)
		}

		image := st.best.Thumbnail()
		if image == "" {
			image = placeholder
		}

		out = append(out, domain.DestinationSummary{
			Location:        st.location,
			AvgRating:       roundTo(avg, 1),
			TrekCount:       len(st.treks),
			BestTrek:        st.best,
			Image:           image,
			PopularityScore: avg * log1p(float64(st.ratingCount)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PopularityScore > out[j].PopularityScore
	})

	return truncate(out, limit)
}

// betterTrek prefers the higher rating, then the smaller id.
func betterTrek(candidate, current domain.Trek) bool {
	if candidate.Rating != current.Rating {
		return candidate.Rating > current.Rating
	}
	return candidate.ID < current.ID
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

func truncate[T any](items []T, limit int) []T {
	if limit >= 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
