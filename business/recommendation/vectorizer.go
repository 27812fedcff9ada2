package recommendation

import (
	"math"
	"strings"

	"myTrekMarket/domain"
)

const vectorDim = 6

// Vector is the feature encoding of a trek or of a user's taste:
//
//	[difficulty, category, ln(duration+1), ln(price+1), rating, ln(ratingCount+1)]
type Vector [vectorDim]float64

// DefaultVector is used when there is no catalog to average over.
var DefaultVector = Vector{2, 2, 2, 7, 4, 3}

var difficultyWeights = map[string]float64{
	domain.DifficultyEasy:      1,
	domain.DifficultyModerate:  2,
	domain.DifficultyDifficult: 3,
	domain.DifficultyExtreme:   4,
}

var categoryWeights = map[string]float64{
	domain.CategoryHiking:              1,
	domain.CategoryTrekking:            2,
	domain.CategoryMountainClimbing:    3,
	domain.CategoryCamping:             1,
	domain.CategoryInternationalTravel: 2,
	domain.CategoryAdventureTravel:     2,
	domain.CategoryWildlifeSafari:      2,
}

// Interaction weights for the user centroid.
const (
	weightBookingCompleted = 4
	weightBookingOther     = 3
	weightWishlist         = 2
)

// DifficultyWeight returns 0 for unknown difficulties.
func DifficultyWeight(difficulty string) float64 {
	return difficultyWeights[normalizeLabel(difficulty)]
}

// CategoryWeight returns 0 for unknown categories.
func CategoryWeight(category string) float64 {
	return categoryWeights[normalizeLabel(category)]
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// VectorizeTrek encodes a trek. Negative numeric fields are clamped to 0 so
// every component stays finite.
func VectorizeTrek(t domain.Trek) Vector {
	return Vector{
		DifficultyWeight(t.Difficulty),
		CategoryWeight(t.Category),
		log1p(float64(t.Duration)),
		log1p(t.Price),
		finite(t.Rating),
		log1p(float64(t.RatingCount)),
	}
}

func log1p(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		x = 0
	}
	if math.IsInf(x, 1) {
		return math.MaxFloat64
	}
	return math.Log(x + 1)
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// v += w * x
func addScaled(v *Vector, x Vector, w float64) {
	for i := range vectorDim {
		v[i] += w * x[i]
	}
}

func (v Vector) divide(d float64) Vector {
	var out Vector
	for i := range vectorDim {
		out[i] = v[i] / d
	}
	return out
}

// WeightedCentroid folds a user's history into one vector. Reviews weigh by
// their rating, completed bookings 4, other bookings 3, wishlist entries 2.
// Interactions whose trek was not joined are skipped. ok is false when the
// total weight is zero.
func WeightedCentroid(h domain.InteractionHistory) (Vector, bool) {
	var sum Vector
	total := 0.0

	for _, r := range h.Reviews {
		if r.Trek == nil {
			continue
		}
		w := float64(r.Rating)
		addScaled(&sum, VectorizeTrek(*r.Trek), w)
		total += w
	}

	for _, b := range h.Bookings {
		if b.Trek == nil {
			continue
		}
		w := float64(weightBookingOther)
		if b.Status == domain.BookingStatusCompleted {
			w = weightBookingCompleted
		}
		addScaled(&sum, VectorizeTrek(*b.Trek), w)
		total += w
	}

	if h.Wishlist != nil {
		for _, t := range h.Wishlist.Treks {
			addScaled(&sum, VectorizeTrek(t), weightWishlist)
			total += weightWishlist
		}
	}

	if total == 0 {
		return Vector{}, false
	}

	return sum.divide(total), true
}

// CatalogAverage is the componentwise mean of the treks' vectors.
func CatalogAverage(treks []domain.Trek) (Vector, bool) {
	if len(treks) == 0 {
		return DefaultVector, false
	}

	var sum Vector
	for _, t := range treks {
		addScaled(&sum, VectorizeTrek(t), 1)
	}

	return sum.divide(float64(len(treks))), true
}
