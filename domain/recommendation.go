package domain

type RecommendationMode string

const (
	ModeRecommendations     RecommendationMode = "recommendations"
	ModeTrending            RecommendationMode = "trending"
	ModePopularDestinations RecommendationMode = "popular-destinations"
)

func (m RecommendationMode) Valid() bool {
	switch m {
	case ModeRecommendations, ModeTrending, ModePopularDestinations:
		return true
	default:
		return false
	}
}

type RecommendationQuery struct {
	Mode   RecommendationMode
	UserID string
	Limit  int
}

// RecommendedTrek is a trek flattened together with its personalised scores.
type RecommendedTrek struct {
	Trek
	SimilarityScore     float64 `json:"similarityScore"`
	RecommendationScore float64 `json:"recommendationScore"`
}

type TrendingTrek struct {
	Trek
	TrendingScore float64 `json:"trendingScore"`
}

type DestinationSummary struct {
	Location        string  `json:"location"`
	AvgRating       float64 `json:"avgRating"`
	TrekCount       int     `json:"trekCount"`
	BestTrek        Trek    `json:"bestTrek"`
	Image           string  `json:"image"`
	PopularityScore float64 `json:"popularityScore"`
}

// RecommendationResult carries the list for exactly one mode.
type RecommendationResult struct {
	Mode         RecommendationMode   `json:"mode"`
	Recommended  []RecommendedTrek    `json:"recommended,omitempty"`
	Trending     []TrendingTrek       `json:"trending,omitempty"`
	Destinations []DestinationSummary `json:"destinations,omitempty"`
}

// Data returns the list matching Mode; never nil so it serializes as [].
func (r RecommendationResult) Data() any {
	switch r.Mode {
	case ModeTrending:
		if r.Trending == nil {
			return []TrendingTrek{}
		}
		return r.Trending
	case ModePopularDestinations:
		if r.Destinations == nil {
			return []DestinationSummary{}
		}
		return r.Destinations
	default:
		if r.Recommended == nil {
			return []RecommendedTrek{}
		}
		return r.Recommended
	}
}

func (r RecommendationResult) Len() int {
	return len(r.Recommended) + len(r.Trending) + len(r.Destinations)
}
