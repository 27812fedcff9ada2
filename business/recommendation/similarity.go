package recommendation

import (
	"fmt"
	"math"
)

// CosineSimilarity returns dot(a,b)/(|a||b|), or 0 when either side is the
// zero vector.
func CosineSimilarity(a, b Vector) float64 {
	return CosineSimilaritySlice(a[:], b[:])
}

// CosineSimilaritySlice is CosineSimilarity for variable-length input. It
// panics when the lengths differ.
func CosineSimilaritySlice(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("recommendation: vectors must have the same length (%d != %d)", len(a), len(b)))
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)
	if magA == 0 || magB == 0 {
		return 0
	}

	s := dot / (magA * magB)
	if math.IsNaN(s) {
		// overflowing components give Inf/Inf
		return 0
	}
	return s
}
