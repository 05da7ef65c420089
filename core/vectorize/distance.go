package vectorize

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// DotProduct computes the dot product of two vectors.
// Returns 0 if vectors have different lengths.
func DotProduct(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return vek32.Dot(a, b)
}

// Magnitude computes the L2 norm of a vector.
func Magnitude(v []float32) float64 {
	if len(v) == 0 {
		return 0
	}
	return math.Sqrt(float64(vek32.Dot(v, v)))
}

// CosineSimilarity computes cosine similarity between two vectors using
// pre-computed magnitudes. Returns 0 if either magnitude is zero or the
// dimensions disagree, so a dimension mismatch degrades to "not similar"
// instead of failing.
func CosineSimilarity(a, b []float32, magA, magB float64) float64 {
	if magA == 0 || magB == 0 || len(a) != len(b) {
		return 0
	}
	return float64(DotProduct(a, b)) / (magA * magB)
}

// CosineSimilarityVectors computes cosine similarity, computing magnitudes.
// Less efficient than using pre-computed magnitudes.
func CosineSimilarityVectors(a, b []float32) float64 {
	return CosineSimilarity(a, b, Magnitude(a), Magnitude(b))
}
