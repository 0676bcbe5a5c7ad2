package mix

import "math"

// Cosine returns the cosine similarity between two embedding vectors in its
// natural [-1, 1] range. Nil, empty, zero-norm, or mismatched-length inputs
// yield 0 ("no resemblance"). Callers that need a bounded sub-score clamp the
// result themselves.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
