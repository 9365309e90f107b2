package vector

import "math"

// Epsilon keeps cosine similarity finite when either vector is all zeros.
const Epsilon = 1e-12

// CosineSimilarity returns dot(a,b) / (|a|*|b| + Epsilon). Vectors of
// different length are not comparable and score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	return Dot(a, b) / (L2Norm(a)*L2Norm(b) + Epsilon)
}

// Dot returns the inner product of two equal-length vectors.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// L2Norm returns the L2 norm of a vector.
func L2Norm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}
