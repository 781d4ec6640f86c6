// Package distance provides the vector distance calculations used by kdgo.
// All indexes search in Euclidean space; the squared form is exposed for
// callers that only need to compare distances.
package distance

import "math"

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Euclidean calculates the L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Euclidean(a, b []float32) float32 {
	return float32(math.Sqrt(float64(SquaredL2(a, b))))
}

// AbsDiff returns the absolute difference |a-b| of two coordinates.
// Used as the axis-distance lower bound in pruning conditions.
func AbsDiff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}
