// Package distance computes the Euclidean distance between feature vectors.
package distance

import "gonum.org/v1/gonum/floats"

// Euclidean returns the L2 distance between a and b.
// The vectors must have the same length; the result is symmetric and zero
// only when a and b are equal element-wise.
func Euclidean(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(a, b, 2)
}
