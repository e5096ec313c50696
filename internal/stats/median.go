package stats

import (
	"math"
	"slices"
)

// SortAscending sorts v in place in ascending order.
func SortAscending(v []float64) {
	slices.Sort(v)
}

// Median picks one element of an ascending sequence: index n/2 when n is
// odd and (n+1)/2 when n is even. For even n this is the upper middle
// element, not the average of the two middle values. It returns NaN for an
// empty sequence.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 0 {
		return sorted[(n+1)/2]
	}
	return sorted[n/2]
}
