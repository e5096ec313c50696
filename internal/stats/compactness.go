// Package stats derives per-group statistics from a group index: pairwise
// compactness and per-disease median extremes.
package stats

import (
	"context"

	"github.com/yyyoichi/gengroups/internal/distance"
	"github.com/yyyoichi/gengroups/internal/groups"
	"github.com/yyyoichi/gengroups/internal/parallel"
)

// Compactness returns the mean distance over all unordered pairs of members.
// Groups with fewer than two members have compactness 0.
func Compactness(members []int, elements [][]float64) float64 {
	s := len(members)
	if s <= 1 {
		return 0
	}
	var sum float64
	for j := range s {
		a := elements[members[j]]
		for k := j + 1; k < s; k++ {
			sum += distance.Euclidean(a, elements[members[k]])
		}
	}
	return sum / float64(s*(s-1)/2)
}

// CompactnessAll computes the compactness of every group, one task per group.
func CompactnessAll(ctx context.Context, idx groups.Index, elements [][]float64, workers int) ([]float64, error) {
	out := make([]float64, len(idx))
	err := parallel.Each(ctx, len(idx), workers, func(_ context.Context, g int) error {
		out[g] = Compactness(idx[g].Members, elements)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
