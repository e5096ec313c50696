package kmeans

import (
	"context"

	"github.com/yyyoichi/gengroups/internal/distance"
	"github.com/yyyoichi/gengroups/internal/parallel"
)

// ClosestGroup returns the index of the centroid nearest to elem.
// Only a strictly smaller distance replaces the current best, so the first
// centroid reaching the minimum wins. It returns -1 when centroids is empty.
func ClosestGroup(elem []float64, centroids [][]float64) int {
	if len(centroids) == 0 {
		return -1
	}
	best, bestDist := 0, distance.Euclidean(elem, centroids[0])
	for g := 1; g < len(centroids); g++ {
		if d := distance.Euclidean(elem, centroids[g]); d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}

// Assign overwrites assign[i] with the closest group of elements[i].
// centroids is only read; the call returns after every element is assigned.
func Assign(ctx context.Context, elements, centroids [][]float64, assign []int, workers int) error {
	return parallel.Blocks(ctx, len(elements), workers, func(_ context.Context, _ int, b parallel.Block) error {
		for i := b.Start(); i < b.End(); i++ {
			assign[i] = ClosestGroup(elements[i], centroids)
		}
		return nil
	})
}
