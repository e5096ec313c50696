package kmeans

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

var ErrSeedShape = errors.New("seed centroids do not match groups x features")

// Seeder produces the initial centroids of a run.
type Seeder interface {
	Centroids(groups, features int) ([][]float64, error)
}

var (
	_ Seeder = Mirrored(0)
	_ Seeder = Fixed(nil)
)

// Mirrored seeds centroids from a deterministic sequence keyed by its value.
// For every group, dimension k < features/2 gets a value on the 0.01 grid of
// [0, 100) and dimension k+features/2 gets the same value. With an odd
// feature count the last dimension starts at zero.
type Mirrored int64

func (m Mirrored) Centroids(groups, features int) ([][]float64, error) {
	var (
		rd        = rand.New(rand.NewSource(int64(m)))
		half      = features / 2
		centroids = make([][]float64, groups)
	)
	for g := range centroids {
		c := make([]float64, features)
		for k := range half {
			v := float64(rd.Intn(10000)) / 100.0
			c[k] = v
			c[k+half] = v
		}
		centroids[g] = c
	}
	return centroids, nil
}

// Fixed uses the given centroids verbatim.
type Fixed [][]float64

func (f Fixed) Centroids(groups, features int) ([][]float64, error) {
	if len(f) != groups {
		return nil, fmt.Errorf("%w: %d centroids for %d groups", ErrSeedShape, len(f), groups)
	}
	centroids := make([][]float64, groups)
	for g, c := range f {
		if len(c) != features {
			return nil, fmt.Errorf("%w: centroid %d has %d features, want %d", ErrSeedShape, g, len(c), features)
		}
		centroids[g] = slices.Clone(c)
	}
	return centroids, nil
}
