package gengroups

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/yyyoichi/gengroups/internal/kmeans"
)

const (
	DefaultGroups        = 100
	DefaultFeatures      = 40
	DefaultDiseases      = 20
	DefaultMaxElements   = 230000
	DefaultMaxIterations = 10000
	DefaultDelta         = 0.01
	DefaultSeed    int64 = 147
)

type Option func(*Engine) error

// WithGroups sets the number of groups the population is split into.
func WithGroups(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidGroups, n)
		}
		e.groups = n
		return nil
	}
}

// WithFeatures sets the length of every element vector.
func WithFeatures(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidFeatures, n)
		}
		e.features = n
		return nil
	}
}

// WithDiseases sets the number of disease risks per element.
// Zero disables the disease analysis.
func WithDiseases(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidDiseases, n)
		}
		e.diseases = n
		return nil
	}
}

// WithMaxElements bounds the population a run accepts.
func WithMaxElements(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidCapacity, n)
		}
		e.maxElements = n
		return nil
	}
}

// WithMaxIterations caps the refinement loop. Reaching the cap is a normal
// outcome reported as IterationLimitReached.
func WithMaxIterations(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidMaxIterations, n)
		}
		e.maxIterations = n
		return nil
	}
}

// WithDelta sets the centroid movement above which a group is still moving.
func WithDelta(delta float64) Option {
	return func(e *Engine) error {
		if delta < 0 || math.IsNaN(delta) {
			return fmt.Errorf("%w: %v", ErrInvalidDelta, delta)
		}
		e.delta = delta
		return nil
	}
}

// WithWorkers bounds the goroutines of each parallel phase.
// 0 uses GOMAXPROCS and 1 runs every phase on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidWorkers, n)
		}
		e.workers = n
		return nil
	}
}

// WithSeed seeds the initial centroids from a deterministic sequence.
// Dimension k and dimension k+features/2 of each centroid start equal.
func WithSeed(seed int64) Option {
	return func(e *Engine) error {
		e.seeder = kmeans.Mirrored(seed)
		return nil
	}
}

// WithCentroids starts the run from the given centroids. Their shape is
// checked against the group and feature counts when the run starts.
func WithCentroids(centroids [][]float64) Option {
	return func(e *Engine) error {
		e.seeder = kmeans.Fixed(centroids)
		return nil
	}
}

func WithSeeder(s Seeder) Option {
	return func(e *Engine) error {
		if s == nil {
			return ErrNilSeeder
		}
		e.seeder = s
		return nil
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}
