// Package kmeans partitions a fixed population into groups by iterative
// centroid refinement.
//
// Every iteration assigns each element to its closest centroid, then
// recomputes each non-empty group's centroid as the mean of its members.
// Empty groups keep their previous centroid. The loop converges when no
// non-empty group moved farther than Delta, and otherwise stops after
// MaxIterations; both outcomes are normal.
package kmeans

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/yyyoichi/gengroups/internal/distance"
)

var (
	ErrNoCentroids   = errors.New("at least one centroid is required")
	ErrMaxIterations = errors.New("max iterations must be positive")
)

type State int

const (
	Seeded State = iota
	Iterating
	Converged
	IterationLimitReached
)

func (s State) String() string {
	switch s {
	case Seeded:
		return "seeded"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case IterationLimitReached:
		return "iteration_limit_reached"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseState is the inverse of State.String.
func ParseState(s string) (State, error) {
	for st := Seeded; st <= IterationLimitReached; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", s)
}

// Terminal reports whether the loop has stopped.
func (s State) Terminal() bool {
	return s == Converged || s == IterationLimitReached
}

type Config struct {
	MaxIterations int
	Delta         float64
	Workers       int
	Logger        zerolog.Logger
}

type Outcome struct {
	Centroids  [][]float64
	Assignment []int
	Iterations int
	State      State
}

// Run refines seeds against elements until convergence or the iteration cap.
// seeds is copied; the returned assignment is the one computed in the last
// iteration.
func Run(ctx context.Context, elements, seeds [][]float64, cfg Config) (*Outcome, error) {
	if len(seeds) == 0 {
		return nil, ErrNoCentroids
	}
	if cfg.MaxIterations < 1 {
		return nil, fmt.Errorf("%w: %d", ErrMaxIterations, cfg.MaxIterations)
	}

	var (
		groups    = len(seeds)
		features  = len(seeds[0])
		centroids = make([][]float64, groups)
		assign    = make([]int, len(elements))
		out       = &Outcome{State: Seeded}
		logger    = cfg.Logger.With().Str("module", "kmeans").Int("size", len(elements)).Logger()
	)
	for g, c := range seeds {
		centroids[g] = slices.Clone(c)
	}

	for out.Iterations < cfg.MaxIterations {
		out.State = Iterating
		if err := Assign(ctx, elements, centroids, assign, cfg.Workers); err != nil {
			return nil, fmt.Errorf("assign iteration %d: %w", out.Iterations+1, err)
		}
		acc, err := Accumulate(ctx, elements, assign, groups, features, cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("accumulate iteration %d: %w", out.Iterations+1, err)
		}
		moved, shift := Update(centroids, acc, cfg.Delta)
		out.Iterations++

		logger.Debug().
			Int("iteration", out.Iterations).
			Int("moved", moved).
			Float64("max_shift", shift).
			Msg("centroids updated")
		if moved == 0 {
			out.State = Converged
			break
		}
	}
	if out.State != Converged {
		out.State = IterationLimitReached
	}

	out.Centroids = centroids
	out.Assignment = assign
	return out, nil
}

// Update replaces the centroid of every non-empty group with its members'
// mean. It returns how many of those groups moved farther than delta and the
// largest movement seen. Empty groups are left as they are and never count.
func Update(centroids [][]float64, acc []*Accumulator, delta float64) (moved int, shift float64) {
	for g, a := range acc {
		if a.Count() == 0 {
			continue
		}
		next := a.Mean()
		d := distance.Euclidean(next, centroids[g])
		if d > delta {
			moved++
		}
		shift = max(shift, d)
		centroids[g] = next
	}
	return moved, shift
}
