// Package gengroups partitions a population of feature vectors into a fixed
// number of groups by iterative centroid refinement, then reports how
// compact each group is and, from a per-element table of disease risks, which
// groups hold the highest and lowest median risk of every disease.
package gengroups

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yyyoichi/gengroups/internal/groups"
	"github.com/yyyoichi/gengroups/internal/kmeans"
	"github.com/yyyoichi/gengroups/internal/stats"
)

var (
	ErrInvalidGroups        = errors.New("group count must be positive")
	ErrInvalidFeatures      = errors.New("feature count must be positive")
	ErrInvalidDiseases      = errors.New("disease count must not be negative")
	ErrInvalidMaxIterations = errors.New("max iterations must be positive")
	ErrInvalidDelta         = errors.New("delta must be a non-negative number")
	ErrInvalidCapacity      = errors.New("element capacity must be positive")
	ErrInvalidWorkers       = errors.New("worker count must not be negative")
	ErrNilSeeder            = errors.New("seeder must not be nil")
	ErrCapacityExceeded     = groups.ErrCapacityExceeded
	ErrSeedShape            = kmeans.ErrSeedShape
)

// ShapeError reports a dataset table whose shape differs from the engine
// configuration. Row is -1 when the number of rows is wrong.
type ShapeError struct {
	Table    string
	Row      int
	Expected int
	Actual   int
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s table: expected %d rows, got %d", e.Table, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s table row %d: expected %d values, got %d", e.Table, e.Row, e.Expected, e.Actual)
}

type (
	State        = kmeans.State
	Seeder       = kmeans.Seeder
	DiseaseStats = stats.Disease
	GroupIndex   = groups.Index
	GroupInfo    = groups.Info
)

const (
	Converged             = kmeans.Converged
	IterationLimitReached = kmeans.IterationLimitReached

	// NoGroup is the owner of a disease extreme no group has claimed.
	NoGroup = stats.NoGroup
)

// ParseState parses the name a State prints as.
func ParseState(s string) (State, error) { return kmeans.ParseState(s) }

// Dataset is the read-only input of a run: Elements[i] holds the features of
// element i and Diseases[i] its disease risks.
type Dataset struct {
	Elements [][]float64
	Diseases [][]float64
}

func (d Dataset) Len() int { return len(d.Elements) }

// Result is everything a run produces. Groups, Sizes, Compactness and
// Diseases are derived once from the final Assignment.
type Result struct {
	Centroids   [][]float64
	Assignment  []int
	Groups      GroupIndex
	Sizes       []int
	Compactness []float64
	Diseases    []DiseaseStats
	Iterations  int
	State       State
}

// Run creates an Engine with opts and runs it on ds.
func Run(ctx context.Context, ds Dataset, opts ...Option) (*Result, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, ds)
}

type Engine struct {
	groups, features, diseases int
	maxElements, maxIterations int
	delta                      float64
	workers                    int
	seeder                     Seeder
	logger                     zerolog.Logger
}

// Params is a snapshot of an Engine's configuration.
type Params struct {
	Groups        int
	Features      int
	Diseases      int
	MaxElements   int
	MaxIterations int
	Delta         float64
	Workers       int
}

// New initializes an engine. Options are applied over the defaults; see the
// Default constants.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		groups:        DefaultGroups,
		features:      DefaultFeatures,
		diseases:      DefaultDiseases,
		maxElements:   DefaultMaxElements,
		maxIterations: DefaultMaxIterations,
		delta:         DefaultDelta,
		seeder:        kmeans.Mirrored(DefaultSeed),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) Params() Params {
	return Params{
		Groups:        e.groups,
		Features:      e.features,
		Diseases:      e.diseases,
		MaxElements:   e.maxElements,
		MaxIterations: e.maxIterations,
		Delta:         e.delta,
		Workers:       e.workers,
	}
}

// Run clusters ds and derives the group statistics.
//
// Process:
//  1. Seeds the centroids.
//  2. Refines them until no non-empty group moves more than delta, or the
//     iteration cap is reached.
//  3. Indexes the members of each group from the final assignment.
//  4. Computes the compactness of every group.
//  5. Computes the median extremes of every disease.
//
// Returns an error if ds does not match the configured shape or exceeds the
// element capacity, or if ctx is done.
func (e *Engine) Run(ctx context.Context, ds Dataset) (*Result, error) {
	if err := e.validate(ds); err != nil {
		return nil, err
	}
	seeds, err := e.seeder.Centroids(e.groups, e.features)
	if err != nil {
		return nil, fmt.Errorf("seed centroids: %w", err)
	}

	start := time.Now()
	out, err := kmeans.Run(ctx, ds.Elements, seeds, kmeans.Config{
		MaxIterations: e.maxIterations,
		Delta:         e.delta,
		Workers:       e.workers,
		Logger:        e.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	e.logger.Info().
		Int("elements", ds.Len()).
		Int("iterations", out.Iterations).
		Stringer("state", out.State).
		Dur("took", time.Since(start)).
		Msg("clustering finished")

	start = time.Now()
	idx, err := groups.Build(out.Assignment, e.groups, e.maxElements)
	if err != nil {
		return nil, fmt.Errorf("index groups: %w", err)
	}
	e.logger.Info().Dur("took", time.Since(start)).Msg("groups indexed")

	start = time.Now()
	compactness, err := stats.CompactnessAll(ctx, idx, ds.Elements, e.workers)
	if err != nil {
		return nil, fmt.Errorf("compactness: %w", err)
	}
	e.logger.Info().Dur("took", time.Since(start)).Msg("compactness computed")

	start = time.Now()
	diseases, err := stats.Diseases(ctx, idx, ds.Diseases, e.diseases, e.workers)
	if err != nil {
		return nil, fmt.Errorf("disease analysis: %w", err)
	}
	e.logger.Info().Dur("took", time.Since(start)).Msg("diseases analysed")

	return &Result{
		Centroids:   out.Centroids,
		Assignment:  out.Assignment,
		Groups:      idx,
		Sizes:       idx.Sizes(),
		Compactness: compactness,
		Diseases:    diseases,
		Iterations:  out.Iterations,
		State:       out.State,
	}, nil
}

func (e *Engine) validate(ds Dataset) error {
	n := ds.Len()
	if n > e.maxElements {
		return fmt.Errorf("%w: %d elements, capacity %d", ErrCapacityExceeded, n, e.maxElements)
	}
	for i, row := range ds.Elements {
		if len(row) != e.features {
			return &ShapeError{Table: "element", Row: i, Expected: e.features, Actual: len(row)}
		}
	}
	if e.diseases == 0 {
		return nil
	}
	if len(ds.Diseases) != n {
		return &ShapeError{Table: "disease", Row: -1, Expected: n, Actual: len(ds.Diseases)}
	}
	for i, row := range ds.Diseases {
		if len(row) != e.diseases {
			return &ShapeError{Table: "disease", Row: i, Expected: e.diseases, Actual: len(row)}
		}
	}
	return nil
}
