package kmeans

import (
	"context"
	"slices"

	"github.com/viterin/vek"
	"github.com/yyyoichi/gengroups/internal/parallel"
)

// Accumulator keeps the per-dimension sum and the member count of one group.
type Accumulator struct {
	sum   []float64
	count int
}

func NewAccumulator(features int) *Accumulator {
	return &Accumulator{sum: make([]float64, features)}
}

func (a *Accumulator) Add(v []float64) {
	vek.Add_Inplace(a.sum, v)
	a.count++
}

func (a *Accumulator) Merge(o *Accumulator) {
	vek.Add_Inplace(a.sum, o.sum)
	a.count += o.count
}

// Mean returns a new vector holding the per-dimension mean, or nil when
// nothing was added.
func (a *Accumulator) Mean() []float64 {
	if a.count == 0 {
		return nil
	}
	m := slices.Clone(a.sum)
	vek.DivNumber_Inplace(m, float64(a.count))
	return m
}

func (a *Accumulator) Count() int { return a.count }

func (a *Accumulator) Sum() []float64 { return a.sum }

func (a *Accumulator) Reset() {
	clear(a.sum)
	a.count = 0
}

func newAccumulators(groups, features int) []*Accumulator {
	acc := make([]*Accumulator, groups)
	for g := range acc {
		acc[g] = NewAccumulator(features)
	}
	return acc
}

// Accumulate adds every element to the accumulator of its assigned group.
// Each element block fills its own partial accumulators; the partials are
// merged in block order once all blocks are done.
func Accumulate(ctx context.Context, elements [][]float64, assign []int, groups, features, workers int) ([]*Accumulator, error) {
	var (
		n        = len(elements)
		partials = make([][]*Accumulator, len(parallel.Split(n, parallel.Workers(workers))))
	)
	err := parallel.Blocks(ctx, n, workers, func(_ context.Context, at int, b parallel.Block) error {
		acc := newAccumulators(groups, features)
		for i := b.Start(); i < b.End(); i++ {
			acc[assign[i]].Add(elements[i])
		}
		partials[at] = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(partials) == 1 {
		return partials[0], nil
	}

	total := newAccumulators(groups, features)
	for _, p := range partials {
		for g, a := range p {
			total[g].Merge(a)
		}
	}
	return total, nil
}
