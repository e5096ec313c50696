package stats

import (
	"context"
	"math"

	"github.com/yyyoichi/gengroups/internal/groups"
	"github.com/yyyoichi/gengroups/internal/parallel"
)

// NoGroup marks an extreme that no group has claimed yet.
const NoGroup = -1

// Disease holds, for one disease, the largest and smallest group median and
// the groups that own them.
type Disease struct {
	Max      float64
	MaxGroup int
	Min      float64
	MinGroup int
}

// NewDisease returns stats with sentinel extremes: Max -Inf, Min +Inf.
func NewDisease() Disease {
	return Disease{
		Max:      math.Inf(-1),
		MaxGroup: NoGroup,
		Min:      math.Inf(1),
		MinGroup: NoGroup,
	}
}

// Observe folds one group median into the extremes. A median below the
// current minimum only replaces the minimum; the maximum is tested only
// when the minimum did not change. The first observation therefore always
// lands in Min and leaves Max at its sentinel.
func (d *Disease) Observe(group int, median float64) {
	if median < d.Min {
		d.Min = median
		d.MinGroup = group
	} else if median > d.Max {
		d.Max = median
		d.MaxGroup = group
	}
}

// GroupMedians returns medians[g][j], the median of disease j over the
// members of group g. Rows of empty groups are nil. Groups are computed
// concurrently, each with its own scratch buffer.
func GroupMedians(ctx context.Context, idx groups.Index, table [][]float64, diseases, workers int) ([][]float64, error) {
	medians := make([][]float64, len(idx))
	err := parallel.Each(ctx, len(idx), workers, func(_ context.Context, g int) error {
		members := idx[g].Members
		if len(members) == 0 {
			return nil
		}
		var (
			row     = make([]float64, diseases)
			scratch = make([]float64, len(members))
		)
		for j := range diseases {
			for k, m := range members {
				scratch[k] = table[m][j]
			}
			SortAscending(scratch)
			row[j] = Median(scratch)
		}
		medians[g] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return medians, nil
}

// Diseases computes the per-disease extremes of the group medians. Medians
// are computed in parallel and then folded in ascending group order, so the
// result does not depend on scheduling.
func Diseases(ctx context.Context, idx groups.Index, table [][]float64, diseases, workers int) ([]Disease, error) {
	medians, err := GroupMedians(ctx, idx, table, diseases, workers)
	if err != nil {
		return nil, err
	}
	out := make([]Disease, diseases)
	for j := range out {
		out[j] = NewDisease()
	}
	for g, row := range medians {
		if row == nil {
			continue
		}
		for j, median := range row {
			out[j].Observe(g, median)
		}
	}
	return out, nil
}
