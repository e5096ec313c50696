package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/yyyoichi/gengroups"
	"gonum.org/v1/gonum/floats"
)

// SampleStride selects which centroids the summary prints.
const SampleStride = 40

// WriteSummary prints the iteration count, a sample of centroids with their
// compactness, and the tightest and loosest groups that have at least two
// members.
func WriteSummary(w io.Writer, r *gengroups.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n    Number of iterations: %d (%s)\n", r.Iterations, r.State)

	fmt.Fprint(bw, "\n centroids and the compactness of their group\n ")
	for i := 0; i < len(r.Centroids); i += SampleStride {
		fmt.Fprintf(bw, "\n  z%2d -- ", i)
		for _, v := range r.Centroids[i] {
			fmt.Fprintf(bw, "%5.1f", v)
		}
		fmt.Fprintf(bw, "\n          %5.6f\n", r.Compactness[i])
	}

	var (
		ids    []int
		values []float64
	)
	for i, c := range r.Compactness {
		if r.Sizes[i] > 1 {
			ids = append(ids, i)
			values = append(values, c)
		}
	}
	if len(values) > 0 {
		lo, hi := floats.MinIdx(values), floats.MaxIdx(values)
		fmt.Fprintf(bw, "\n tightest group %d: %.4f (%d elements)", ids[lo], values[lo], r.Sizes[ids[lo]])
		fmt.Fprintf(bw, "\n loosest group  %d: %.4f (%d elements)\n", ids[hi], values[hi], r.Sizes[ids[hi]])
	}
	return bw.Flush()
}
