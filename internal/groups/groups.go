// Package groups indexes the members of each group from a final assignment.
package groups

import (
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded = errors.New("population exceeds group capacity")
	ErrGroupOutOfRange  = errors.New("assigned group out of range")
)

// Info lists the element indices of one group in ascending order.
type Info struct {
	Members []int
	Size    int
}

// Index holds one Info per group.
type Index []Info

// Build makes a single pass over assign, appending each element index to its
// group. Member storage is sized from the actual counts, so a group can hold
// the whole population. A positive capacity bounds the population; Build
// fails with ErrCapacityExceeded instead of growing past it.
func Build(assign []int, groups, capacity int) (Index, error) {
	if capacity > 0 && len(assign) > capacity {
		return nil, fmt.Errorf("%w: %d elements, capacity %d", ErrCapacityExceeded, len(assign), capacity)
	}
	counts := make([]int, groups)
	for i, g := range assign {
		if g < 0 || g >= groups {
			return nil, fmt.Errorf("%w: element %d assigned to %d of %d groups", ErrGroupOutOfRange, i, g, groups)
		}
		counts[g]++
	}

	idx := make(Index, groups)
	for g := range idx {
		idx[g].Members = make([]int, 0, counts[g])
	}
	for i, g := range assign {
		idx[g].Members = append(idx[g].Members, i)
		idx[g].Size++
	}
	return idx, nil
}

// Sizes returns the member count of every group.
func (x Index) Sizes() []int {
	sizes := make([]int, len(x))
	for g, info := range x {
		sizes[g] = info.Size
	}
	return sizes
}

// Total returns the sum of all group sizes.
func (x Index) Total() int {
	var total int
	for _, info := range x {
		total += info.Size
	}
	return total
}
