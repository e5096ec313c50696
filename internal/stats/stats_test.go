package stats

import (
	"context"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/gengroups/internal/distance"
	"github.com/yyyoichi/gengroups/internal/groups"
)

// insertionSort is a quadratic reference used to check SortAscending.
func insertionSort(v []float64) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j-1] > v[j]; j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
}

func TestSortAscending(t *testing.T) {
	rd := rand.New(rand.NewSource(5))
	for _, n := range []int{0, 1, 2, 7, 100, 1001} {
		v := make([]float64, n)
		for i := range v {
			v[i] = math.Round(rd.Float64()*50) / 10
		}
		exp := slices.Clone(v)
		insertionSort(exp)
		SortAscending(v)
		assert.Equal(t, exp, v, "n=%d", n)
	}
}

func TestMedian(t *testing.T) {
	test := []struct {
		name   string
		sorted []float64
		exp    float64
	}{
		{name: "single", sorted: []float64{4}, exp: 4},
		{name: "odd", sorted: []float64{1, 2, 3, 4, 5}, exp: 3},
		{name: "even", sorted: []float64{1, 2, 3, 4}, exp: 3},
		{name: "pair", sorted: []float64{1, 2}, exp: 2},
		{name: "six", sorted: []float64{1, 2, 3, 4, 5, 6}, exp: 4},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exp, Median(tt.sorted))
		})
	}
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestCompactness(t *testing.T) {
	elements := [][]float64{{0, 0}, {0, 1}, {3, 4}, {10, 10}}

	assert.Equal(t, 0.0, Compactness(nil, elements))
	assert.Equal(t, 0.0, Compactness([]int{2}, elements))
	assert.Equal(t, distance.Euclidean(elements[0], elements[2]), Compactness([]int{0, 2}, elements))
	assert.Equal(t, 1.0, Compactness([]int{0, 1}, elements))

	// pairs: (0,1)=1, (0,2)=5, (1,2)=sqrt(9+9)
	exp := (1 + 5 + math.Sqrt(18)) / 3
	assert.InDelta(t, exp, Compactness([]int{0, 1, 2}, elements), 1e-12)
}

func TestCompactnessAll(t *testing.T) {
	elements := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}, {5, 5}}
	idx, err := groups.Build([]int{0, 0, 1, 1, 2}, 4, 0)
	require.NoError(t, err)

	for _, workers := range []int{1, 3} {
		got, err := CompactnessAll(context.Background(), idx, elements, workers)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1, 0, 0}, got)
	}
}

func TestDisease_ObserveElseIf(t *testing.T) {
	d := NewDisease()
	assert.True(t, math.IsInf(d.Max, -1))
	assert.True(t, math.IsInf(d.Min, 1))

	// below +Inf and above -Inf at once: recorded as the minimum only
	d.Observe(0, 0.5)
	assert.Equal(t, 0.5, d.Min)
	assert.Equal(t, 0, d.MinGroup)
	assert.True(t, math.IsInf(d.Max, -1))
	assert.Equal(t, NoGroup, d.MaxGroup)

	d.Observe(1, 0.7)
	assert.Equal(t, 0.7, d.Max)
	assert.Equal(t, 1, d.MaxGroup)

	d.Observe(2, 0.2)
	assert.Equal(t, 0.2, d.Min)
	assert.Equal(t, 2, d.MinGroup)
	assert.Equal(t, 0.7, d.Max)

	// equal values never replace the owner
	d.Observe(3, 0.7)
	d.Observe(4, 0.2)
	assert.Equal(t, 1, d.MaxGroup)
	assert.Equal(t, 2, d.MinGroup)
}

func TestDiseases(t *testing.T) {
	// group 0: elements 0,1,2; group 1: empty; group 2: elements 3,4
	table := [][]float64{
		{0.3, 0.9},
		{0.1, 0.8},
		{0.2, 0.7},
		{0.6, 0.1},
		{0.4, 0.2},
	}
	idx, err := groups.Build([]int{0, 0, 0, 2, 2}, 3, 0)
	require.NoError(t, err)

	medians, err := GroupMedians(context.Background(), idx, table, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.8}, medians[0])
	assert.Nil(t, medians[1])
	// even size takes the upper middle element
	assert.Equal(t, []float64{0.6, 0.2}, medians[2])

	for _, workers := range []int{1, 4} {
		got, err := Diseases(context.Background(), idx, table, 2, workers)
		require.NoError(t, err)
		require.Len(t, got, 2)

		// disease 0: group 0 (0.2) becomes the minimum, group 2 (0.6) the maximum
		assert.Equal(t, Disease{Max: 0.6, MaxGroup: 2, Min: 0.2, MinGroup: 0}, got[0])
		// disease 1: group 0 (0.8) becomes the minimum, then group 2 (0.2) replaces it;
		// the maximum is never set
		assert.Equal(t, 0.2, got[1].Min)
		assert.Equal(t, 2, got[1].MinGroup)
		assert.True(t, math.IsInf(got[1].Max, -1))
		assert.Equal(t, NoGroup, got[1].MaxGroup)
	}
}

func TestDiseases_SingleGroup(t *testing.T) {
	table := [][]float64{{0.4}, {0.9}, {0.1}}
	idx, err := groups.Build([]int{1, 1, 1}, 2, 0)
	require.NoError(t, err)

	got, err := Diseases(context.Background(), idx, table, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.4, got[0].Min)
	assert.Equal(t, 1, got[0].MinGroup)
	assert.True(t, math.IsInf(got[0].Max, -1))
	assert.Equal(t, NoGroup, got[0].MaxGroup)
}
