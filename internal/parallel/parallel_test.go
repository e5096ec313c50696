package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	test := []struct {
		n, parts int
		exp      []Block
	}{
		{n: 0, parts: 4, exp: nil},
		{n: 3, parts: 0, exp: []Block{{0, 3}}},
		{n: 3, parts: 8, exp: []Block{{0, 1}, {1, 2}, {2, 3}}},
		{n: 10, parts: 3, exp: []Block{{0, 4}, {4, 7}, {7, 10}}},
		{n: 8, parts: 4, exp: []Block{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
	}
	for _, tt := range test {
		assert.Equal(t, tt.exp, Split(tt.n, tt.parts), "n=%d parts=%d", tt.n, tt.parts)
	}
}

func TestSplit_Covers(t *testing.T) {
	for n := 1; n < 50; n++ {
		for parts := 1; parts < 12; parts++ {
			blocks := Split(n, parts)
			var next int
			for _, b := range blocks {
				require.Equal(t, next, b.Start())
				require.False(t, b.IsZero())
				next = b.End()
			}
			require.Equal(t, n, next)
		}
	}
}

func TestBlocks(t *testing.T) {
	for _, workers := range []int{1, 2, 5, 0} {
		const n = 1000
		parts := make([]int, Workers(workers))
		err := Blocks(context.Background(), n, workers, func(_ context.Context, at int, b Block) error {
			for i := b.Start(); i < b.End(); i++ {
				parts[at] += i
			}
			return nil
		})
		require.NoError(t, err)
		var sum int
		for _, p := range parts {
			sum += p
		}
		assert.Equal(t, n*(n-1)/2, sum, "workers=%d", workers)
	}
}

func TestEach(t *testing.T) {
	for _, workers := range []int{1, 3, 0} {
		out := make([]int, 64)
		err := Each(context.Background(), len(out), workers, func(_ context.Context, i int) error {
			out[i] = i * i
			return nil
		})
		require.NoError(t, err)
		for i, v := range out {
			assert.Equal(t, i*i, v)
		}
	}
}

func TestEach_Error(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	err := Each(context.Background(), 10, 1, func(_ context.Context, i int) error {
		calls.Add(1)
		if i == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(4), calls.Load())

	err = Each(context.Background(), 10, 4, func(_ context.Context, i int) error {
		if i == 7 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := Blocks(ctx, 10, 2, func(context.Context, int, Block) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.ErrorIs(t, Each(ctx, 10, 2, func(context.Context, int) error { return nil }), context.Canceled)
}
