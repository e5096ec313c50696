package runstore

import (
	"context"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/gengroups"
)

func runEngine(t *testing.T, seed int64) (*gengroups.Engine, *gengroups.Result) {
	t.Helper()
	rd := rand.New(rand.NewSource(seed))
	ds := gengroups.Dataset{
		Elements: make([][]float64, 300),
		Diseases: make([][]float64, 300),
	}
	for i := range ds.Elements {
		ds.Elements[i] = []float64{float64(rd.Intn(100)), float64(rd.Intn(100)), float64(rd.Intn(100)), float64(rd.Intn(100))}
		ds.Diseases[i] = []float64{rd.Float64(), rd.Float64(), rd.Float64()}
	}
	e, err := gengroups.New(
		gengroups.WithGroups(12),
		gengroups.WithFeatures(4),
		gengroups.WithDiseases(3),
		gengroups.WithSeed(seed),
	)
	require.NoError(t, err)
	res, err := e.Run(context.Background(), ds)
	require.NoError(t, err)
	return e, res
}

func TestSaveLoad(t *testing.T) {
	for _, ecc := range []bool{true, false} {
		t.Run(map[bool]string{true: "golay", false: "plain"}[ecc], func(t *testing.T) {
			ctx := context.Background()
			s, err := Open(filepath.Join(t.TempDir(), "runs.db"), ecc)
			require.NoError(t, err)
			defer s.Close()

			e, res := runEngine(t, 5)
			run := &Run{Label: "first", Seed: 5, Params: e.Params()}
			id, err := s.SaveRun(ctx, run, res)
			require.NoError(t, err)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, run.ID)

			got, err := s.LoadRun(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "first", got.Label)
			assert.Equal(t, int64(5), got.Seed)
			assert.Equal(t, e.Params(), got.Params)
			assert.Equal(t, 300, got.Elements)
			assert.Equal(t, res.State, got.State)
			assert.Equal(t, run.CreatedAt, got.CreatedAt)

			require.NotNil(t, got.Result)
			assert.Equal(t, res.Assignment, got.Result.Assignment)
			assert.Equal(t, res.Centroids, got.Result.Centroids)
			assert.Equal(t, res.Sizes, got.Result.Sizes)
			assert.Equal(t, res.Compactness, got.Result.Compactness)
			assert.Equal(t, res.Diseases, got.Result.Diseases)
			assert.Equal(t, res.Groups, got.Result.Groups)
			assert.Equal(t, res.Iterations, got.Result.Iterations)
		})
	}
}

func TestSaveLoad_UnclaimedExtremes(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), true)
	require.NoError(t, err)
	defer s.Close()

	// one non-empty group: every disease minimum is claimed, no maximum is
	ds := gengroups.Dataset{
		Elements: [][]float64{{1, 1}, {1, 1}},
		Diseases: [][]float64{{0.2}, {0.4}},
	}
	e, err := gengroups.New(
		gengroups.WithGroups(2),
		gengroups.WithFeatures(2),
		gengroups.WithDiseases(1),
		gengroups.WithCentroids([][]float64{{0, 0}, {50, 50}}),
	)
	require.NoError(t, err)
	res, err := e.Run(ctx, ds)
	require.NoError(t, err)
	require.Equal(t, gengroups.NoGroup, res.Diseases[0].MaxGroup)

	id, err := s.SaveRun(ctx, &Run{Params: e.Params()}, res)
	require.NoError(t, err)
	got, err := s.LoadRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, res.Diseases, got.Result.Diseases)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), false)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	var ids []string
	for seed := range int64(3) {
		e, res := runEngine(t, seed+1)
		id, err := s.SaveRun(ctx, &Run{Seed: seed + 1, Params: e.Params()}, res)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	var got []string
	for _, r := range runs {
		got = append(got, r.ID)
		assert.Nil(t, r.Result)
		assert.True(t, r.State.Terminal())
	}
	assert.ElementsMatch(t, ids, got)
}

func TestLoadRun_NotFound(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), true)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.LoadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRun_FailureLeavesRunUntouched(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), true)
	require.NoError(t, err)
	defer s.Close()

	e, res := runEngine(t, 3)
	// SQLite stores NaN as NULL, which the compactness column rejects after
	// the runs row was already written
	res.Compactness[0] = math.NaN()
	run := &Run{Label: "broken", Params: e.Params()}
	id, err := s.SaveRun(ctx, run, res)
	require.Error(t, err)
	assert.Empty(t, id)
	assert.Equal(t, &Run{Label: "broken", Params: e.Params()}, run)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.SaveRun(cancelled, run, res)
	require.Error(t, err)
	assert.Empty(t, run.ID)
}

func TestOpen_SchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path, false)
	require.NoError(t, err)
	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, schemaVersion, version)
	require.NoError(t, s.Close())

	// an up to date archive opens without touching its schema
	s, err = Open(path, true)
	require.NoError(t, err)
	e, res := runEngine(t, 4)
	_, err = s.SaveRun(context.Background(), &Run{Params: e.Params()}, res)
	require.NoError(t, err)
	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path, true)
	assert.ErrorIs(t, err, ErrSchemaVersion)
}

func TestOpen_MixedECC(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")
	var ids []string
	for _, ecc := range []bool{true, false} {
		s, err := Open(path, ecc)
		require.NoError(t, err)
		e, res := runEngine(t, 6)
		id, err := s.SaveRun(ctx, &Run{Params: e.Params()}, res)
		require.NoError(t, err)
		ids = append(ids, id)
		require.NoError(t, s.Close())
	}

	s, err := Open(path, false)
	require.NoError(t, err)
	defer s.Close()
	_, want := runEngine(t, 6)
	for _, id := range ids {
		got, err := s.LoadRun(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want.Assignment, got.Result.Assignment)
	}
}
