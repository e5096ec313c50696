package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/yyyoichi/gengroups"
	"github.com/yyyoichi/gengroups/internal/groups"
	"github.com/yyyoichi/gengroups/internal/packing"
)

var ErrNotFound = errors.New("run not found")

func packOptions(ecc bool) []packing.Option {
	if ecc {
		return []packing.Option{packing.WithGolay(packing.DefaultInterleaveSeed)}
	}
	return []packing.Option{packing.WithoutECC()}
}

// SaveRun stores run and res in one transaction and returns the new run ID.
// The ID, creation time and result summary fields of run are filled in only
// once the transaction has committed.
func (s *Store) SaveRun(ctx context.Context, run *Run, res *gengroups.Result) (string, error) {
	packed, err := packing.Pack(res.Assignment, run.Params.Groups, packOptions(s.ecc)...)
	if err != nil {
		return "", fmt.Errorf("failed to pack assignment: %w", err)
	}
	saved := *run
	saved.ID = uuid.NewString()
	saved.CreatedAt = time.Now().UTC()
	saved.Elements = len(res.Assignment)
	saved.Iterations = res.Iterations
	saved.State = res.State

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p := saved.Params
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, created_at, label,
			elements, group_count, features, diseases, max_elements, max_iterations, delta, seed, workers,
			iterations, state,
			assignment, assignment_bits, assignment_width, ecc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.CreatedAt.UnixNano(), saved.Label,
		saved.Elements, p.Groups, p.Features, p.Diseases, p.MaxElements, p.MaxIterations, p.Delta, saved.Seed, p.Workers,
		saved.Iterations, saved.State.String(),
		packed.Bytes(), packed.Bits, packed.Width, packed.ECC,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	gstmt, err := tx.PrepareContext(ctx,
		"INSERT INTO run_groups (run_id, group_id, size, compactness, centroid) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare group insert: %w", err)
	}
	defer gstmt.Close()
	for g, c := range res.Centroids {
		centroid, err := json.Marshal(c)
		if err != nil {
			return "", fmt.Errorf("failed to encode centroid %d: %w", g, err)
		}
		if _, err := gstmt.ExecContext(ctx, saved.ID, g, res.Sizes[g], res.Compactness[g], string(centroid)); err != nil {
			return "", fmt.Errorf("failed to insert group %d: %w", g, err)
		}
	}

	dstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_diseases (run_id, disease_id, max_median, max_group, min_median, min_group)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare disease insert: %w", err)
	}
	defer dstmt.Close()
	for i, d := range res.Diseases {
		maxMedian, maxGroup := extreme(d.Max, d.MaxGroup)
		minMedian, minGroup := extreme(d.Min, d.MinGroup)
		if _, err := dstmt.ExecContext(ctx, saved.ID, i, maxMedian, maxGroup, minMedian, minGroup); err != nil {
			return "", fmt.Errorf("failed to insert disease %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	*run = saved
	return saved.ID, nil
}

// extreme stores an unclaimed extreme as NULL.
func extreme(median float64, group int) (sql.NullFloat64, sql.NullInt64) {
	if group == gengroups.NoGroup {
		return sql.NullFloat64{}, sql.NullInt64{}
	}
	return sql.NullFloat64{Float64: median, Valid: true}, sql.NullInt64{Int64: int64(group), Valid: true}
}

const runColumns = `
	id, created_at, label,
	elements, group_count, features, diseases, max_elements, max_iterations, delta, seed, workers,
	iterations, state`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, extra ...any) (*Run, error) {
	var (
		r       Run
		created int64
		state   string
		p       = &r.Params
	)
	dest := append([]any{
		&r.ID, &created, &r.Label,
		&r.Elements, &p.Groups, &p.Features, &p.Diseases, &p.MaxElements, &p.MaxIterations, &p.Delta, &r.Seed, &p.Workers,
		&r.Iterations, &state,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	st, err := gengroups.ParseState(state)
	if err != nil {
		return nil, err
	}
	r.State = st
	r.CreatedAt = time.Unix(0, created).UTC()
	return &r, nil
}

// ListRuns returns every archived run, newest first, without results.
func (s *Store) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT"+runColumns+" FROM runs ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadRun returns the run with id and its full result, including the
// decoded assignment vector and the group index rebuilt from it.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	var (
		blob   []byte
		bits   int
		width  int
		hasECC bool
	)
	row := s.db.QueryRowContext(ctx,
		"SELECT"+runColumns+", assignment, assignment_bits, assignment_width, ecc FROM runs WHERE id = ?", id)
	r, err := scanRun(row, &blob, &bits, &width, &hasECC)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	words, err := packing.Words(blob)
	if err != nil {
		return nil, err
	}
	assign, err := packing.Unpack(&packing.Packed{
		Data:  words,
		Bits:  bits,
		Count: r.Elements,
		Width: width,
		ECC:   hasECC,
	}, packOptions(hasECC)...)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack assignment: %w", err)
	}

	res := &gengroups.Result{
		Centroids:   make([][]float64, r.Params.Groups),
		Assignment:  assign,
		Sizes:       make([]int, r.Params.Groups),
		Compactness: make([]float64, r.Params.Groups),
		Diseases:    make([]gengroups.DiseaseStats, r.Params.Diseases),
		Iterations:  r.Iterations,
		State:       r.State,
	}
	if err := s.loadGroups(ctx, id, res); err != nil {
		return nil, err
	}
	if err := s.loadDiseases(ctx, id, res); err != nil {
		return nil, err
	}
	res.Groups, err = groups.Build(assign, r.Params.Groups, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild group index: %w", err)
	}
	r.Result = res
	return r, nil
}

func (s *Store) loadGroups(ctx context.Context, id string, res *gengroups.Result) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, size, compactness, centroid FROM run_groups WHERE run_id = ? ORDER BY group_id", id)
	if err != nil {
		return fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			g        int
			size     int
			compact  float64
			centroid string
		)
		if err := rows.Scan(&g, &size, &compact, &centroid); err != nil {
			return fmt.Errorf("failed to scan group: %w", err)
		}
		if g < 0 || g >= len(res.Centroids) {
			return fmt.Errorf("group %d out of range", g)
		}
		if err := json.Unmarshal([]byte(centroid), &res.Centroids[g]); err != nil {
			return fmt.Errorf("failed to decode centroid %d: %w", g, err)
		}
		res.Sizes[g] = size
		res.Compactness[g] = compact
	}
	return rows.Err()
}

func (s *Store) loadDiseases(ctx context.Context, id string, res *gengroups.Result) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT disease_id, max_median, max_group, min_median, min_group
		FROM run_diseases WHERE run_id = ? ORDER BY disease_id`, id)
	if err != nil {
		return fmt.Errorf("failed to query diseases: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			i                    int
			maxMedian, minMedian sql.NullFloat64
			maxGroup, minGroup   sql.NullInt64
		)
		if err := rows.Scan(&i, &maxMedian, &maxGroup, &minMedian, &minGroup); err != nil {
			return fmt.Errorf("failed to scan disease: %w", err)
		}
		if i < 0 || i >= len(res.Diseases) {
			return fmt.Errorf("disease %d out of range", i)
		}
		d := gengroups.DiseaseStats{
			Max: math.Inf(-1), MaxGroup: gengroups.NoGroup,
			Min: math.Inf(1), MinGroup: gengroups.NoGroup,
		}
		if maxGroup.Valid {
			d.Max, d.MaxGroup = maxMedian.Float64, int(maxGroup.Int64)
		}
		if minGroup.Valid {
			d.Min, d.MinGroup = minMedian.Float64, int(minGroup.Int64)
		}
		res.Diseases[i] = d
	}
	return rows.Err()
}
