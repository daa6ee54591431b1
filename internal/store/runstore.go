package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mucar/barw/internal/sim"
	"github.com/mucar/barw/internal/walk"
)

// DBFileName is the name of the SQLite database file inside the data dir.
const DBFileName = "barw.db"

// RunMeta describes a stored run without its point histories.
type RunMeta struct {
	ID        int64
	Prob      float64
	FC        float64
	FS        float64
	TMax      int
	Seed      int64
	Steps     int
	Points    int
	CreatedAt time.Time
}

// RunStore persists simulation runs in a SQLite database.
type RunStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the run store under dir.
func Open(ctx context.Context, dir string) (*RunStore, error) {
	if err := EnsureDir(dir); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dir, DBFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc.org/sqlite serializes writers; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &RunStore{db: db, path: dbPath}, nil
}

// Path returns the location of the backing database file.
func (s *RunStore) Path() string { return s.path }

// Close closes the underlying database.
func (s *RunStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores a completed run and returns its assigned id.
func (s *RunStore) SaveRun(ctx context.Context, p sim.Params, res sim.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx, `
		INSERT INTO runs (prob, fc, fs, tmax, seed, steps, points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Prob, p.FC, p.FS, p.TMax, p.Seed,
		res.Steps(), len(res.Coordinates), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	ptStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (run_id, idx, x, y, branch, parent, gen, step)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer ptStmt.Close()
	for i, pt := range res.Coordinates {
		if _, err := ptStmt.ExecContext(ctx, id, i, pt.Pos.X, pt.Pos.Y, pt.Branch, pt.Parent, pt.Gen, pt.Step); err != nil {
			return 0, fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}

	angStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO angles (run_id, idx, degrees, gen) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare angle insert: %w", err)
	}
	defer angStmt.Close()
	for i, a := range res.Angles {
		if _, err := angStmt.ExecContext(ctx, id, i, a.Degrees, a.Gen); err != nil {
			return 0, fmt.Errorf("failed to insert angle %d: %w", i, err)
		}
	}

	evStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO evolve (run_id, step, tips) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare evolve insert: %w", err)
	}
	defer evStmt.Close()
	for step, tips := range res.Evolve {
		if _, err := evStmt.ExecContext(ctx, id, step, tips); err != nil {
			return 0, fmt.Errorf("failed to insert evolve entry %d: %w", step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// GetRun returns the metadata for one stored run.
func (s *RunStore) GetRun(ctx context.Context, id int64) (RunMeta, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, prob, fc, fs, tmax, seed, steps, points, created_at
		FROM runs WHERE id = ?`, id)
	m, err := scanRunMeta(row)
	if err == sql.ErrNoRows {
		return RunMeta{}, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return RunMeta{}, fmt.Errorf("failed to load run %d: %w", id, err)
	}
	return m, nil
}

// ListRuns returns metadata for all stored runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context) ([]RunMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prob, fc, fs, tmax, seed, steps, points, created_at
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunMeta
	for rows.Next() {
		m, err := scanRunMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadResult reconstructs the full result of a stored run.
func (s *RunStore) LoadResult(ctx context.Context, id int64) (sim.Result, error) {
	var res sim.Result

	if _, err := s.GetRun(ctx, id); err != nil {
		return res, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT x, y, branch, parent, gen, step
		FROM points WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return res, fmt.Errorf("failed to load points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pt walk.Point
		if err := rows.Scan(&pt.Pos.X, &pt.Pos.Y, &pt.Branch, &pt.Parent, &pt.Gen, &pt.Step); err != nil {
			return res, fmt.Errorf("failed to scan point: %w", err)
		}
		res.Coordinates = append(res.Coordinates, pt)
	}
	if err := rows.Err(); err != nil {
		return res, err
	}

	aRows, err := s.db.QueryContext(ctx, `
		SELECT degrees, gen FROM angles WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return res, fmt.Errorf("failed to load angles: %w", err)
	}
	defer aRows.Close()
	for aRows.Next() {
		var a sim.AngleRecord
		if err := aRows.Scan(&a.Degrees, &a.Gen); err != nil {
			return res, fmt.Errorf("failed to scan angle: %w", err)
		}
		res.Angles = append(res.Angles, a)
	}
	if err := aRows.Err(); err != nil {
		return res, err
	}

	eRows, err := s.db.QueryContext(ctx, `
		SELECT tips FROM evolve WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return res, fmt.Errorf("failed to load evolve counts: %w", err)
	}
	defer eRows.Close()
	for eRows.Next() {
		var n int
		if err := eRows.Scan(&n); err != nil {
			return res, fmt.Errorf("failed to scan evolve count: %w", err)
		}
		res.Evolve = append(res.Evolve, n)
	}
	return res, eRows.Err()
}

// DeleteRun removes a run and its histories.
func (s *RunStore) DeleteRun(ctx context.Context, id int64) error {
	r, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %d: %w", id, err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %d not found", id)
	}
	return nil
}

// Params reconstructs the parameterization of a stored run. The geometry is
// not persisted; callers supply it (typically from config).
func (m RunMeta) Params(g walk.Geometry) sim.Params {
	p := sim.DefaultParams()
	p.Prob = m.Prob
	p.FC = m.FC
	p.FS = m.FS
	p.TMax = m.TMax
	p.Seed = m.Seed
	p.Geometry = g
	return p
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunMeta(row rowScanner) (RunMeta, error) {
	var m RunMeta
	var created string
	err := row.Scan(&m.ID, &m.Prob, &m.FC, &m.FS, &m.TMax, &m.Seed, &m.Steps, &m.Points, &created)
	if err != nil {
		return m, err
	}
	if t, perr := time.Parse(time.RFC3339, created); perr == nil {
		m.CreatedAt = t
	}
	return m, nil
}
