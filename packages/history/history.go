// Package history persists run results to a local SQLite database so
// repeated invocations can be compared and flaky tests spotted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/crucible-dev/crucible/packages/output"
)

const queryTimeout = 30 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	prog_name   TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	xfailed     INTEGER NOT NULL,
	xpassed     INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id      INTEGER NOT NULL REFERENCES runs(id),
	number      INTEGER NOT NULL,
	name        TEXT NOT NULL,
	verdict     TEXT NOT NULL,
	detail      TEXT,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_name ON results(name);
`

// Store is a run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts one run and all its per-test results, returning the
// new run's id.
func (s *Store) RecordRun(r *output.Report, startedAt time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (prog_name, started_at, passed, failed, xfailed, xpassed, skipped, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ProgName, startedAt.UTC(), r.Passed, r.Failed, r.XFailed, r.XPassed, r.Skipped, r.DurationMs)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, number, name, verdict, detail, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for _, tr := range r.Results {
		if _, err := stmt.ExecContext(ctx,
			runID, tr.Number, tr.Name, tr.VerdictStr, tr.Detail, tr.DurationMs); err != nil {
			return 0, fmt.Errorf("inserting result %d: %w", tr.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing history transaction: %w", err)
	}
	return runID, nil
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID         int64
	ProgName   string
	StartedAt  time.Time
	Passed     int
	Failed     int
	XFailed    int
	XPassed    int
	Skipped    int
	DurationMs int64
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prog_name, started_at, passed, failed, xfailed, xpassed, skipped, duration_ms
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.ProgName, &r.StartedAt,
			&r.Passed, &r.Failed, &r.XFailed, &r.XPassed, &r.Skipped, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// VerdictCount pairs a verdict with how often a test produced it.
type VerdictCount struct {
	Verdict string
	Count   int
}

// TestHistory returns how often the named test produced each verdict
// across recorded runs. Tests that alternate between PASS and FAIL are
// the flaky ones.
func (s *Store) TestHistory(name string) ([]VerdictCount, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT verdict, COUNT(*) FROM results WHERE name = ? GROUP BY verdict ORDER BY verdict`, name)
	if err != nil {
		return nil, fmt.Errorf("querying test history: %w", err)
	}
	defer rows.Close()

	var out []VerdictCount
	for rows.Next() {
		var vc VerdictCount
		if err := rows.Scan(&vc.Verdict, &vc.Count); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}
