// Package history persists run reports to a local SQLite database so
// operators can compare packaging runs over time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/debbuilder/internal/report"
)

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// RunRow is one persisted run.
type RunRow struct {
	RunID     string
	Timestamp time.Time
	Total     int
	Succeeded int
	Failed    int
	Artifacts []string
}

// Open opens (and initializes) the database at dbPath. Use ":memory:" for
// tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite is single-writer, and :memory: databases are per-connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		total INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		artifacts TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS run_units (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		unit TEXT NOT NULL,
		outcome TEXT NOT NULL,
		kind TEXT NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_run_units_run_id ON run_units(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save records a finished run and its per-package outcomes.
func (s *Store) Save(ctx context.Context, rep report.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, timestamp, total, succeeded, failed, artifacts) VALUES (?, ?, ?, ?, ?, ?)",
		rep.RunID, time.Now().Unix(), rep.Total, rep.Succeeded, rep.Failed, strings.Join(rep.Artifacts, "\n"),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, res := range rep.Results {
		outcome := "success"
		if !res.Succeeded() {
			outcome = "failure"
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_units (run_id, unit, outcome, kind, duration_ms) VALUES (?, ?, ?, ?, ?)",
			rep.RunID, res.Unit, outcome, string(res.Kind), res.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert run unit: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns the latest n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]RunRow, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT run_id, timestamp, total, succeeded, failed, artifacts FROM runs ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		var ts int64
		var artifacts string
		if err := rows.Scan(&r.RunID, &ts, &r.Total, &r.Succeeded, &r.Failed, &artifacts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Timestamp = time.Unix(ts, 0)
		if artifacts != "" {
			r.Artifacts = strings.Split(artifacts, "\n")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
