// Package runlog keeps a file-backed history of batch runs so repeated
// invocations over the same export folder can be audited.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	path         TEXT NOT NULL,
	company      TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	elapsed_ms   INTEGER NOT NULL DEFAULT 0,
	processed_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_run_id ON runs(run_id);
`

// Run is one processed file inside a batch run.
type Run struct {
	RunID       string
	Path        string
	Company     string
	Status      string
	Error       string
	Elapsed     time.Duration
	ProcessedAt time.Time
}

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the run log database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init run log schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun appends one processed file to the history.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, path, company, status, error, elapsed_ms, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Path, r.Company, r.Status, r.Error,
		r.Elapsed.Milliseconds(), r.ProcessedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the history for one batch run id, oldest first.
func (s *Store) ListRuns(ctx context.Context, runID string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, path, company, status, error, elapsed_ms, processed_at
		 FROM runs WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var elapsedMS int64
		var processedAt string
		if err := rows.Scan(&r.RunID, &r.Path, &r.Company, &r.Status, &r.Error, &elapsedMS, &processedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339, processedAt); err == nil {
			r.ProcessedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
