// Package ledger keeps a local SQLite record of ingestion runs: which
// directories were processed, which document was created, and what happened
// to each file. The ledger is an audit trail only; the pipeline never reads
// it back, and a ledger failure must never fail a run.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/emichr/RSpace-NTNU-workshop/experiment"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    root TEXT NOT NULL,
    document_id INTEGER NOT NULL,
    document_name TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    finished_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS outcomes (
    run_id INTEGER NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    path TEXT NOT NULL,
    size INTEGER NOT NULL,
    status TEXT NOT NULL,
    file_id INTEGER,
    detail TEXT,
    PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status);
`

// Ledger wraps the runs database.
type Ledger struct {
	db *sql.DB
}

// Open opens (and if needed creates) the ledger database at path, applying
// the WAL/busy-timeout pragmas used across the toolkit's SQLite stores.
func Open(path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("ledger: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: init schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun persists one completed run and its per-file outcomes in a single
// transaction. startedAt/finishedAt bound the run wall-clock interval.
func (l *Ledger) RecordRun(ctx context.Context, report *experiment.Report, startedAt, finishedAt time.Time) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ledger: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (root, document_id, document_name, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?)`,
		report.Root, report.DocumentID, report.DocumentName,
		startedAt.Unix(), finishedAt.Unix())
	if err != nil {
		return fmt.Errorf("ledger: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("ledger: run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, position, path, size, status, file_id, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("ledger: prepare outcomes: %w", err)
	}
	defer stmt.Close()

	for i, o := range report.Outcomes {
		var fileID any
		if o.FileID != 0 {
			fileID = o.FileID
		}
		if _, err := stmt.ExecContext(ctx, runID, i, o.Ref.Path, o.Ref.Size, string(o.Status), fileID, o.Detail); err != nil {
			return fmt.Errorf("ledger: insert outcome %s: %w", o.Ref.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ledger: commit: %w", err)
	}
	return nil
}

// RunSummary is one row of the run history.
type RunSummary struct {
	RunID        int64
	Root         string
	DocumentID   int64
	DocumentName string
	StartedAt    time.Time
	FinishedAt   time.Time
	Files        int
	Uploaded     int
}

// Runs returns the most recent runs, newest first, up to limit.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT r.run_id, r.root, r.document_id, r.document_name, r.started_at, r.finished_at,
		       COUNT(o.path),
		       COALESCE(SUM(CASE WHEN o.status = 'uploaded' THEN 1 ELSE 0 END), 0)
		FROM runs r LEFT JOIN outcomes o ON o.run_id = r.run_id
		GROUP BY r.run_id
		ORDER BY r.run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var started, finished int64
		if err := rows.Scan(&s.RunID, &s.Root, &s.DocumentID, &s.DocumentName,
			&started, &finished, &s.Files, &s.Uploaded); err != nil {
			return nil, fmt.Errorf("ledger: scan run: %w", err)
		}
		s.StartedAt = time.Unix(started, 0)
		s.FinishedAt = time.Unix(finished, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}
