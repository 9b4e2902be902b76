// Package history persists batch run outcomes to SQLite so completed runs
// stay queryable after their report and state files are gone.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Run is one recorded batch invocation.
type Run struct {
	ID              int64
	InputDir        string
	OutputDir       string
	Model           string
	OutputFormat    string
	StartedAt       string
	FinishedAt      string
	TotalFiles      int
	Successful      int
	Failed          int
	Skipped         int
	DurationSeconds float64
}

// FileRecord is one file outcome within a run.
type FileRecord struct {
	FilePath        string
	Success         bool
	OutputPath      string
	Error           string
	DurationSeconds float64
	Timestamp       string
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// RecordRun inserts a run and its per-file outcomes in one transaction and
// returns the new run id.
func (s *Store) RecordRun(ctx context.Context, run Run, files []FileRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin history transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO batch_runs (
            input_dir, output_dir, model, output_format,
            started_at, finished_at, total_files, successful,
            failed, skipped, duration_seconds
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.InputDir, run.OutputDir, run.Model, run.OutputFormat,
		run.StartedAt, run.FinishedAt, run.TotalFiles, run.Successful,
		run.Failed, run.Skipped, run.DurationSeconds,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, file := range files {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO batch_run_files (
                run_id, file_path, success, output_path,
                error, duration_seconds, timestamp
            ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, file.FilePath, boolToInt(file.Success), file.OutputPath,
			file.Error, file.DurationSeconds, file.Timestamp,
		); err != nil {
			return 0, fmt.Errorf("insert run file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit history transaction: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_dir, output_dir, model, output_format,
            started_at, finished_at, total_files, successful,
            failed, skipped, duration_seconds
        FROM batch_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.InputDir, &run.OutputDir, &run.Model, &run.OutputFormat,
			&run.StartedAt, &run.FinishedAt, &run.TotalFiles, &run.Successful,
			&run.Failed, &run.Skipped, &run.DurationSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunFiles returns the per-file outcomes of a run in insertion order.
func (s *Store) RunFiles(ctx context.Context, runID int64) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_path, success, output_path, error, duration_seconds, timestamp
        FROM batch_run_files WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var file FileRecord
		var success int
		if err := rows.Scan(
			&file.FilePath, &success, &file.OutputPath,
			&file.Error, &file.DurationSeconds, &file.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		file.Success = success != 0
		files = append(files, file)
	}
	return files, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
