// Package history persists import-run records so back-office staff can
// review what was imported, when, and with which row-level messages.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no run exists with the requested id.
var ErrNotFound = errors.New("import run not found")

// Run is one completed import run.
type Run struct {
	ID       uuid.UUID     `json:"id"`
	Category string        `json:"category"`
	FileName string        `json:"fileName"`
	Status   string        `json:"status"`
	Success  int           `json:"success"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Errors   []string      `json:"errors"`
	Duration time.Duration `json:"duration"`
	RunAt    time.Time     `json:"runAt"`
}

// Store records import runs in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// New wires a store backed by pgxpool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the import_runs table when it does not exist yet.
// Called once on startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS import_runs (
			id          UUID PRIMARY KEY,
			category    TEXT NOT NULL,
			file_name   TEXT NOT NULL,
			status      TEXT NOT NULL,
			success     INT NOT NULL,
			failed      INT NOT NULL,
			skipped     INT NOT NULL,
			errors      TEXT[] NOT NULL DEFAULT '{}',
			duration_ms BIGINT NOT NULL,
			run_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure import_runs schema: %w", err)
	}
	return nil
}

// Record inserts a completed run.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO import_runs (id, category, file_name, status, success, failed, skipped, errors, duration_ms, run_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID,
		run.Category,
		run.FileName,
		run.Status,
		run.Success,
		run.Failed,
		run.Skipped,
		run.Errors,
		run.Duration.Milliseconds(),
		run.RunAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}
	return nil
}

// List returns recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, category, file_name, status, success, failed, skipped, errors, duration_ms, run_at
		FROM import_runs
		ORDER BY run_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import runs: %w", err)
	}
	return runs, nil
}

// Get returns one run by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, category, file_name, status, success, failed, skipped, errors, duration_ms, run_at
		FROM import_runs
		WHERE id = $1`, id)
	if err != nil {
		return Run{}, fmt.Errorf("failed to get import run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Run{}, fmt.Errorf("failed to get import run: %w", err)
		}
		return Run{}, ErrNotFound
	}
	return scanRun(rows)
}

func scanRun(rows pgx.Rows) (Run, error) {
	var (
		run        Run
		durationMS int64
	)
	if err := rows.Scan(
		&run.ID,
		&run.Category,
		&run.FileName,
		&run.Status,
		&run.Success,
		&run.Failed,
		&run.Skipped,
		&run.Errors,
		&durationMS,
		&run.RunAt,
	); err != nil {
		return Run{}, fmt.Errorf("failed to scan import run: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return run, nil
}
