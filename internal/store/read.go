package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoRuns is returned by LatestRun on an empty ledger.
var ErrNoRuns = errors.New("ledger has no runs")

const runColumns = `id, seq, created_at, features, artifact_hash, ir_version, generator_version, entity_count, failed, diagnostics`

// LatestRun returns the run with the highest seq, fragments included.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT 1
	`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, err
	}
	if run.Fragments, err = s.Fragments(ctx, run.ID); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ReadRun retrieves a run by ID, fragments included.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		return Run{}, err
	}
	if run.Fragments, err = s.Fragments(ctx, run.ID); err != nil {
		return Run{}, err
	}
	return run, nil
}

// Runs lists runs oldest first, without fragments. A limit of 0 or less
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY seq ASC, id COLLATE BINARY ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
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
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Fragments returns a run's fragments in artifact order.
// Returns an empty slice (not nil) if the run has none.
func (s *Store) Fragments(ctx context.Context, runID string) ([]Fragment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, entity, target, hash, entity_hash, text
		FROM fragments
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query fragments: %w", err)
	}
	defer rows.Close()

	frags := []Fragment{}
	for rows.Next() {
		var f Fragment
		if err := rows.Scan(&f.Position, &f.Entity, &f.Target, &f.Hash, &f.EntityHash, &f.Text); err != nil {
			return nil, fmt.Errorf("scan fragment: %w", err)
		}
		frags = append(frags, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fragments: %w", err)
	}
	return frags, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		createdAt string
		diags     string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&createdAt,
		&run.Features,
		&run.ArtifactHash,
		&run.IRVersion,
		&run.GeneratorVersion,
		&run.EntityCount,
		&run.Failed,
		&diags,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if run.CreatedAt, err = parseTime(createdAt); err != nil {
		return Run{}, err
	}
	if run.Diagnostics, err = unmarshalDiagnostics(diags); err != nil {
		return Run{}, err
	}
	return run, nil
}
