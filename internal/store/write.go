package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/tixgen/internal/ir"
	"github.com/roach88/tixgen/internal/registry"
)

// Run is one recorded generation.
type Run struct {
	ID               string
	Seq              int64
	CreatedAt        time.Time
	Features         string
	ArtifactHash     string
	IRVersion        string
	GeneratorVersion string
	EntityCount      int
	Failed           bool
	Diagnostics      []Diagnostic
	Fragments        []Fragment
}

// Fragment is one stored emitter output.
type Fragment struct {
	Position   int
	Entity     string
	Target     string
	Hash       string
	EntityHash string
	Text       string
}

// NewRun converts a registry artifact into an unsaved Run.
func NewRun(art *registry.Artifact) Run {
	run := Run{
		Features:         art.Gate.String(),
		ArtifactHash:     art.Hash,
		IRVersion:        ir.IRVersion,
		GeneratorVersion: ir.GeneratorVersion,
		EntityCount:      len(art.Entities),
		Failed:           art.Failed(),
	}
	for _, d := range art.Diagnostics {
		run.Diagnostics = append(run.Diagnostics, Diagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Entity:   d.Entity,
			Field:    d.Field,
			Message:  d.Message,
		})
	}
	for i, f := range art.Fragments {
		run.Fragments = append(run.Fragments, Fragment{
			Position:   i,
			Entity:     f.Entity,
			Target:     string(f.Target),
			Hash:       f.Hash,
			EntityHash: f.EntityHash,
			Text:       f.Text,
		})
	}
	return run
}

// RecordRun inserts run and its fragments in one transaction. ID, Seq and
// CreatedAt are assigned by the store; the saved run is returned.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	diagsJSON, err := marshalDiagnostics(run.Diagnostics)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM runs").Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}
	run.ID = s.ids.Generate()
	run.CreatedAt = s.clock.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, created_at, features, artifact_hash, ir_version, generator_version, entity_count, failed, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		formatTime(run.CreatedAt),
		run.Features,
		run.ArtifactHash,
		run.IRVersion,
		run.GeneratorVersion,
		run.EntityCount,
		run.Failed,
		diagsJSON,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	for _, f := range run.Fragments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO fragments (run_id, position, entity, target, hash, entity_hash, text)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, f.Position, f.Entity, f.Target, f.Hash, f.EntityHash, f.Text)
		if err != nil {
			return Run{}, fmt.Errorf("record fragment %s/%s: %w", f.Entity, f.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	slog.Debug("run recorded", "id", run.ID, "seq", run.Seq, "fragments", len(run.Fragments))
	return run, nil
}
