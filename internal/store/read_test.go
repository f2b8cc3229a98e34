package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/roach88/tixgen/internal/ir"
	"github.com/roach88/tixgen/internal/testutil"
)

func TestLatestRun_Empty(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LatestRun(context.Background())
	if !errors.Is(err, ErrNoRuns) {
		t.Fatalf("LatestRun() error = %v, want ErrNoRuns", err)
	}
}

func TestLatestRun_ReturnsHighestSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.RecordRun(ctx, buildRun(t, testutil.StatusDecl())); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	want, err := s.RecordRun(ctx, buildRun(t, testutil.UserDecl()))
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	got, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun() failed: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("LatestRun().ID = %q, want %q", got.ID, want.ID)
	}
	if got.ArtifactHash != want.ArtifactHash {
		t.Errorf("ArtifactHash = %q, want %q", got.ArtifactHash, want.ArtifactHash)
	}
	if got.IRVersion != ir.IRVersion || got.GeneratorVersion != ir.GeneratorVersion {
		t.Errorf("versions = %q/%q", got.IRVersion, got.GeneratorVersion)
	}
	if got.Features != "naming,validation,jsonschema,identifier,structural" {
		t.Errorf("Features = %q", got.Features)
	}
	if len(got.Fragments) != 3 || got.Fragments[0].Entity != "User" {
		t.Errorf("fragments = %+v", got.Fragments)
	}
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("ReadRun() error = %v, want sql.ErrNoRows", err)
	}
}

func TestRuns_Ordering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.RecordRun(ctx, buildRun(t, testutil.StatusDecl())); err != nil {
			t.Fatalf("RecordRun() %d failed: %v", i, err)
		}
	}

	runs, err := s.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i, r := range runs {
		if r.Seq != int64(i+1) {
			t.Errorf("runs[%d].Seq = %d", i, r.Seq)
		}
		if r.Fragments != nil {
			t.Errorf("runs[%d] carries fragments", i)
		}
	}

	limited, err := s.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs(2) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Runs(2) returned %d runs", len(limited))
	}
}

func TestFragments_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	frags, err := s.Fragments(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Fragments() failed: %v", err)
	}
	if frags == nil || len(frags) != 0 {
		t.Errorf("Fragments() = %v, want empty non-nil slice", frags)
	}
}
