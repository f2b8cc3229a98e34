package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/features"
	"github.com/roach88/tixgen/internal/registry"
	"github.com/roach88/tixgen/internal/testutil"
)

// createTestStore creates a new store in a temp dir with a deterministic
// clock and sequential run IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path,
		WithClock(testutil.NewDeterministicClock()),
		WithIDGenerator(testutil.NewSequentialIDs("run")),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// buildRun generates decls and converts the artifact to a Run.
func buildRun(t *testing.T, decls ...compiler.Declaration) Run {
	t.Helper()
	r := registry.New(features.All())
	for _, d := range decls {
		r.Add(d)
	}
	art, err := r.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return NewRun(art)
}
