package store

import (
	"reflect"
	"testing"

	"github.com/roach88/tixgen/internal/testutil"
)

func frag(entity, target, hash string) Fragment {
	return Fragment{Entity: entity, Target: target, Hash: hash}
}

func TestDiff(t *testing.T) {
	prev := []Fragment{
		frag("User", "typescript", "a"),
		frag("User", "zod", "b"),
		frag("Gone", "typescript", "c"),
	}
	next := []Fragment{
		frag("User", "typescript", "a"),
		frag("User", "zod", "b2"),
		frag("New", "typescript", "d"),
	}

	got := Diff(prev, next)
	want := []Change{
		{Entity: "User", Target: "zod", Kind: Changed, OldHash: "b", NewHash: "b2"},
		{Entity: "New", Target: "typescript", Kind: Added, NewHash: "d"},
		{Entity: "Gone", Target: "typescript", Kind: Removed, OldHash: "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Diff() = %+v\nwant %+v", got, want)
	}
}

func TestDiff_Identical(t *testing.T) {
	frags := []Fragment{frag("A", "zod", "x"), frag("B", "zod", "y")}
	reordered := []Fragment{frags[1], frags[0]}

	if got := Diff(frags, reordered); len(got) != 0 {
		t.Errorf("Diff() of reordered fragments = %+v, want none", got)
	}
}

func TestDiff_RecordedRuns(t *testing.T) {
	prev := buildRun(t, testutil.StatusDecl(), testutil.UserDecl())
	next := buildRun(t, testutil.StatusDecl())

	changes := Diff(prev.Fragments, next.Fragments)
	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(changes))
	}
	for _, c := range changes {
		if c.Kind != Removed || c.Entity != "User" {
			t.Errorf("unexpected change %+v", c)
		}
	}
}
