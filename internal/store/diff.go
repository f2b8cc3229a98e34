package store

// ChangeKind classifies a fragment difference between two runs.
type ChangeKind string

const (
	Added   ChangeKind = "added"
	Removed ChangeKind = "removed"
	Changed ChangeKind = "changed"
)

// Change is one fragment that differs between two runs.
type Change struct {
	Entity  string     `json:"entity"`
	Target  string     `json:"target"`
	Kind    ChangeKind `json:"kind"`
	OldHash string     `json:"old_hash,omitempty"`
	NewHash string     `json:"new_hash,omitempty"`
}

type fragmentKey struct {
	entity, target string
}

// Diff compares fragments by (entity, target) and hash. Added and changed
// fragments come first in next's order, then removed ones in prev's order.
// Position changes alone are not reported.
func Diff(prev, next []Fragment) []Change {
	old := make(map[fragmentKey]string, len(prev))
	for _, f := range prev {
		old[fragmentKey{f.Entity, f.Target}] = f.Hash
	}

	var changes []Change
	seen := make(map[fragmentKey]bool, len(next))
	for _, f := range next {
		k := fragmentKey{f.Entity, f.Target}
		seen[k] = true
		h, ok := old[k]
		switch {
		case !ok:
			changes = append(changes, Change{Entity: f.Entity, Target: f.Target, Kind: Added, NewHash: f.Hash})
		case h != f.Hash:
			changes = append(changes, Change{Entity: f.Entity, Target: f.Target, Kind: Changed, OldHash: h, NewHash: f.Hash})
		}
	}
	for _, f := range prev {
		if !seen[fragmentKey{f.Entity, f.Target}] {
			changes = append(changes, Change{Entity: f.Entity, Target: f.Target, Kind: Removed, OldHash: f.Hash})
		}
	}
	return changes
}
