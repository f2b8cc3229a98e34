package naming

// Name is one declared field or variant name plus its explicit rename.
type Name struct {
	Declared string
	Rename   string // empty when no per-name rename was given
}

// WireName applies an explicit rename, falling back to the policy.
func WireName(n Name, p Policy) string {
	if n.Rename != "" {
		return n.Rename
	}
	return p.Apply(n.Declared)
}

// Resolve computes the wire name of every name in order and rejects
// collisions within one entity.
func Resolve(entity string, names []Name, p Policy) ([]string, error) {
	wire := make([]string, len(names))
	seen := make(map[string]string, len(names))
	for i, n := range names {
		w := WireName(n, p)
		if first, ok := seen[w]; ok {
			return nil, &DuplicateWireNameError{
				Entity:   entity,
				First:    first,
				Second:   n.Declared,
				WireName: w,
			}
		}
		seen[w] = n.Declared
		wire[i] = w
	}
	return wire, nil
}
