package emit

import (
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/roach88/tixgen/internal/ir"
)

// Quote renders s as a double-quoted JavaScript string literal.
func Quote(s string) string {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		// a Go string always marshals
		panic(err)
	}
	return string(b)
}

// PropertyKey renders name as an object key, quoting it unless it is a
// plain identifier.
func PropertyKey(name string) string {
	if isIdentifier(name) {
		return name
	}
	return Quote(name)
}

// Access renders a property read on obj.
func Access(obj, name string) string {
	if isIdentifier(name) {
		return obj + "." + name
	}
	return obj + "[" + Quote(name) + "]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// FieldDoc returns the doc lines rendered above a field, including the
// constraint notes a reader of the structural type cannot otherwise see.
func FieldDoc(f ir.FieldNode) []string {
	out := append([]string(nil), f.Doc...)
	if n := f.Constraints.MinLength; n != nil {
		out = append(out, "", "Minimum length: "+strconv.Itoa(*n))
	}
	return out
}
