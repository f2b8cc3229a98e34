package ir

// EntityRef is one use of a Reference inside an entity.
type EntityRef struct {
	Entity  string // wire name of the referencing entity
	Variant string // empty for records
	Field   string // wire name of the field
	Target  string
	Opaque  bool
}

// References lists every Reference reachable from e's fields, in field order.
func References(e *EntityNode) []EntityRef {
	var refs []EntityRef
	visit := func(variant string, fields []FieldNode) {
		for _, f := range fields {
			for _, r := range collectRefs(f.Type, nil) {
				refs = append(refs, EntityRef{
					Entity:  e.WireName,
					Variant: variant,
					Field:   f.WireName,
					Target:  r.Name,
					Opaque:  r.Opaque,
				})
			}
		}
	}
	switch k := e.Kind.(type) {
	case Record:
		visit("", k.Fields)
	case Union:
		for _, v := range k.Variants {
			visit(v.WireName, v.Fields)
		}
	}
	return refs
}

func collectRefs(t TypeNode, acc []Reference) []Reference {
	switch n := t.(type) {
	case Reference:
		return append(acc, n)
	case Optional:
		return collectRefs(n.Inner, acc)
	case List:
		return collectRefs(n.Elem, acc)
	case StringMap:
		return collectRefs(n.Value, acc)
	default:
		return acc
	}
}
