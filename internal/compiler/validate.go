package compiler

import (
	"fmt"

	"github.com/roach88/tixgen/internal/ir"
)

// ValidationError is one broken IR invariant.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the invariants every emitter relies on. Entities built by
// Classify always pass; hand-built IR may not. Returns all errors found.
func Validate(e *ir.EntityNode) []ValidationError {
	if e == nil {
		return []ValidationError{{Field: "entity", Message: "entity is nil", Code: ErrInvariant}}
	}
	v := &validator{}
	if e.WireName == "" {
		v.add("entity", ErrInvariant, "wire name is empty")
	}
	if len(e.Doc) == 0 {
		v.add("entity", ErrInvariant, "doc is empty")
	}

	switch k := e.Kind.(type) {
	case ir.Record:
		v.fields("", k.Fields)
	case ir.Union:
		v.union(k)
	default:
		v.add("entity", ErrInvariant, fmt.Sprintf("unknown entity kind %T", e.Kind))
	}
	return v.errs
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(field, code, msg string) {
	v.errs = append(v.errs, ValidationError{Field: field, Code: code, Message: msg})
}

func (v *validator) union(u ir.Union) {
	if len(u.Variants) == 0 {
		v.add("variants", ErrInvariant, "union has no variants")
		return
	}

	hasFields := false
	seen := make(map[string]bool, len(u.Variants))
	for _, variant := range u.Variants {
		if variant.WireName == "" {
			v.add("variants", ErrInvariant, "variant wire name is empty")
		}
		if seen[variant.WireName] {
			v.add(variant.WireName, ErrDuplicateWireName, "duplicate variant wire name")
		}
		seen[variant.WireName] = true
		if len(variant.Fields) > 0 {
			hasFields = true
		}
		v.fields(variant.WireName, variant.Fields)
		if u.TagKey == "" {
			continue
		}
		for _, f := range variant.Fields {
			if f.WireName == u.TagKey {
				v.add(variant.WireName+"."+f.WireName, ErrTagFieldCollision, "field collides with the discriminant")
			}
		}
	}

	switch {
	case hasFields && u.TagKey == "":
		v.add("tag", ErrInvariant, "union with fields needs a discriminant key")
	case !hasFields && u.TagKey != "":
		v.add("tag", ErrInvariant, "plain union must not carry a discriminant key")
	}
}

func (v *validator) fields(variant string, fields []ir.FieldNode) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		label := f.WireName
		if variant != "" {
			label = variant + "." + f.WireName
		}
		if f.WireName == "" {
			v.add(label, ErrInvariant, "field wire name is empty")
		}
		if seen[f.WireName] {
			v.add(label, ErrDuplicateWireName, "duplicate field wire name")
		}
		seen[f.WireName] = true

		if f.Type == nil {
			v.add(label, ErrInvariant, "field has no type")
			continue
		}
		_, optional := f.Type.(ir.Optional)
		if f.Required == optional {
			v.add(label, ErrInvariant, "required must be true exactly when the type is not optional")
		}
		v.typ(label, f.Type, true)

		isString := ir.Unwrap(f.Type) == ir.TypeNode(ir.Primitive{Kind: ir.String})
		if !f.Constraints.IsZero() && !isString {
			v.add(label, ErrInvalidConstraint, "constraints only apply to string fields")
		}
		if f.Constraints.MinLength != nil && *f.Constraints.MinLength < 0 {
			v.add(label, ErrInvalidConstraint, "min length is negative")
		}
	}
}

func (v *validator) typ(label string, t ir.TypeNode, top bool) {
	switch n := t.(type) {
	case ir.Optional:
		if !top {
			v.add(label, ErrUnsupportedType, "optional is only allowed at field level")
		}
		if _, nested := n.Inner.(ir.Optional); nested {
			v.add(label, ErrNestedOptional, "nested optional")
			return
		}
		v.typ(label, n.Inner, false)
	case ir.List:
		v.typ(label, n.Elem, false)
	case ir.StringMap:
		v.typ(label, n.Value, false)
	case ir.Reference:
		if n.Name == "" {
			v.add(label, ErrInvariant, "reference has no name")
		}
	case nil:
		v.add(label, ErrInvariant, "missing type")
	}
}
