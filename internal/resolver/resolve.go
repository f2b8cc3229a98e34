// Package resolver classifies declared type expressions into ir.TypeNode.
//
// Recognized spellings map onto the closed type vocabulary; any other bare
// name becomes a Reference so sibling entities may be declared in any order.
// Unknown generic shapes fail closed.
package resolver

import (
	"fmt"
	"strings"

	"github.com/roach88/tixgen/internal/diagnostic"
	"github.com/roach88/tixgen/internal/features"
	"github.com/roach88/tixgen/internal/ir"
)

// Suffix is the declared-name marker dropped to form a wire name.
const Suffix = "Json"

// IdentifierName is the identifier-type spelling.
const IdentifierName = "ObjectId"

var primitives = map[string]ir.PrimitiveKind{
	"bool":    ir.Boolean,
	"boolean": ir.Boolean,
	"String":  ir.String,
	"string":  ir.String,
	"str":     ir.String,
	"u8":      ir.Integer,
	"u16":     ir.Integer,
	"u32":     ir.Integer,
	"u64":     ir.Integer,
	"u128":    ir.Integer,
	"i8":      ir.Integer,
	"i16":     ir.Integer,
	"i32":     ir.Integer,
	"i64":     ir.Integer,
	"i128":    ir.Integer,
	"usize":   ir.Integer,
	"isize":   ir.Integer,
	"int":     ir.Integer,
	"integer": ir.Integer,
	"f32":     ir.Float,
	"f64":     ir.Float,
	"float":   ir.Float,
	"number":  ir.Float,
}

type wrapper int

const (
	optionalWrapper wrapper = iota
	listWrapper
	mapWrapper
)

var wrappers = map[string]wrapper{
	"Option":   optionalWrapper,
	"Vec":      listWrapper,
	"List":     listWrapper,
	"HashSet":  listWrapper,
	"BTreeSet": listWrapper,
	sliceName:  listWrapper,
	"HashMap":  mapWrapper,
	"BTreeMap": mapWrapper,
	"Map":      mapWrapper,
}

// Context carries what resolution may consult besides the expression.
// Entity and Field only label diagnostics.
type Context struct {
	Gate   features.Gate
	Diag   *diagnostic.Collector
	Entity string
	Field  string
	Pos    diagnostic.Position
}

// Resolve parses and classifies a type expression.
func Resolve(expr string, ctx Context) (ir.TypeNode, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return ResolveExpr(e, ctx)
}

// ResolveExpr classifies an already parsed expression. Optional is only
// accepted at the top level: inside a collection it has no wire form.
func ResolveExpr(e *Expr, ctx Context) (ir.TypeNode, error) {
	return resolve(e, ctx, true)
}

func resolve(e *Expr, ctx Context, top bool) (ir.TypeNode, error) {
	if kind, ok := primitives[e.Name]; ok {
		if len(e.Args) > 0 {
			return nil, &UnsupportedTypeError{Expr: e.String(), Reason: "primitive types take no arguments"}
		}
		return ir.Primitive{Kind: kind}, nil
	}

	if e.Name == IdentifierName {
		if len(e.Args) > 0 {
			return nil, &UnsupportedTypeError{Expr: e.String(), Reason: "identifier type takes no arguments"}
		}
		if ctx.Gate.Identifier {
			return ir.Identifier{}, nil
		}
		ctx.Diag.Add(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Code:     diagnostic.CodeIdentifierDisabled,
			Entity:   ctx.Entity,
			Field:    ctx.Field,
			Message:  fmt.Sprintf("identifier capability is disabled; %s degraded to an opaque reference", IdentifierName),
			Hint:     "enable the identifier capability (--features identifier)",
			Pos:      ctx.Pos,
		})
		return ir.Reference{Name: IdentifierName, Opaque: true}, nil
	}

	w, isWrapper := wrappers[e.Name]
	if !isWrapper {
		if len(e.Args) > 0 {
			return nil, &UnsupportedTypeError{Expr: e.String(), Reason: fmt.Sprintf("unknown generic type %s", e.Name)}
		}
		return ir.Reference{Name: StripSuffix(e.Name)}, nil
	}

	switch w {
	case optionalWrapper:
		if len(e.Args) != 1 {
			return nil, arityError(e, 1)
		}
		if inner := e.Args[0]; inner.Name == "Option" {
			return nil, &NestedOptionalError{Expr: e.String()}
		}
		if !top {
			return nil, &UnsupportedTypeError{Expr: e.String(), Reason: "optional is only allowed at field level"}
		}
		inner, err := resolve(e.Args[0], ctx, false)
		if err != nil {
			return nil, err
		}
		return ir.Optional{Inner: inner}, nil

	case listWrapper:
		if len(e.Args) != 1 {
			return nil, arityError(e, 1)
		}
		elem, err := resolve(e.Args[0], ctx, false)
		if err != nil {
			return nil, err
		}
		return ir.List{Elem: elem}, nil

	default: // mapWrapper
		if len(e.Args) != 2 {
			return nil, arityError(e, 2)
		}
		key := e.Args[0]
		if kind, ok := primitives[key.Name]; !ok || kind != ir.String || len(key.Args) > 0 {
			return nil, &UnsupportedMapKeyError{Expr: e.String(), KeyType: key.String()}
		}
		value, err := resolve(e.Args[1], ctx, false)
		if err != nil {
			return nil, err
		}
		return ir.StringMap{Value: value}, nil
	}
}

func arityError(e *Expr, want int) error {
	return &UnsupportedTypeError{
		Expr:   e.String(),
		Reason: fmt.Sprintf("%s takes %d type argument(s), got %d", e.Name, want, len(e.Args)),
	}
}

// StripSuffix drops a trailing Json marker. A name that is only the marker
// is returned unchanged.
func StripSuffix(name string) string {
	if name != Suffix && strings.HasSuffix(name, Suffix) {
		return strings.TrimSuffix(name, Suffix)
	}
	return name
}

// HasSuffix reports whether name carries the Json marker.
func HasSuffix(name string) bool {
	return StripSuffix(name) != name
}
