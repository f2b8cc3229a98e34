package ir

import (
	"fmt"
	"strings"
)

// PrimitiveKind enumerates the scalar wire types.
type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	String
	Integer
	Float
)

func (k PrimitiveKind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// TypeNode is a resolved field type. The set of implementations is closed;
// use VisitType to dispatch.
type TypeNode interface {
	typeNode()
	String() string
}

// Primitive is a scalar wire value.
type Primitive struct {
	Kind PrimitiveKind
}

// Optional marks a value that may be absent on the wire. Never nested.
type Optional struct {
	Inner TypeNode
}

// List is an ordered sequence.
type List struct {
	Elem TypeNode
}

// StringMap is an associative value with text keys.
type StringMap struct {
	Value TypeNode
}

// Reference points to another entity by wire name.
// Opaque marks a synthetic target produced by a degraded resolution; it is
// exempt from the undefined-reference check.
type Reference struct {
	Name   string
	Opaque bool
}

// Identifier is the 24-hex-character object identifier in its wrapped
// {"$oid": "..."} wire form.
type Identifier struct{}

func (Primitive) typeNode() {}
func (Optional) typeNode() {}
func (List) typeNode() {}
func (StringMap) typeNode() {}
func (Reference) typeNode() {}
func (Identifier) typeNode() {}

func (p Primitive) String() string { return p.Kind.String() }
func (o Optional) String() string { return "optional<" + o.Inner.String() + ">" }
func (l List) String() string { return "list<" + l.Elem.String() + ">" }
func (m StringMap) String() string { return "map<string, " + m.Value.String() + ">" }
func (r Reference) String() string { return "ref<" + r.Name + ">" }
func (Identifier) String() string { return "identifier" }

// TypeVisitor handles every TypeNode shape. Emitters implement it so the
// compiler rejects an emitter that misses a shape.
type TypeVisitor[R any] interface {
	Primitive(Primitive) R
	Optional(Optional) R
	List(List) R
	StringMap(StringMap) R
	Reference(Reference) R
	Identifier(Identifier) R
}

// VisitType dispatches t to the matching visitor method.
func VisitType[R any](t TypeNode, v TypeVisitor[R]) R {
	switch n := t.(type) {
	case Primitive:
		return v.Primitive(n)
	case Optional:
		return v.Optional(n)
	case List:
		return v.List(n)
	case StringMap:
		return v.StringMap(n)
	case Reference:
		return v.Reference(n)
	case Identifier:
		return v.Identifier(n)
	default:
		panic(fmt.Sprintf("ir: unknown TypeNode %T", t))
	}
}

// Unwrap returns the inner type of an Optional, or t itself.
func Unwrap(t TypeNode) TypeNode {
	if o, ok := t.(Optional); ok {
		return o.Inner
	}
	return t
}

// FieldConstraints narrows a String field beyond its type.
type FieldConstraints struct {
	Literal   *string // pinned literal value
	MinLength *int
}

// IsZero reports whether no constraint is set.
func (c FieldConstraints) IsZero() bool {
	return c.Literal == nil && c.MinLength == nil
}

// FieldNode is one resolved field of a record or variant.
type FieldNode struct {
	DeclaredName string
	WireName     string
	Type         TypeNode
	Required     bool     // false iff Type is Optional
	Doc          []string // doc lines; defaults to the wire name
	Constraints  FieldConstraints
}

// VariantNode is one alternative of a union.
type VariantNode struct {
	DeclaredName string
	WireName     string
	Doc          []string
	Fields       []FieldNode // empty for plain-union members
}

// EntityKind is Record or Union.
type EntityKind interface {
	entityKind()
}

// Record is a named-field aggregate. Field order is declaration order.
type Record struct {
	Fields []FieldNode
}

// Union is a sum type. TagKey is empty for a plain union.
type Union struct {
	Variants []VariantNode
	TagKey   string
}

func (Record) entityKind() {}
func (Union) entityKind() {}

// DefaultTagKey is the discriminant field name when none is configured.
const DefaultTagKey = "type"

// NewUnion builds a Union, setting the tag key only when a variant carries
// fields. An empty tag falls back to DefaultTagKey.
func NewUnion(variants []VariantNode, tag string) Union {
	u := Union{Variants: variants}
	for _, v := range variants {
		if len(v.Fields) > 0 {
			u.TagKey = tag
			if u.TagKey == "" {
				u.TagKey = DefaultTagKey
			}
			break
		}
	}
	return u
}

// Tagged reports whether u is a discriminated union.
func (u Union) Tagged() bool {
	return u.TagKey != ""
}

// EnumMembers returns the variant wire names in declaration order.
func (u Union) EnumMembers() []string {
	members := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		members[i] = v.WireName
	}
	return members
}

// EntityNode is a resolved declaration.
type EntityNode struct {
	DeclaredName string
	WireName     string
	Doc          []string
	Kind         EntityKind
}

// EntityVisitor handles every entity shape.
type EntityVisitor[R any] interface {
	Record(e *EntityNode, r Record) R
	PlainUnion(e *EntityNode, u Union) R
	TaggedUnion(e *EntityNode, u Union) R
}

// VisitEntity dispatches e to the matching visitor method.
func VisitEntity[R any](e *EntityNode, v EntityVisitor[R]) R {
	switch k := e.Kind.(type) {
	case Record:
		return v.Record(e, k)
	case Union:
		if k.Tagged() {
			return v.TaggedUnion(e, k)
		}
		return v.PlainUnion(e, k)
	default:
		panic(fmt.Sprintf("ir: unknown EntityKind %T", e.Kind))
	}
}

// FieldShape is the wire-visible contract of one field: its name and
// whether it must be present.
type FieldShape struct {
	WireName string
	Required bool
}

// Shape returns the field contract per variant ("" for records), in order.
// Every emitted artifact of e must agree with it.
func (e *EntityNode) Shape() map[string][]FieldShape {
	shape := make(map[string][]FieldShape)
	collect := func(key string, fields []FieldNode) {
		out := make([]FieldShape, len(fields))
		for i, f := range fields {
			out[i] = FieldShape{WireName: f.WireName, Required: f.Required}
		}
		shape[key] = out
	}
	switch k := e.Kind.(type) {
	case Record:
		collect("", k.Fields)
	case Union:
		for _, v := range k.Variants {
			collect(v.WireName, v.Fields)
		}
	}
	return shape
}

// DocText joins doc lines with newlines.
func DocText(lines []string) string {
	return strings.Join(lines, "\n")
}
