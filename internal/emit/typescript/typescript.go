// Package typescript renders entities as TypeScript type declarations.
package typescript

import (
	"strings"

	"github.com/roach88/tixgen/internal/emit"
	"github.com/roach88/tixgen/internal/ir"
)

// IdentifierType is the TypeScript name of the identifier type.
const IdentifierType = "ObjectId"

// IdentifierAlias declares IdentifierType in the wrapped wire form.
const IdentifierAlias = "export type ObjectId = { $oid: string };"

// OpaqueAlias declares name as a type about which nothing is known.
func OpaqueAlias(name string) string {
	return "export type " + name + " = unknown;"
}

// Options controls one emission.
type Options struct {
	// JSONSchema, when non-nil, is embedded in the entity's doc block.
	JSONSchema []byte
}

// Emit renders e as an exported type alias. The result ends with a newline.
func Emit(e *ir.EntityNode, opts Options) string {
	w := emit.NewWriter()
	w.Doc(entityDoc(e, opts.JSONSchema)...)
	ir.VisitEntity[struct{}](e, &entityWriter{w: w, name: e.WireName})
	return w.String()
}

func entityDoc(e *ir.EntityNode, schema []byte) []string {
	lines := append([]string(nil), e.Doc...)
	if schema == nil {
		return lines
	}
	lines = append(lines, "", "JSON Schema:")
	for _, l := range strings.Split(strings.TrimRight(string(schema), "\n"), "\n") {
		// a closing comment marker inside the schema text would end the block
		lines = append(lines, strings.ReplaceAll(l, "*/", "*\\/"))
	}
	return lines
}

type entityWriter struct {
	w    *emit.Writer
	name string
}

func (ew *entityWriter) Record(_ *ir.EntityNode, r ir.Record) struct{} {
	if len(r.Fields) == 0 {
		ew.w.Linef("export type %s = Record<string, never>;", ew.name)
		return struct{}{}
	}
	ew.w.Linef("export type %s = {", ew.name)
	ew.fields(r.Fields)
	ew.w.Line("};")
	return struct{}{}
}

func (ew *entityWriter) PlainUnion(_ *ir.EntityNode, u ir.Union) struct{} {
	members := make([]string, len(u.Variants))
	for i, m := range u.EnumMembers() {
		members[i] = emit.Quote(m)
	}
	ew.w.Linef("export type %s = %s;", ew.name, strings.Join(members, " | "))
	return struct{}{}
}

func (ew *entityWriter) TaggedUnion(_ *ir.EntityNode, u ir.Union) struct{} {
	ew.w.Linef("export type %s = {", ew.name)
	for i, v := range u.Variants {
		if i > 0 {
			ew.w.Line("} | {")
		}
		ew.w.Indent()
		ew.w.Doc(v.Doc...)
		ew.w.Linef("%s: %s;", emit.PropertyKey(u.TagKey), emit.Quote(v.WireName))
		ew.w.Dedent()
		ew.fields(v.Fields)
	}
	ew.w.Line("};")
	return struct{}{}
}

func (ew *entityWriter) fields(fields []ir.FieldNode) {
	ew.w.Indent()
	defer ew.w.Dedent()
	for _, f := range fields {
		ew.w.Doc(emit.FieldDoc(f)...)
		ew.w.Linef("%s: %s;", emit.PropertyKey(f.WireName), FieldType(f))
	}
}

// FieldType renders a field's type with its constraints applied. A pinned
// literal replaces the string type.
func FieldType(f ir.FieldNode) string {
	if lit := f.Constraints.Literal; lit != nil {
		s := emit.Quote(*lit)
		if _, ok := f.Type.(ir.Optional); ok {
			s += " | undefined"
		}
		return s
	}
	return TypeName(f.Type)
}

// TypeName renders a type node.
func TypeName(t ir.TypeNode) string {
	return ir.VisitType[string](t, typeNamer{})
}

type typeNamer struct{}

func (typeNamer) Primitive(p ir.Primitive) string {
	switch p.Kind {
	case ir.Boolean:
		return "boolean"
	case ir.Integer, ir.Float:
		return "number"
	default:
		return "string"
	}
}

func (typeNamer) Optional(o ir.Optional) string {
	return TypeName(o.Inner) + " | undefined"
}

func (typeNamer) List(l ir.List) string {
	return "Array<" + TypeName(l.Elem) + ">"
}

func (typeNamer) StringMap(m ir.StringMap) string {
	return "Partial<Record<string, " + TypeName(m.Value) + ">>"
}

func (typeNamer) Reference(r ir.Reference) string {
	return r.Name
}

func (typeNamer) Identifier(ir.Identifier) string {
	return IdentifierType
}
