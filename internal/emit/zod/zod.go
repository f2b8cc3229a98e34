// Package zod renders entities as zod validation schemas.
package zod

import (
	"strconv"
	"strings"

	"github.com/roach88/tixgen/internal/emit"
	"github.com/roach88/tixgen/internal/ir"
)

// Import is the statement every generated artifact with zod schemas needs.
const Import = `import { z } from "zod";`

// IdentifierSchema validates the wrapped identifier form.
const IdentifierSchema = `z.strictObject({ $oid: z.string().regex(/^[a-f\d]{24}$/i, { message: "Invalid ObjectId" }) })`

// Options controls one emission.
type Options struct {
	// Typed annotates each schema with the structural type of the same
	// name. Only valid when that type is emitted too.
	Typed bool
}

// SchemaName is the constant a schema for the named entity is bound to.
func SchemaName(entity string) string {
	return entity + "$Schema"
}

// Emit renders e as an exported schema constant. The result ends with a
// newline.
func Emit(e *ir.EntityNode, opts Options) string {
	w := emit.NewWriter()
	ir.VisitEntity[struct{}](e, &entityWriter{w: w, name: e.WireName, r: renderer{typed: opts.Typed}})
	return w.String()
}

type entityWriter struct {
	w    *emit.Writer
	name string
	r    renderer
}

// head returns the declaration up to and including "= ".
func (ew *entityWriter) head(full bool) string {
	s := "export const " + SchemaName(ew.name)
	if ew.r.typed {
		if full {
			s += ": z.Schema<" + ew.name + ", z.ZodTypeDef, unknown>"
		} else {
			s += ": z.Schema<" + ew.name + ">"
		}
	}
	return s + " = "
}

func (ew *entityWriter) Record(_ *ir.EntityNode, r ir.Record) struct{} {
	if len(r.Fields) == 0 {
		ew.w.Linef("%sz.strictObject({});", ew.head(true))
		return struct{}{}
	}
	ew.w.Linef("%sz.strictObject({", ew.head(true))
	ew.fields(r.Fields)

	optional := optionalKeys(r.Fields)
	if len(optional) == 0 {
		ew.w.Line("});")
		return struct{}{}
	}
	// optional keys stay present, as undefined, in the parsed output
	ew.w.Line("}).transform(args => Object.assign(args, {")
	ew.assignKeys(optional)
	ew.w.Line("}));")
	return struct{}{}
}

func (ew *entityWriter) PlainUnion(_ *ir.EntityNode, u ir.Union) struct{} {
	members := u.EnumMembers()
	for i, m := range members {
		members[i] = emit.Quote(m)
	}
	ew.w.Linef("%sz.enum([%s]);", ew.head(false), strings.Join(members, ", "))
	return struct{}{}
}

func (ew *entityWriter) TaggedUnion(_ *ir.EntityNode, u ir.Union) struct{} {
	ew.w.Linef("%sz.discriminatedUnion(%s, [", ew.head(true), emit.Quote(u.TagKey))
	ew.w.Indent()
	for _, v := range u.Variants {
		ew.w.Line("z.strictObject({")
		ew.w.Indent()
		ew.w.Linef("%s: z.literal(%s),", emit.PropertyKey(u.TagKey), emit.Quote(v.WireName))
		ew.w.Dedent()
		ew.fields(v.Fields)
		ew.w.Line("}),")
	}
	ew.w.Dedent()

	filled := false
	for _, v := range u.Variants {
		if len(optionalKeys(v.Fields)) > 0 {
			filled = true
			break
		}
	}
	if !filled {
		ew.w.Line("]);")
		return struct{}{}
	}

	// discriminatedUnion only accepts plain objects, so the optional keys
	// of every variant are filled in after the union has been parsed
	ew.w.Line("]).transform(args => {")
	ew.w.Indent()
	ew.w.Linef("switch (%s) {", emit.Access("args", u.TagKey))
	for _, v := range u.Variants {
		optional := optionalKeys(v.Fields)
		if len(optional) == 0 {
			continue
		}
		ew.w.Linef("case %s:", emit.Quote(v.WireName))
		ew.w.Indent()
		ew.w.Line("return Object.assign(args, {")
		ew.assignKeys(optional)
		ew.w.Line("});")
		ew.w.Dedent()
	}
	ew.w.Line("}")
	ew.w.Line("return args;")
	ew.w.Dedent()
	ew.w.Line("});")
	return struct{}{}
}

func optionalKeys(fields []ir.FieldNode) []string {
	var keys []string
	for _, f := range fields {
		if !f.Required {
			keys = append(keys, f.WireName)
		}
	}
	return keys
}

func (ew *entityWriter) assignKeys(keys []string) {
	ew.w.Indent()
	defer ew.w.Dedent()
	for _, name := range keys {
		ew.w.Linef("%s: %s,", emit.PropertyKey(name), emit.Access("args", name))
	}
}

func (ew *entityWriter) fields(fields []ir.FieldNode) {
	ew.w.Indent()
	defer ew.w.Dedent()
	for _, f := range fields {
		ew.w.Linef("%s: %s,", emit.PropertyKey(f.WireName), ew.r.field(f))
	}
}

// Schema renders the validator for a type node.
func Schema(t ir.TypeNode) string {
	return renderer{typed: true}.typ(t)
}

// FieldSchema renders a field's validator with its constraints applied.
func FieldSchema(f ir.FieldNode) string {
	return renderer{typed: true}.field(f)
}

type renderer struct {
	typed bool
}

func (r renderer) typ(t ir.TypeNode) string {
	return ir.VisitType[string](t, r)
}

func (r renderer) field(f ir.FieldNode) string {
	_, optional := f.Type.(ir.Optional)

	var s string
	switch {
	case f.Constraints.Literal != nil:
		s = "z.literal(" + emit.Quote(*f.Constraints.Literal) + ")"
	case f.Constraints.MinLength != nil:
		s = r.typ(ir.Unwrap(f.Type)) + ".min(" + strconv.Itoa(*f.Constraints.MinLength) + ")"
	default:
		return r.typ(f.Type)
	}
	if optional {
		s += ".optional()"
	}
	return s
}

func (renderer) Primitive(p ir.Primitive) string {
	switch p.Kind {
	case ir.Boolean:
		return "z.boolean()"
	case ir.Integer:
		return "z.number().int()"
	case ir.Float:
		return "z.number()"
	default:
		return "z.string()"
	}
}

func (r renderer) Optional(o ir.Optional) string {
	return r.typ(o.Inner) + ".optional()"
}

func (r renderer) List(l ir.List) string {
	return "z.array(" + r.typ(l.Elem) + ")"
}

func (r renderer) StringMap(m ir.StringMap) string {
	return "z.record(z.string(), " + r.typ(m.Value) + ")"
}

// Reference defers the lookup so schemas may be declared in any order.
func (r renderer) Reference(ref ir.Reference) string {
	if ref.Opaque {
		if r.typed {
			return "z.custom<" + ref.Name + ">()"
		}
		return "z.unknown()"
	}
	return "z.lazy(() => " + SchemaName(ref.Name) + ")"
}

func (renderer) Identifier(ir.Identifier) string {
	return IdentifierSchema
}
