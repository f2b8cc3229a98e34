package jsonschema

import (
	"github.com/roach88/tixgen/internal/ir"
)

// IdentifierKey is the single key of a wrapped identifier value.
const IdentifierKey = "$oid"

// IdentifierPattern matches the 24-hex-digit identifier text form.
const IdentifierPattern = "^[a-fA-F0-9]{24}$"

// Build returns the schema document for e.
func Build(e *ir.EntityNode) *Schema {
	return ir.VisitEntity[*Schema](e, entityBuilder{})
}

// DefRef is the JSON pointer under which Bundle stores the entity name.
func DefRef(name string) string {
	return "#/$defs/" + name
}

// Bundle collects entity schemas under $defs so references resolve within
// one document.
func Bundle(entities []*ir.EntityNode) *Schema {
	defs := make(map[string]*Schema, len(entities))
	for _, e := range entities {
		defs[e.WireName] = Build(e)
	}
	return &Schema{Defs: defs}
}

// Emit renders e's schema as indented JSON with sorted keys.
func Emit(e *ir.EntityNode) ([]byte, error) {
	return Build(e).Indent()
}

type entityBuilder struct{}

func (entityBuilder) Record(_ *ir.EntityNode, r ir.Record) *Schema {
	return object(r.Fields, nil)
}

func (entityBuilder) PlainUnion(_ *ir.EntityNode, u ir.Union) *Schema {
	return &Schema{Type: "string", Enum: u.EnumMembers()}
}

func (entityBuilder) TaggedUnion(_ *ir.EntityNode, u ir.Union) *Schema {
	variants := make([]*Schema, len(u.Variants))
	for i, v := range u.Variants {
		tag := v.WireName
		variants[i] = object(v.Fields, &tagProperty{key: u.TagKey, value: tag})
	}
	return &Schema{Type: "object", OneOf: variants}
}

type tagProperty struct {
	key, value string
}

// object builds a closed object schema. A tag, when given, is listed first
// in required.
func object(fields []ir.FieldNode, tag *tagProperty) *Schema {
	s := &Schema{
		Type:                 "object",
		Properties:           make(map[string]*Schema, len(fields)+1),
		Required:             []string{},
		AdditionalProperties: closed(),
	}
	if tag != nil {
		v := tag.value
		s.Properties[tag.key] = &Schema{Type: "string", Const: &v}
		s.Required = append(s.Required, tag.key)
	}
	for _, f := range fields {
		s.Properties[f.WireName] = Field(f)
		if f.Required {
			s.Required = append(s.Required, f.WireName)
		}
	}
	return s
}

// Field returns the schema of one field's value, constraints applied.
// Optionality is expressed by the parent's required list only.
func Field(f ir.FieldNode) *Schema {
	if lit := f.Constraints.Literal; lit != nil {
		v := *lit
		s := &Schema{Type: "string", Const: &v}
		s.MinLength = f.Constraints.MinLength
		return s
	}
	s := Type(f.Type)
	if n := f.Constraints.MinLength; n != nil {
		s.MinLength = n
	}
	return s
}

// Type returns the schema for a type node.
func Type(t ir.TypeNode) *Schema {
	return ir.VisitType[*Schema](t, typeBuilder{})
}

type typeBuilder struct{}

func (typeBuilder) Primitive(p ir.Primitive) *Schema {
	switch p.Kind {
	case ir.Boolean:
		return &Schema{Type: "boolean"}
	case ir.Integer:
		return &Schema{Type: "integer"}
	case ir.Float:
		return &Schema{Type: "number"}
	default:
		return &Schema{Type: "string"}
	}
}

func (typeBuilder) Optional(o ir.Optional) *Schema {
	return Type(o.Inner)
}

func (typeBuilder) List(l ir.List) *Schema {
	return &Schema{Type: "array", Items: Type(l.Elem)}
}

func (typeBuilder) StringMap(m ir.StringMap) *Schema {
	return &Schema{Type: "object", AdditionalProperties: &SchemaOrBool{Schema: Type(m.Value)}}
}

// Reference points into the $defs of a Bundle. An opaque reference has no
// schema of its own and accepts any value.
func (typeBuilder) Reference(r ir.Reference) *Schema {
	if r.Opaque {
		return &Schema{}
	}
	return &Schema{Ref: DefRef(r.Name)}
}

func (typeBuilder) Identifier(ir.Identifier) *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			IdentifierKey: {Type: "string", Pattern: IdentifierPattern},
		},
		Required:             []string{IdentifierKey},
		AdditionalProperties: closed(),
	}
}
