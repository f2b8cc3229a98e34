package typescript

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/ir"
	"github.com/roach88/tixgen/internal/testutil"
)

func assertGolden(t *testing.T, name, out string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(out))
}

func TestEmitRecord(t *testing.T) {
	out := Emit(testutil.MustClassify(t, testutil.UserDecl()), Options{})
	assertGolden(t, "user", out)
}

func TestEmitTaggedUnion(t *testing.T) {
	out := Emit(testutil.MustClassify(t, testutil.EventDecl()), Options{})
	assertGolden(t, "event", out)
}

func TestEmitPlainUnionWithSchema(t *testing.T) {
	schema := []byte("{\n  \"type\": \"string\"\n}")
	out := Emit(testutil.MustClassify(t, testutil.StatusDecl()), Options{JSONSchema: schema})

	want := "/**\n" +
		" * StatusJson\n" +
		" *\n" +
		" * JSON Schema:\n" +
		" * {\n" +
		" *   \"type\": \"string\"\n" +
		" * }\n" +
		" */\n" +
		"export type Status = \"active\" | \"suspended\";\n"
	assert.Equal(t, want, out)
}

func TestEmitEmptyRecord(t *testing.T) {
	out := Emit(testutil.MustClassify(t, testutil.EmptyDecl()), Options{})
	assert.Equal(t, "/**\n * EmptyJson\n */\nexport type Empty = Record<string, never>;\n", out)
}

func TestSchemaCommentMarkerEscaped(t *testing.T) {
	out := Emit(testutil.MustClassify(t, testutil.EmptyDecl()), Options{JSONSchema: []byte(`{"const": "*/"}`)})
	assert.Contains(t, out, ` * {"const": "*\/"}`)
}

func TestFieldType(t *testing.T) {
	lit := "post"
	assert.Equal(t, `"post"`, FieldType(ir.FieldNode{
		Type:        ir.Primitive{Kind: ir.String},
		Constraints: ir.FieldConstraints{Literal: &lit},
	}))
	assert.Equal(t, `"post" | undefined`, FieldType(ir.FieldNode{
		Type:        ir.Optional{Inner: ir.Primitive{Kind: ir.String}},
		Constraints: ir.FieldConstraints{Literal: &lit},
	}))
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		in   ir.TypeNode
		want string
	}{
		{ir.Primitive{Kind: ir.Boolean}, "boolean"},
		{ir.Primitive{Kind: ir.Integer}, "number"},
		{ir.Primitive{Kind: ir.Float}, "number"},
		{ir.Primitive{Kind: ir.String}, "string"},
		{ir.Identifier{}, "ObjectId"},
		{ir.Reference{Name: "ObjectId", Opaque: true}, "ObjectId"},
		{ir.Optional{Inner: ir.List{Elem: ir.Reference{Name: "Tag"}}}, "Array<Tag> | undefined"},
		{ir.StringMap{Value: ir.List{Elem: ir.Primitive{Kind: ir.Integer}}}, "Partial<Record<string, Array<number>>>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeName(tt.in), tt.in.String())
	}
}

func TestQuotedKeys(t *testing.T) {
	e := testutil.Record("HeaderJson").
		RenameAll("kebab-case").
		Field("content_type", "String").
		Field("x", "String", compiler.DirectiveLiteral, `say "hi"`).
		Entity(t)

	out := Emit(e, Options{})
	assert.Contains(t, out, "  \"content-type\": string;\n")
	assert.Contains(t, out, "  x: \"say \\\"hi\\\"\";\n")
}
