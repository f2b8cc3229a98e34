package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/features"
	"github.com/roach88/tixgen/internal/ir"
)

// DeclBuilder assembles a compiler.Declaration fluently.
//
//	decl := testutil.Record("UserJson").
//		RenameAll("camelCase").
//		Field("user_name", "String").
//		Build()
type DeclBuilder struct {
	decl compiler.Declaration
}

// Record starts a record declaration.
func Record(name string) *DeclBuilder {
	return &DeclBuilder{decl: compiler.Declaration{Name: name, Kind: compiler.KindRecord}}
}

// Union starts a union declaration.
func Union(name string) *DeclBuilder {
	return &DeclBuilder{decl: compiler.Declaration{Name: name, Kind: compiler.KindUnion}}
}

// Doc sets the declaration doc comment.
func (b *DeclBuilder) Doc(doc string) *DeclBuilder {
	b.decl.Doc = doc
	return b
}

// RenameAll sets the global casing policy.
func (b *DeclBuilder) RenameAll(policy string) *DeclBuilder {
	return b.Directive(compiler.DirectiveRenameAll, policy)
}

// Tag sets the union discriminant key.
func (b *DeclBuilder) Tag(key string) *DeclBuilder {
	return b.Directive(compiler.DirectiveTag, key)
}

// Directive appends an entity-level directive.
func (b *DeclBuilder) Directive(key, value string) *DeclBuilder {
	b.decl.Directives = append(b.decl.Directives, compiler.Directive{Key: key, Value: value})
	return b
}

// Field appends a record field. dirs alternate key, value.
func (b *DeclBuilder) Field(name, typ string, dirs ...string) *DeclBuilder {
	b.decl.Fields = append(b.decl.Fields, FieldDecl(name, typ, dirs...))
	return b
}

// Variant appends a union variant.
func (b *DeclBuilder) Variant(name string, fields ...compiler.FieldDecl) *DeclBuilder {
	b.decl.Variants = append(b.decl.Variants, compiler.VariantDecl{Name: name, Fields: fields})
	return b
}

// RenamedVariant appends a union variant with an explicit wire name.
func (b *DeclBuilder) RenamedVariant(name, rename string, fields ...compiler.FieldDecl) *DeclBuilder {
	b.decl.Variants = append(b.decl.Variants, compiler.VariantDecl{
		Name:       name,
		Directives: []compiler.Directive{{Key: compiler.DirectiveRename, Value: rename}},
		Fields:     fields,
	})
	return b
}

// Build returns the declaration.
func (b *DeclBuilder) Build() compiler.Declaration {
	return b.decl
}

// Entity classifies the declaration with every capability enabled and
// fails the test on error.
func (b *DeclBuilder) Entity(t testing.TB) *ir.EntityNode {
	t.Helper()
	return MustClassify(t, b.decl)
}

// MustClassify classifies d with every capability enabled and fails the
// test on error.
func MustClassify(t testing.TB, d compiler.Declaration) *ir.EntityNode {
	t.Helper()
	e, err := compiler.Classify(d, features.All(), nil)
	require.NoError(t, err)
	return e
}

// FieldDecl builds one field declaration. dirs alternate key, value; a
// trailing key without a value gets "".
func FieldDecl(name, typ string, dirs ...string) compiler.FieldDecl {
	f := compiler.FieldDecl{Name: name, Type: typ}
	for i := 0; i < len(dirs); i += 2 {
		d := compiler.Directive{Key: dirs[i]}
		if i+1 < len(dirs) {
			d.Value = dirs[i+1]
		}
		f.Directives = append(f.Directives, d)
	}
	return f
}
