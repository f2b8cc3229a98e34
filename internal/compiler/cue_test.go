package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tixgen/internal/features"
	"github.com/roach88/tixgen/internal/ir"
)

const modelsCUE = `
model: UserJson: {
	kind:       "record"
	doc:        "A registered user."
	rename_all: "camelCase"
	fields: [
		{name: "id", type: "ObjectId", rename: "_id"},
		{name: "user_name", type: "String", min_length: 1},
		{name: "nickname", type: "Option<String>"},
		{name: "session", type: "String", skip: true},
	]
}

model: EventJson: {
	kind: "union"
	tag:  "kind"
	variants: [
		{name: "Created", fields: [{name: "at", type: "i64"}]},
		{name: "Deleted", rename: "removed"},
	]
}
`

func TestCompileModels(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(modelsCUE, cue.Filename("models.cue"))
	require.NoError(t, v.Err())

	decls, err := CompileModels(v)
	require.NoError(t, err)
	require.Len(t, decls, 2)

	user := decls[0]
	assert.Equal(t, "UserJson", user.Name)
	assert.Equal(t, KindRecord, user.Kind)
	assert.Equal(t, "A registered user.", user.Doc)
	assert.Equal(t, []Directive{{Key: DirectiveRenameAll, Value: "camelCase", Pos: user.Directives[0].Pos}}, user.Directives)
	require.Len(t, user.Fields, 4)
	assert.Equal(t, "ObjectId", user.Fields[0].Type)

	minLen, ok := lookup(user.Fields[1].Directives, DirectiveMinLength)
	require.True(t, ok)
	assert.Equal(t, "1", minLen.Value)

	skip, ok := lookup(user.Fields[3].Directives, DirectiveSkip)
	require.True(t, ok)
	assert.Equal(t, "true", skip.Value)

	assert.Equal(t, "models.cue", user.Fields[0].Pos.File)
	assert.Greater(t, user.Fields[0].Pos.Line, 0)

	event := decls[1]
	assert.Equal(t, KindUnion, event.Kind)
	require.Len(t, event.Variants, 2)
	assert.Len(t, event.Variants[0].Fields, 1)
	rename, ok := lookup(event.Variants[1].Directives, DirectiveRename)
	require.True(t, ok)
	assert.Equal(t, "removed", rename.Value)
}

func TestCompileModelsThenClassify(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(modelsCUE)
	require.NoError(t, v.Err())

	decls, err := CompileModels(v)
	require.NoError(t, err)

	user, err := Classify(decls[0], features.All(), nil)
	require.NoError(t, err)
	rec := user.Kind.(ir.Record)
	require.Len(t, rec.Fields, 3)
	assert.Equal(t, "userName", rec.Fields[1].WireName)
	assert.Equal(t, []string{"A registered user."}, user.Doc)

	event, err := Classify(decls[1], features.All(), nil)
	require.NoError(t, err)
	u := event.Kind.(ir.Union)
	assert.Equal(t, "kind", u.TagKey)
	assert.Equal(t, []string{"Created", "removed"}, u.EnumMembers())
}

func TestCompileDeclaration(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(modelsCUE)
	require.NoError(t, v.Err())

	d, err := CompileDeclaration(v.LookupPath(cue.ParsePath("model.EventJson")))
	require.NoError(t, err)
	assert.Equal(t, "EventJson", d.Name)
	assert.Equal(t, KindUnion, d.Kind)
}

func TestCompileModelsMissingKind(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`model: BadJson: { fields: [] }`)
	require.NoError(t, v.Err())

	_, err := CompileModels(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind is required")
}

func TestCompileModelsMissingFieldType(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`model: BadJson: { kind: "record", fields: [{name: "x"}] }`)
	require.NoError(t, v.Err())

	_, err := CompileModels(v)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "x", ce.Field)
}

func TestCompileModelsBadDirectiveKind(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`model: BadJson: { kind: "record", fields: [{name: "x", type: "String", rename: ["a"]}] }`)
	require.NoError(t, v.Err())

	_, err := CompileModels(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directive must be")
}

func TestCompileModelsInvalidCUE(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`model: { kind: "record" `)
	require.Error(t, v.Err())

	_, err := CompileModels(v)
	require.Error(t, err)
}

func TestCompileModelsNoModels(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`other: 1`)
	require.NoError(t, v.Err())

	decls, err := CompileModels(v)
	require.NoError(t, err)
	assert.Empty(t, decls)
}
