package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelsYAML = `
models:
  - name: UserJson
    kind: record
    rename_all: camelCase
    fields:
      - name: id
        type: ObjectId
        rename: _id
      - name: user_name
        type: String
        min_length: 3
  - name: StatusJson
    kind: union
    doc: |
      Account status.
      Shown on the profile page.
    variants:
      - name: Active
      - name: Banned
        rename: blocked
`

func TestParseYAML(t *testing.T) {
	decls, err := ParseYAML([]byte(modelsYAML), "models.yaml")
	require.NoError(t, err)
	require.Len(t, decls, 2)

	user := decls[0]
	assert.Equal(t, "UserJson", user.Name)
	assert.Equal(t, KindRecord, user.Kind)
	assert.Equal(t, 3, user.Pos.Line)
	require.Len(t, user.Fields, 2)

	rename, ok := lookup(user.Fields[0].Directives, DirectiveRename)
	require.True(t, ok)
	assert.Equal(t, "_id", rename.Value)
	assert.Equal(t, "models.yaml", rename.Pos.File)
	assert.Equal(t, 9, rename.Pos.Line)

	minLen, ok := lookup(user.Fields[1].Directives, DirectiveMinLength)
	require.True(t, ok)
	assert.Equal(t, "3", minLen.Value)

	status := decls[1]
	assert.Equal(t, KindUnion, status.Kind)
	assert.Equal(t, "Account status.\nShown on the profile page.\n", status.Doc)
	require.Len(t, status.Variants, 2)
	assert.Empty(t, status.Variants[0].Directives)
	assert.Equal(t, "blocked", status.Variants[1].Directives[0].Value)
}

func TestParseYAMLEmpty(t *testing.T) {
	decls, err := ParseYAML(nil, "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, decls)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "models: [", "yaml"},
		{"not a mapping", "- a\n- b\n", "top level must be a mapping"},
		{"models not a list", "models: {}\n", "models must be a list"},
		{"missing name", "models:\n  - kind: record\n", "name is required"},
		{"missing kind", "models:\n  - name: AJson\n", "kind is required"},
		{"missing type", "models:\n  - name: AJson\n    kind: record\n    fields:\n      - name: x\n", "type is required"},
		{"directive not scalar", "models:\n  - name: AJson\n    kind: record\n    rename_all: [a]\n", "directive rename_all must be a scalar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.src), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
