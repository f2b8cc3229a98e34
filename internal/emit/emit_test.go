package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/tixgen/internal/ir"
)

func TestWriter(t *testing.T) {
	w := NewWriter()
	w.Line("export type A = {")
	w.Indent()
	w.Doc("first", "", "second")
	w.Linef("%s: %s;", "a", "string")
	w.Dedent()
	w.Dedent()
	w.Line("};")
	w.Blank()

	want := "export type A = {\n" +
		"  /**\n" +
		"   * first\n" +
		"   *\n" +
		"   * second\n" +
		"   */\n" +
		"  a: string;\n" +
		"};\n" +
		"\n"
	assert.Equal(t, want, w.String())
}

func TestWriterLineWithoutArgsKeepsPercent(t *testing.T) {
	w := NewWriter()
	w.Line("100%")
	assert.Equal(t, "100%\n", w.String())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, Quote("plain"))
	assert.Equal(t, `"a\"b"`, Quote(`a"b`))
	assert.Equal(t, `"<&>"`, Quote("<&>"))
	assert.Equal(t, `"line\nbreak"`, Quote("line\nbreak"))
}

func TestPropertyKey(t *testing.T) {
	tests := map[string]string{
		"name":      "name",
		"_id":       "_id",
		"$oid":      "$oid",
		"userName2": "userName2",
		"user-name": `"user-name"`,
		"2fa":       `"2fa"`,
		"":          `""`,
		"has space": `"has space"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, PropertyKey(in), in)
	}
}

func TestFieldDoc(t *testing.T) {
	n := 3
	f := ir.FieldNode{Doc: []string{"title"}, Constraints: ir.FieldConstraints{MinLength: &n}}
	assert.Equal(t, []string{"title", "", "Minimum length: 3"}, FieldDoc(f))
	assert.Equal(t, []string{"title"}, f.Doc)

	assert.Equal(t, []string{"plain"}, FieldDoc(ir.FieldNode{Doc: []string{"plain"}}))
}

func TestAccess(t *testing.T) {
	assert.Equal(t, "args.nickname", Access("args", "nickname"))
	assert.Equal(t, `args["content-type"]`, Access("args", "content-type"))
}
