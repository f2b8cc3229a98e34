package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleModels = `models:
  - name: UserJson
    kind: record
    fields:
      - {name: id, type: String}
      - {name: age, type: i32}
      - {name: status, type: StatusJson}
  - name: StatusJson
    kind: union
    rename_all: lowercase
    variants:
      - name: Active
      - name: Suspended
`

const brokenModels = `models:
  - name: BadJson
    kind: record
    fields:
      - {name: m, type: "HashMap<i32, String>"}
  - name: GoodJson
    kind: record
    fields:
      - {name: id, type: String}
`

// writeTestFile creates dir/name with content and returns its path.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// modelsDir returns a temp directory holding models.yaml.
func modelsDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "models.yaml", content)
	return dir
}

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
