package cli

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidModels(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	stdout, _, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ All 2 entities valid")
}

func TestValidateValidModelsJSON(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	stdout, _, err := execute(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Entities)
}

func TestValidateEntityErrors(t *testing.T) {
	dir := modelsDir(t, brokenModels)

	stdout, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Validation failed with 1 error(s)")
	assert.Contains(t, stdout, "Bad [E102]")
}

func TestValidateDoesNotWriteOutput(t *testing.T) {
	dir := modelsDir(t, sampleModels)
	writeTestFile(t, dir, ConfigFileName, "output: gen/models.ts\n")

	_, _, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.NoFileExists(t, dir+"/gen/models.ts")
}

func TestValidateNonExistentDirectory(t *testing.T) {
	stdout, _, err := execute(t, "validate", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005") // ErrCodeNotFound
	assert.Contains(t, stdout, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, _, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
}

func TestValidateParseError(t *testing.T) {
	dir := modelsDir(t, "models:\n  - name: [unclosed\n")

	stdout, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [")
}
