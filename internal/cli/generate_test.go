package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tixgen/internal/store"
)

func TestGenerateToStdout(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	stdout, _, err := execute(t, "generate", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, `import { z } from "zod";`)
	assert.Contains(t, stdout, "export type User")
	assert.Contains(t, stdout, `export type Status = "active" | "suspended";`)
	assert.Contains(t, stdout, "export const User$Schema")
}

func TestGenerateWritesOutputAndSchema(t *testing.T) {
	dir := modelsDir(t, sampleModels)
	out := filepath.Join(dir, "gen", "models.ts")
	schema := filepath.Join(dir, "gen", "schema.json")

	stdout, _, err := execute(t, "generate", dir, "-o", out, "--schema", schema)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Generated 2 entities to "+out)

	ts, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(ts), "export type User")

	data, err := os.ReadFile(schema)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	defs, ok := doc["$defs"].(map[string]any)
	require.True(t, ok, "bundle has $defs")
	assert.Contains(t, defs, "User")
	assert.Contains(t, defs, "Status")
}

func TestGenerateEntityErrorsExitOne(t *testing.T) {
	dir := modelsDir(t, brokenModels)

	stdout, stderr, err := execute(t, "generate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "export type Good")
	assert.NotContains(t, stdout, "export type Bad")
	assert.Contains(t, stderr, "Bad [E102]")
}

func TestGenerateJSON(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	stdout, _, err := execute(t, "--format", "json", "generate", dir)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"User", "Status"}, resp.Data.Entities)
	assert.Len(t, resp.Data.Fragments, 6)
	assert.NotEmpty(t, resp.Data.Hash)
	assert.Empty(t, resp.Data.Errors)
}

func TestGenerateJSONFailure(t *testing.T) {
	dir := modelsDir(t, brokenModels)

	stdout, _, err := execute(t, "--format", "json", "generate", dir)
	require.Error(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   Report    `json:"data"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E102", resp.Error.Code)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, "Bad", resp.Data.Errors[0].Entity)
	assert.Equal(t, []string{"Good"}, resp.Data.Entities)
}

func TestGenerateFeatures(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	stdout, _, err := execute(t, "generate", dir, "--features", "naming,typescript")
	require.NoError(t, err)
	assert.Contains(t, stdout, "export type User")
	assert.NotContains(t, stdout, "zod")
	assert.NotContains(t, stdout, "$Schema")
}

func TestGenerateUnknownFeature(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	_, _, err := execute(t, "generate", dir, "--features", "protobuf")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateEntityFilter(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	stdout, _, err := execute(t, "generate", dir, "--entity", "StatusJson")
	require.NoError(t, err)
	assert.Contains(t, stdout, "export type Status")
	assert.NotContains(t, stdout, "export type User")
}

func TestGenerateUnknownEntity(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	stdout, _, err := execute(t, "generate", dir, "--entity", "Nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, stdout, "unknown entity")
}

func TestGenerateStrict(t *testing.T) {
	dir := modelsDir(t, `models:
  - name: EventJson
    kind: record
    fields:
      - {name: user, type: UserJson}
`)

	_, stderr, err := execute(t, "generate", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "W203")

	_, _, err = execute(t, "generate", dir, "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGenerateSchemaNeedsCapability(t *testing.T) {
	dir := modelsDir(t, sampleModels)

	_, _, err := execute(t, "generate", dir, "--features", "typescript", "--schema", filepath.Join(dir, "s.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateMissingPath(t *testing.T) {
	_, _, err := execute(t, "generate", "/nonexistent/models")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestGenerateUsesConfigFile(t *testing.T) {
	dir := modelsDir(t, sampleModels)
	writeTestFile(t, dir, ConfigFileName, "features: [naming, typescript]\noutput: gen/models.ts\n")

	_, _, err := execute(t, "generate", dir)
	require.NoError(t, err)

	ts, err := os.ReadFile(filepath.Join(dir, "gen", "models.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(ts), "export type User")
	assert.NotContains(t, string(ts), "zod")
}

func TestGenerateFlagsOverrideConfig(t *testing.T) {
	dir := modelsDir(t, sampleModels)
	writeTestFile(t, dir, ConfigFileName, "features: [naming, typescript]\n")

	stdout, _, err := execute(t, "generate", dir, "--features", "all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "zod")
}

func TestGenerateRecordsLedger(t *testing.T) {
	dir := modelsDir(t, sampleModels)
	ledger := filepath.Join(dir, "ledger.db")

	stdout, _, err := execute(t, "--format", "json", "generate", dir, "--ledger", ledger)
	require.NoError(t, err)

	var resp struct {
		Data Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotEmpty(t, resp.Data.RunID)

	st, err := store.Open(ledger)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resp.Data.RunID, run.ID)
	assert.Equal(t, resp.Data.Hash, run.ArtifactHash)
	assert.Equal(t, 2, run.EntityCount)
	assert.Len(t, run.Fragments, 6)
}
