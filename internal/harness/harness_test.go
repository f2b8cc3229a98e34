package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".yaml"), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/status_enum.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.Nil(t, result.Artifact.Schema)
}

func TestRun_RecordsLedgerRun(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/record_optionality.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, "record_optionality-0001", first.Run.ID)
	assert.Equal(t, first.Run, second.Run)
	assert.Equal(t, first.Artifact.Hash, first.Run.ArtifactHash)
	assert.Len(t, first.Run.Fragments, 3)
}

func TestRun_ReportsFailures(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: failing
description: "Every check is wrong"
models:
  - name: StatusJson
    kind: union
    variants: [{name: Active}]
payloads:
  - {name: accepted, entity: Status, valid: false, value: Active}
  - {name: unknown entity, entity: Missing, valid: true, value: x}
assertions:
  - {type: text_contains, text: "never emitted"}
  - {type: diagnostic, code: W203}
  - {type: entities, names: []}
`), "failing.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "expected Status to reject payload")
	assert.Contains(t, result.Errors[1], "no schema for entity Missing")
}

func TestRun_PayloadsNeedJSONSchema(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: no_schema
description: "Payloads without the jsonschema capability"
features: [typescript]
models:
  - {name: EmptyJson, kind: record}
payloads:
  - {entity: Empty, valid: true, value: {}}
`), "no_schema.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"payloads need the jsonschema capability"}, result.Errors)
}

func TestRun_UnknownFeature(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: bad_feature
description: "Unknown capability"
features: [graphql]
models:
  - {name: EmptyJson, kind: record}
assertions:
  - {type: entities, names: [Empty]}
`), "bad_feature.yaml")
	require.NoError(t, err)

	_, err = Run(scenario)
	assert.Error(t, err)
}
