// Package harness runs generation scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are YAML files. Models are declared inline using the same
// shape as a models YAML file, or loaded from sources relative to the
// scenario:
//
//	name: record_optionality
//	description: "Optional fields may be absent but never null"
//	features: [naming, zod, jsonschema, objectid, typescript]
//	models:
//	  - name: PersonJson
//	    kind: record
//	    fields:
//	      - {name: nickname, type: "Option<String>"}
//	sources:
//	  - ../models/user.cue
//	payloads:
//	  - {name: absent, entity: Person, valid: true, value: {}}
//	assertions:
//	  - type: fragment_contains
//	    entity: Person
//	    target: typescript
//	    text: "nickname: string | undefined;"
//
// # Assertion Types
//
//   - fragment_contains: a fragment for entity/target contains text
//   - fragment_absent: no fragment exists for entity/target
//   - text_contains: the composite artifact contains text
//   - diagnostic: diagnostics with code appear count times (at least once
//     when count is omitted)
//   - entity_error: entity failed with the given error code
//   - entities: the resolved entities, in order
//
// Payloads are validated against the bundled JSON Schema, so scenarios with
// payloads need the jsonschema capability.
//
// # Deterministic Testing
//
// Each scenario is recorded into a fresh in-memory ledger with a
// deterministic clock and sequential run IDs, so the recorded run is
// identical across executions.
package harness
