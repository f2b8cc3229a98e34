package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a generation scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Features lists enabled capabilities. Empty means all.
	Features []string `yaml:"features,omitempty"`

	// Strict promotes warnings to errors.
	Strict bool `yaml:"strict,omitempty"`

	// Models holds inline declarations. They are read from the scenario
	// file itself so positions point into it.
	Models yaml.Node `yaml:"models,omitempty"`

	// Sources lists model files or directories, relative to the scenario.
	Sources []string `yaml:"sources,omitempty"`

	// Payloads are JSON values checked against the generated JSON Schema.
	Payloads []Payload `yaml:"payloads,omitempty"`

	// Assertions validate the generated artifact.
	Assertions []Assertion `yaml:"assertions"`

	path string
	data []byte
}

// Payload is one value that must (or must not) validate against an entity.
type Payload struct {
	Name   string `yaml:"name,omitempty"`
	Entity string `yaml:"entity"`
	Valid  bool   `yaml:"valid"`
	Value  any    `yaml:"value"`
}

// Assertion validates the generated artifact.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Entity string `yaml:"entity,omitempty"`
	Target string `yaml:"target,omitempty"`
	Text   string `yaml:"text,omitempty"`
	Code   string `yaml:"code,omitempty"`

	// Count is the expected number of diagnostics. Nil means at least one.
	Count *int `yaml:"count,omitempty"`

	// Names is the expected entity order (used by entities).
	Names []string `yaml:"names,omitempty"`
}

// Assertion type constants.
const (
	AssertFragmentContains = "fragment_contains"
	AssertFragmentAbsent   = "fragment_absent"
	AssertTextContains     = "text_contains"
	AssertDiagnostic       = "diagnostic"
	AssertEntityError      = "entity_error"
	AssertEntities         = "entities"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, path)
}

// ParseScenario parses scenario YAML. Sources are resolved relative to
// path's directory.
func ParseScenario(data []byte, path string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.path = path
	scenario.data = data

	base := filepath.Dir(path)
	for i, src := range scenario.Sources {
		if !filepath.IsAbs(src) {
			scenario.Sources[i] = filepath.Join(base, src)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func (s *Scenario) hasInlineModels() bool {
	return s.Models.Kind != 0 && len(s.Models.Content) > 0
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !s.hasInlineModels() && len(s.Sources) == 0 {
		return fmt.Errorf("models or sources is required")
	}
	if len(s.Assertions) == 0 && len(s.Payloads) == 0 {
		return fmt.Errorf("assertions or payloads is required")
	}

	for _, src := range s.Sources {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			return fmt.Errorf("source not found: %s", src)
		}
	}

	for i, p := range s.Payloads {
		if p.Entity == "" {
			return fmt.Errorf("payloads[%d]: entity is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFragmentContains:
		if a.Entity == "" || a.Target == "" || a.Text == "" {
			return fmt.Errorf("assertions[%d]: entity, target and text are required for %s", index, a.Type)
		}
	case AssertFragmentAbsent:
		if a.Entity == "" || a.Target == "" {
			return fmt.Errorf("assertions[%d]: entity and target are required for %s", index, a.Type)
		}
	case AssertTextContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertDiagnostic:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for %s", index, a.Type)
		}
		if a.Count != nil && *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertEntityError:
		if a.Entity == "" || a.Code == "" {
			return fmt.Errorf("assertions[%d]: entity and code are required for %s", index, a.Type)
		}
	case AssertEntities:
		if a.Names == nil {
			return fmt.Errorf("assertions[%d]: names is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
