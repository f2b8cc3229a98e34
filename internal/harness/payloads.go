package harness

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/roach88/tixgen/internal/emit/jsonschema"
)

const bundleURL = "mem:tixgen"

// CheckPayloads validates each payload against its entity in the bundled
// schema and returns one message per payload whose outcome differs from
// Payload.Valid.
func CheckPayloads(bundle []byte, payloads []Payload) []string {
	c := jschema.NewCompiler()
	if err := c.AddResource(bundleURL, bytes.NewReader(bundle)); err != nil {
		return []string{fmt.Sprintf("load schema bundle: %v", err)}
	}

	compiled := make(map[string]*jschema.Schema)
	var errs []string
	for i, p := range payloads {
		label := p.Name
		if label == "" {
			label = fmt.Sprintf("payloads[%d]", i)
		}

		schema, ok := compiled[p.Entity]
		if !ok {
			var err error
			if schema, err = c.Compile(bundleURL + jsonschema.DefRef(p.Entity)); err != nil {
				errs = append(errs, fmt.Sprintf("%s: no schema for entity %s: %v", label, p.Entity, err))
				continue
			}
			compiled[p.Entity] = schema
		}

		value, err := normalize(p.Value)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		err = schema.Validate(value)
		switch {
		case p.Valid && err != nil:
			errs = append(errs, fmt.Sprintf("%s: expected %s to accept payload: %v", label, p.Entity, err))
		case !p.Valid && err == nil:
			errs = append(errs, fmt.Sprintf("%s: expected %s to reject payload", label, p.Entity))
		}
	}
	return errs
}

// normalize turns a YAML-decoded value into the shape a JSON decoder
// produces, so integers become float64 and maps become map[string]any.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return out, nil
}
