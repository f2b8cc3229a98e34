// Package jsonschema renders entities as JSON Schema documents.
package jsonschema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Schema is the subset of JSON Schema the emitter produces. Keys marshal in
// sorted order.
type Schema struct {
	Type                 string
	Properties           map[string]*Schema // non-nil for closed objects, even when empty
	Required             []string
	AdditionalProperties *SchemaOrBool
	Items                *Schema
	Enum                 []string
	Const                *string
	OneOf                []*Schema
	MinLength            *int
	Pattern              string
	Ref                  string
	Defs                 map[string]*Schema
}

// SchemaOrBool is an additionalProperties value: a schema or a boolean.
type SchemaOrBool struct {
	Schema *Schema
	Bool   *bool
}

// MarshalJSON implements json.Marshaler.
func (s SchemaOrBool) MarshalJSON() ([]byte, error) {
	if s.Bool != nil {
		return json.Marshal(*s.Bool)
	}
	if s.Schema != nil {
		return json.Marshal(s.Schema)
	}
	return []byte("{}"), nil
}

// MarshalJSON implements json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.MarshalNoEscape(s.document())
}

// document flattens s into a map so the encoder sorts its keys.
func (s *Schema) document() map[string]any {
	doc := make(map[string]any)
	if s.Type != "" {
		doc["type"] = s.Type
	}
	if s.Properties != nil {
		doc["properties"] = s.Properties
		required := s.Required
		if required == nil {
			required = []string{}
		}
		doc["required"] = required
	}
	if s.AdditionalProperties != nil {
		doc["additionalProperties"] = s.AdditionalProperties
	}
	if s.Items != nil {
		doc["items"] = s.Items
	}
	if s.Enum != nil {
		doc["enum"] = s.Enum
	}
	if s.Const != nil {
		doc["const"] = *s.Const
	}
	if s.OneOf != nil {
		doc["oneOf"] = s.OneOf
	}
	if s.MinLength != nil {
		doc["minLength"] = *s.MinLength
	}
	if s.Pattern != "" {
		doc["pattern"] = s.Pattern
	}
	if s.Ref != "" {
		doc["$ref"] = s.Ref
	}
	if s.Defs != nil {
		doc["$defs"] = s.Defs
	}
	return doc
}

// Indent renders s as two-space indented JSON without a trailing newline.
func (s *Schema) Indent() ([]byte, error) {
	compact, err := json.MarshalNoEscape(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func closed() *SchemaOrBool {
	f := false
	return &SchemaOrBool{Bool: &f}
}
