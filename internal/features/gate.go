// Package features defines the Feature Gate: the immutable set of optional
// capabilities threaded into every resolution and emission call.
package features

import (
	"fmt"
	"strings"
)

// Capability is one independently toggleable generation feature.
type Capability string

const (
	Naming     Capability = "naming"
	Validation Capability = "validation"
	JSONSchema Capability = "jsonschema"
	Identifier Capability = "identifier"
	Structural Capability = "structural"
)

// Capabilities in their canonical order.
var Capabilities = []Capability{Naming, Validation, JSONSchema, Identifier, Structural}

var aliases = map[string]Capability{
	"naming":      Naming,
	"serde":       Naming,
	"validation":  Validation,
	"zod":         Validation,
	"jsonschema":  JSONSchema,
	"json-schema": JSONSchema,
	"identifier":  Identifier,
	"objectid":    Identifier,
	"object_id":   Identifier,
	"structural":  Structural,
	"typescript":  Structural,
	"ts":          Structural,
}

// Gate is a value type; copies are independent and there is no global gate.
type Gate struct {
	Naming     bool
	Validation bool
	JSONSchema bool
	Identifier bool
	Structural bool
}

// All enables every capability.
func All() Gate {
	return Gate{Naming: true, Validation: true, JSONSchema: true, Identifier: true, Structural: true}
}

// None disables every capability.
func None() Gate {
	return Gate{}
}

// Parse builds a gate from capability names or aliases. Names are
// case-insensitive; "all" enables everything.
func Parse(names []string) (Gate, error) {
	var g Gate
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == "all" {
			return All(), nil
		}
		c, ok := aliases[name]
		if !ok {
			return Gate{}, fmt.Errorf("unknown capability %q", raw)
		}
		g = g.With(c, true)
	}
	return g, nil
}

// Enabled reports whether c is on.
func (g Gate) Enabled(c Capability) bool {
	switch c {
	case Naming:
		return g.Naming
	case Validation:
		return g.Validation
	case JSONSchema:
		return g.JSONSchema
	case Identifier:
		return g.Identifier
	case Structural:
		return g.Structural
	default:
		return false
	}
}

// With returns a copy of g with c set to on.
func (g Gate) With(c Capability, on bool) Gate {
	switch c {
	case Naming:
		g.Naming = on
	case Validation:
		g.Validation = on
	case JSONSchema:
		g.JSONSchema = on
	case Identifier:
		g.Identifier = on
	case Structural:
		g.Structural = on
	}
	return g
}

// Capabilities returns the capabilities that are on, in canonical order.
func (g Gate) Capabilities() []Capability {
	var out []Capability
	for _, c := range Capabilities {
		if g.Enabled(c) {
			out = append(out, c)
		}
	}
	return out
}

func (g Gate) String() string {
	list := g.Capabilities()
	if len(list) == 0 {
		return "none"
	}
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = string(c)
	}
	return strings.Join(names, ",")
}
