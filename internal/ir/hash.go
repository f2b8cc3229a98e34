package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. Version suffix enables future
// algorithm migration.
const (
	DomainEntity   = "tixgen/entity/v1"
	DomainFragment = "tixgen/fragment/v1"
	DomainArtifact = "tixgen/artifact/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EntityHash identifies the resolved shape of an entity. Two entities with
// the same hash render identically under the same feature gate.
func EntityHash(e *EntityNode) (string, error) {
	canonical, err := MarshalCanonical(entityValue(e))
	if err != nil {
		return "", fmt.Errorf("EntityHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEntity, canonical), nil
}

// FragmentHash identifies one emitted fragment of an entity.
func FragmentHash(target, text string) string {
	return hashWithDomain(DomainFragment, []byte(target+"\x00"+text))
}

// ArtifactHash identifies a composite artifact.
func ArtifactHash(text string) string {
	return hashWithDomain(DomainArtifact, []byte(text))
}

func entityValue(e *EntityNode) map[string]any {
	obj := map[string]any{
		"declared_name": e.DeclaredName,
		"wire_name":     e.WireName,
		"doc":           e.Doc,
		"ir_version":    IRVersion,
	}
	switch k := e.Kind.(type) {
	case Record:
		obj["kind"] = "record"
		obj["fields"] = fieldValues(k.Fields)
	case Union:
		obj["kind"] = "union"
		obj["tag_key"] = k.TagKey
		variants := make([]any, len(k.Variants))
		for i, v := range k.Variants {
			variants[i] = map[string]any{
				"declared_name": v.DeclaredName,
				"wire_name":     v.WireName,
				"doc":           v.Doc,
				"fields":        fieldValues(v.Fields),
			}
		}
		obj["variants"] = variants
	}
	return obj
}

func fieldValues(fields []FieldNode) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		fv := map[string]any{
			"declared_name": f.DeclaredName,
			"wire_name":     f.WireName,
			"type":          f.Type.String(),
			"required":      f.Required,
			"doc":           f.Doc,
		}
		if f.Constraints.Literal != nil {
			fv["literal"] = *f.Constraints.Literal
		}
		if f.Constraints.MinLength != nil {
			fv["min_length"] = *f.Constraints.MinLength
		}
		out[i] = fv
	}
	return out
}
