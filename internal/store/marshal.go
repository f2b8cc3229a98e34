package store

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/roach88/tixgen/internal/ir"
)

// Diagnostic is the ledger form of a diagnostic.Diagnostic.
type Diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Entity   string `json:"entity"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// marshalDiagnostics converts diagnostics to canonical JSON TEXT so equal
// runs store identical bytes.
func marshalDiagnostics(diags []Diagnostic) (string, error) {
	items := make([]any, len(diags))
	for i, d := range diags {
		items[i] = map[string]any{
			"severity": d.Severity,
			"code":     d.Code,
			"entity":   d.Entity,
			"field":    d.Field,
			"message":  d.Message,
		}
	}
	data, err := ir.MarshalCanonical(items)
	if err != nil {
		return "", fmt.Errorf("marshal diagnostics: %w", err)
	}
	return string(data), nil
}

// unmarshalDiagnostics parses TEXT written by marshalDiagnostics.
func unmarshalDiagnostics(data string) ([]Diagnostic, error) {
	diags := []Diagnostic{}
	if data == "" || data == "[]" {
		return diags, nil
	}
	if err := json.Unmarshal([]byte(data), &diags); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	return diags, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}
