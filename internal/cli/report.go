package cli

import (
	"errors"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/registry"
)

// Report summarizes a generation run for JSON output.
type Report struct {
	Entities    []string            `json:"entities"`
	Fragments   []FragmentSummary   `json:"fragments"`
	Errors      []EntityErrorReport `json:"errors,omitempty"`
	Diagnostics []DiagnosticReport  `json:"diagnostics,omitempty"`
	Hash        string              `json:"hash"`
	Output      string              `json:"output,omitempty"`
	Schema      string              `json:"schema,omitempty"`
	RunID       string              `json:"run_id,omitempty"`
}

// FragmentSummary identifies one emitted fragment.
type FragmentSummary struct {
	Entity string `json:"entity"`
	Target string `json:"target"`
	Hash   string `json:"hash"`
}

// EntityErrorReport is a failed entity.
type EntityErrorReport struct {
	Entity   string `json:"entity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
}

// DiagnosticReport is one non-fatal finding.
type DiagnosticReport struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Entity   string `json:"entity,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Position string `json:"position,omitempty"`
}

func newReport(art *registry.Artifact) *Report {
	r := &Report{Entities: []string{}, Fragments: []FragmentSummary{}, Hash: art.Hash}
	for _, e := range art.Entities {
		r.Entities = append(r.Entities, e.WireName)
	}
	for _, f := range art.Fragments {
		r.Fragments = append(r.Fragments, FragmentSummary{Entity: f.Entity, Target: string(f.Target), Hash: f.Hash})
	}
	for _, err := range art.Errors {
		r.Errors = append(r.Errors, entityErrorReport(err))
	}
	for _, d := range art.Diagnostics {
		r.Diagnostics = append(r.Diagnostics, DiagnosticReport{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Entity:   d.Entity,
			Field:    d.Field,
			Message:  d.Message,
			Position: d.Pos.String(),
		})
	}
	return r
}

func entityErrorReport(err error) EntityErrorReport {
	rep := EntityErrorReport{Code: compiler.CodeOf(err), Message: err.Error()}
	var ee *registry.EntityError
	if errors.As(err, &ee) {
		rep.Entity = ee.Entity
	}
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		rep.Message = ce.Message
		rep.Position = ce.Pos.String()
	}
	if rep.Code == "" {
		rep.Code = ErrCodeGeneric
	}
	return rep
}
