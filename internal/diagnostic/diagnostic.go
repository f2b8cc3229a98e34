// Package diagnostic collects non-fatal findings: capability mismatches,
// undefined references, and other issues that degrade output without
// blocking generation.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic codes.
const (
	CodeNamingDisabled     = "W201" // naming directive with the naming capability off
	CodeIdentifierDisabled = "W202" // identifier type with the identifier capability off
	CodeUndefinedReference = "W203" // reference to an entity not in the registry
	CodeEmitterDisabled    = "W204" // directive only meaningful for a disabled emitter
	CodeUnknownDirective   = "W205"
	CodeMissingSuffix      = "I301" // declared name lacks the Json suffix
)

// Position locates a declaration in its source file.
type Position struct {
	File   string
	Line   int // 1-based (0 = unknown)
	Column int // 1-based (0 = unknown)
}

func (p Position) String() string {
	if p.File == "" {
		return ""
	}
	s := p.File
	if p.Line > 0 {
		s += fmt.Sprintf(":%d", p.Line)
		if p.Column > 0 {
			s += fmt.Sprintf(":%d", p.Column)
		}
	}
	return s
}

// Diagnostic is one finding with enough context to locate its source.
type Diagnostic struct {
	Severity Severity `json:"-"`
	Level    string   `json:"severity"`
	Code     string   `json:"code"`
	Entity   string   `json:"entity,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Hint     string   `json:"hint,omitempty"`
	Pos      Position `json:"-"`
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if loc := d.Pos.String(); loc != "" {
		sb.WriteString(loc)
		sb.WriteString(" - ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(" ")
	sb.WriteString(d.Code)
	sb.WriteString(": ")

	if d.Entity != "" {
		sb.WriteString(d.Entity)
		if d.Field != "" {
			sb.WriteString(".")
			sb.WriteString(d.Field)
		}
		sb.WriteString(": ")
	}

	sb.WriteString(d.Message)

	if d.Hint != "" {
		sb.WriteString("\n  hint: ")
		sb.WriteString(d.Hint)
	}

	return sb.String()
}

// Options configures a Collector.
type Options struct {
	Strict bool // warnings become errors
	Quiet  bool // warnings and infos are dropped
}

// Collector gathers diagnostics. It is safe for concurrent use; a nil
// *Collector discards everything.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
	opts        Options
}

// NewCollector creates a new diagnostic collector.
func NewCollector(opts Options) *Collector {
	return &Collector{opts: opts}
}

// Add records d, applying strict and quiet modes.
func (c *Collector) Add(d Diagnostic) {
	if c == nil {
		return
	}
	if d.Severity != SeverityError && c.opts.Quiet {
		return
	}
	if d.Severity == SeverityWarning && c.opts.Strict {
		d.Severity = SeverityError
	}
	d.Level = d.Severity.String()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Warn records a warning.
func (c *Collector) Warn(code, entity, field, message string) {
	c.Add(Diagnostic{Severity: SeverityWarning, Code: code, Entity: entity, Field: field, Message: message})
}

// Info records an informational note.
func (c *Collector) Info(code, entity, field, message string) {
	c.Add(Diagnostic{Severity: SeverityInfo, Code: code, Entity: entity, Field: field, Message: message})
}

// Diagnostics returns a copy of everything recorded, in insertion order.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Sorted returns the diagnostics ordered by entity, field, then code, so
// output does not depend on goroutine scheduling.
func (c *Collector) Sorted() []Diagnostic {
	out := c.Diagnostics()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Entity != b.Entity {
			return a.Entity < b.Entity
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.Code < b.Code
	})
	return out
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	return c.count(SeverityError) > 0
}

// HasWarnings reports whether any warning was recorded.
func (c *Collector) HasWarnings() bool {
	return c.count(SeverityWarning) > 0
}

func (c *Collector) count(s Severity) int {
	n := 0
	for _, d := range c.Diagnostics() {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Format returns all diagnostics formatted for display, one per line.
func (c *Collector) Format() string {
	var sb strings.Builder
	for _, d := range c.Diagnostics() {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
