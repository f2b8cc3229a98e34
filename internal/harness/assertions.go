package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/registry"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion and returns one message per
// failure.
func EvaluateAssertions(art *registry.Artifact, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(art, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(art *registry.Artifact, a Assertion) error {
	switch a.Type {
	case AssertFragmentContains:
		return assertFragmentContains(art, a)
	case AssertFragmentAbsent:
		return assertFragmentAbsent(art, a)
	case AssertTextContains:
		if !strings.Contains(art.Text, a.Text) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("artifact containing %q", a.Text), Actual: "not found"}
		}
		return nil
	case AssertDiagnostic:
		return assertDiagnostic(art, a)
	case AssertEntityError:
		return assertEntityError(art, a)
	case AssertEntities:
		return assertEntities(art, a)
	default:
		return &AssertionError{Type: a.Type, Expected: "known assertion type", Actual: a.Type}
	}
}

func findFragment(art *registry.Artifact, entity, target string) (registry.Fragment, bool) {
	for _, f := range art.Fragments {
		if f.Entity == entity && string(f.Target) == target {
			return f, true
		}
	}
	return registry.Fragment{}, false
}

func assertFragmentContains(art *registry.Artifact, a Assertion) error {
	f, ok := findFragment(art, a.Entity, a.Target)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s fragment for %s", a.Target, a.Entity),
			Actual:   "no such fragment",
		}
	}
	if !strings.Contains(f.Text, a.Text) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s/%s containing %q", a.Entity, a.Target, a.Text),
			Actual:   f.Text,
		}
	}
	return nil
}

func assertFragmentAbsent(art *registry.Artifact, a Assertion) error {
	if _, ok := findFragment(art, a.Entity, a.Target); ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("no %s fragment for %s", a.Target, a.Entity),
			Actual:   "fragment present",
		}
	}
	return nil
}

func assertDiagnostic(art *registry.Artifact, a Assertion) error {
	n := 0
	for _, d := range art.Diagnostics {
		if d.Code == a.Code && (a.Entity == "" || d.Entity == a.Entity) {
			n++
		}
	}
	switch {
	case a.Count == nil && n == 0:
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("at least one %s", a.Code), Actual: "none"}
	case a.Count != nil && n != *a.Count:
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d x %s", *a.Count, a.Code), Actual: fmt.Sprintf("%d", n)}
	}
	return nil
}

func assertEntityError(art *registry.Artifact, a Assertion) error {
	var codes []string
	for _, err := range art.Errors {
		ee, ok := err.(*registry.EntityError)
		if !ok || ee.Entity != a.Entity {
			continue
		}
		code := compiler.CodeOf(err)
		if code == a.Code {
			return nil
		}
		codes = append(codes, code)
	}
	actual := "no error"
	if len(codes) > 0 {
		actual = strings.Join(codes, ", ")
	}
	return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s failing with %s", a.Entity, a.Code), Actual: actual}
}

func assertEntities(art *registry.Artifact, a Assertion) error {
	names := make([]string, len(art.Entities))
	for i, e := range art.Entities {
		names[i] = e.WireName
	}
	if !slices.Equal(names, a.Names) {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprint(a.Names), Actual: fmt.Sprint(names)}
	}
	return nil
}
