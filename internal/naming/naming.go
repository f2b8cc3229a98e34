// Package naming derives wire names for fields and variants from declared
// names, a global casing policy, and per-name renames.
package naming

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Policy is a global rename_all casing transform.
type Policy int

const (
	Identity Policy = iota
	CamelCase
	PascalCase
	SnakeCase
	ScreamingSnakeCase
	KebabCase
	ScreamingKebabCase
	LowerCase
	UpperCase
)

var policyNames = map[string]Policy{
	"camelCase":            CamelCase,
	"PascalCase":           PascalCase,
	"snake_case":           SnakeCase,
	"SCREAMING_SNAKE_CASE": ScreamingSnakeCase,
	"kebab-case":           KebabCase,
	"SCREAMING-KEBAB-CASE": ScreamingKebabCase,
	"lowercase":            LowerCase,
	"UPPERCASE":            UpperCase,
}

// ParsePolicy maps a rename_all value to a Policy. The empty string is
// Identity; anything unrecognized is an *UnknownCasingError.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return Identity, nil
	}
	if p, ok := policyNames[s]; ok {
		return p, nil
	}
	return Identity, &UnknownCasingError{Policy: s}
}

func (p Policy) String() string {
	for name, v := range policyNames {
		if v == p {
			return name
		}
	}
	return "identity"
}

// Apply transforms a declared identifier. Applying the same policy to its
// own output returns it unchanged.
func (p Policy) Apply(name string) string {
	// Casers keep state between calls and must not be shared.
	lower := cases.Lower(language.Und)
	upper := cases.Upper(language.Und)
	title := cases.Title(language.Und)

	switch p {
	case Identity:
		return name
	case LowerCase:
		return lower.String(name)
	case UpperCase:
		return upper.String(name)
	}

	words := Split(name)
	if len(words) == 0 {
		return name
	}
	switch p {
	case CamelCase:
		var b strings.Builder
		b.WriteString(lower.String(words[0]))
		for _, w := range words[1:] {
			b.WriteString(title.String(w))
		}
		return b.String()
	case PascalCase:
		var b strings.Builder
		for _, w := range words {
			b.WriteString(title.String(w))
		}
		return b.String()
	case SnakeCase:
		return join(words, "_", lower)
	case ScreamingSnakeCase:
		return join(words, "_", upper)
	case KebabCase:
		return join(words, "-", lower)
	case ScreamingKebabCase:
		return join(words, "-", upper)
	default:
		panic(fmt.Sprintf("naming: unhandled policy %d", int(p)))
	}
}

func join(words []string, sep string, c cases.Caser) string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = c.String(w)
	}
	return strings.Join(out, sep)
}

// Split segments an identifier into words. Boundaries are '_', '-',
// whitespace, a lower-to-upper transition, and the last capital of an
// acronym run ("HTTPServer" -> "HTTP", "Server").
func Split(name string) []string {
	var words []string
	runes := []rune(name)
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		if unicode.IsUpper(r) {
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))
	return words
}
