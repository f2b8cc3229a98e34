package compiler

import (
	"github.com/roach88/tixgen/internal/diagnostic"
)

// Kind is the declaration shape.
type Kind string

const (
	KindRecord Kind = "record"
	KindUnion  Kind = "union"
)

// Directive keys.
const (
	DirectiveRenameAll    = "rename_all"
	DirectiveTag          = "tag"
	DirectiveRename       = "rename"
	DirectiveAs           = "as"
	DirectiveLiteral      = "literal"
	DirectiveMinLength    = "min_length"
	DirectiveSkip         = "skip"
	DirectiveSkipIfAbsent = "skip_if_absent"
)

// Directive is one raw naming or behavior directive as written in source.
type Directive struct {
	Key   string
	Value string
	Pos   diagnostic.Position
}

// Declaration is the parsed description of one type, handed over by a
// front-end (CUE or YAML).
type Declaration struct {
	Name       string
	Kind       Kind
	Doc        string
	Directives []Directive
	Fields     []FieldDecl   // records
	Variants   []VariantDecl // unions
	Pos        diagnostic.Position
}

// FieldDecl is one declared field with its type expression text.
type FieldDecl struct {
	Name       string
	Type       string
	Doc        string
	Directives []Directive
	Pos        diagnostic.Position
}

// VariantDecl is one declared union alternative.
type VariantDecl struct {
	Name       string
	Doc        string
	Directives []Directive
	Fields     []FieldDecl
	Pos        diagnostic.Position
}

// lookup returns the last directive with key, so later directives override
// earlier ones.
func lookup(directives []Directive, key string) (Directive, bool) {
	for i := len(directives) - 1; i >= 0; i-- {
		if directives[i].Key == key {
			return directives[i], true
		}
	}
	return Directive{}, false
}
