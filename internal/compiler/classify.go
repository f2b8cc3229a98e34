package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/tixgen/internal/diagnostic"
	"github.com/roach88/tixgen/internal/features"
	"github.com/roach88/tixgen/internal/ir"
	"github.com/roach88/tixgen/internal/naming"
	"github.com/roach88/tixgen/internal/resolver"
)

var (
	entityDirectives  = map[string]bool{DirectiveRenameAll: true, DirectiveTag: true}
	fieldDirectives   = map[string]bool{DirectiveRename: true, DirectiveAs: true, DirectiveLiteral: true, DirectiveMinLength: true, DirectiveSkip: true, DirectiveSkipIfAbsent: true}
	variantDirectives = map[string]bool{DirectiveRename: true}
	namingDirectives  = map[string]bool{DirectiveRenameAll: true, DirectiveTag: true, DirectiveRename: true}
)

// classifier holds the per-declaration state of one Classify call.
type classifier struct {
	decl   Declaration
	gate   features.Gate
	diag   *diagnostic.Collector
	wire   string
	policy naming.Policy
}

// Classify resolves a declaration into an EntityNode: naming rules, field
// types, and record/plain/tagged classification. Resolution errors are
// returned as *CompileError; capability mismatches go to diag.
func Classify(d Declaration, gate features.Gate, diag *diagnostic.Collector) (*ir.EntityNode, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, &CompileError{Message: "declaration name is required", Pos: d.Pos}
	}

	c := &classifier{decl: d, gate: gate, diag: diag, wire: resolver.StripSuffix(d.Name)}
	if !resolver.HasSuffix(d.Name) {
		diag.Add(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityInfo,
			Code:     diagnostic.CodeMissingSuffix,
			Entity:   d.Name,
			Message:  fmt.Sprintf("declared name has no %s suffix; wire name is %q", resolver.Suffix, d.Name),
			Pos:      d.Pos,
		})
	}

	directives := c.filter(d.Directives, entityDirectives, "")
	if rename, ok := lookup(directives, DirectiveRenameAll); ok {
		p, err := naming.ParsePolicy(rename.Value)
		if err != nil {
			return nil, wrap(c.wire, "", rename.Pos, err)
		}
		c.policy = p
	}

	entity := &ir.EntityNode{
		DeclaredName: d.Name,
		WireName:     c.wire,
		Doc:          docLines(d.Doc, d.Name),
	}

	switch d.Kind {
	case KindRecord:
		if len(d.Variants) > 0 {
			return nil, c.invalid("a record declares fields, not variants")
		}
		if tag, ok := lookup(directives, DirectiveTag); ok {
			c.diag.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeUnknownDirective,
				Entity:   c.wire,
				Message:  "tag only applies to unions; ignored",
				Pos:      tag.Pos,
			})
		}
		fields, err := c.fields("", d.Fields)
		if err != nil {
			return nil, err
		}
		entity.Kind = ir.Record{Fields: fields}

	case KindUnion:
		if len(d.Fields) > 0 {
			return nil, c.invalid("a union declares variants, not fields")
		}
		if len(d.Variants) == 0 {
			return nil, c.invalid("a union needs at least one variant")
		}
		union, err := c.union(directives)
		if err != nil {
			return nil, err
		}
		entity.Kind = union

	default:
		return nil, c.invalid(fmt.Sprintf("unknown kind %q: must be %q or %q", d.Kind, KindRecord, KindUnion))
	}

	return entity, nil
}

func (c *classifier) invalid(msg string) *CompileError {
	return &CompileError{Entity: c.wire, Message: msg, Pos: c.decl.Pos}
}

// filter drops unknown directives and, when naming is off, naming
// directives, reporting each.
func (c *classifier) filter(directives []Directive, known map[string]bool, field string) []Directive {
	var kept []Directive
	for _, dir := range directives {
		switch {
		case !known[dir.Key]:
			c.diag.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeUnknownDirective,
				Entity:   c.wire,
				Field:    field,
				Message:  fmt.Sprintf("unknown directive %q ignored", dir.Key),
				Pos:      dir.Pos,
			})
		case namingDirectives[dir.Key] && !c.gate.Naming:
			c.diag.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeNamingDisabled,
				Entity:   c.wire,
				Field:    field,
				Message:  fmt.Sprintf("naming capability is disabled; directive %q ignored", dir.Key),
				Hint:     "enable the naming capability (--features naming)",
				Pos:      dir.Pos,
			})
		default:
			kept = append(kept, dir)
		}
	}
	return kept
}

func (c *classifier) union(directives []Directive) (ir.Union, error) {
	variantDirs := make([][]Directive, len(c.decl.Variants))
	names := make([]naming.Name, len(c.decl.Variants))
	for i, v := range c.decl.Variants {
		variantDirs[i] = c.filter(v.Directives, variantDirectives, v.Name)
		names[i] = naming.Name{Declared: v.Name}
		if r, ok := lookup(variantDirs[i], DirectiveRename); ok {
			names[i].Rename = r.Value
		}
	}

	wireNames, err := naming.Resolve(c.wire, names, c.policy)
	if err != nil {
		return ir.Union{}, c.duplicate(err, c.variantPos)
	}

	variants := make([]ir.VariantNode, len(c.decl.Variants))
	for i, v := range c.decl.Variants {
		fields, err := c.fields(wireNames[i], v.Fields)
		if err != nil {
			return ir.Union{}, err
		}
		variants[i] = ir.VariantNode{
			DeclaredName: v.Name,
			WireName:     wireNames[i],
			Doc:          docLines(v.Doc, wireNames[i]),
			Fields:       fields,
		}
	}

	tag := ""
	if t, ok := lookup(directives, DirectiveTag); ok {
		tag = t.Value
	}
	u := ir.NewUnion(variants, tag)
	if !u.Tagged() {
		return u, nil
	}
	for _, v := range u.Variants {
		for _, f := range v.Fields {
			if f.WireName == u.TagKey {
				err := &TagFieldCollisionError{Entity: c.wire, Variant: v.WireName, Tag: u.TagKey}
				return ir.Union{}, wrap(c.wire, v.WireName, c.decl.Pos, err)
			}
		}
	}
	return u, nil
}

func (c *classifier) variantPos(declared string) diagnostic.Position {
	for _, v := range c.decl.Variants {
		if v.Name == declared {
			return v.Pos
		}
	}
	return c.decl.Pos
}

func (c *classifier) duplicate(err error, pos func(string) diagnostic.Position) error {
	var dup *naming.DuplicateWireNameError
	if errors.As(err, &dup) {
		return wrap(c.wire, dup.Second, pos(dup.Second), err)
	}
	return wrap(c.wire, "", c.decl.Pos, err)
}

// fields resolves the fields of a record (variant == "") or of one variant.
func (c *classifier) fields(variant string, decls []FieldDecl) ([]ir.FieldNode, error) {
	var kept []FieldDecl
	var dirs [][]Directive
	var names []naming.Name
	for _, f := range decls {
		fd := c.filter(f.Directives, fieldDirectives, f.Name)
		if skip, ok := lookup(fd, DirectiveSkip); ok {
			on, err := parseFlag(skip.Value)
			if err != nil {
				return nil, wrap(c.wire, f.Name, skip.Pos, &ConstraintError{Directive: DirectiveSkip, Message: err.Error()})
			}
			if on {
				continue
			}
		}
		n := naming.Name{Declared: f.Name}
		if r, ok := lookup(fd, DirectiveRename); ok {
			n.Rename = r.Value
		}
		kept = append(kept, f)
		dirs = append(dirs, fd)
		names = append(names, n)
	}

	wireNames, err := naming.Resolve(c.wire, names, c.policy)
	if err != nil {
		return nil, c.duplicate(err, func(declared string) diagnostic.Position {
			for _, f := range kept {
				if f.Name == declared {
					return f.Pos
				}
			}
			return c.decl.Pos
		})
	}

	out := make([]ir.FieldNode, len(kept))
	for i, f := range kept {
		node, err := c.field(variant, f, dirs[i], wireNames[i])
		if err != nil {
			return nil, err
		}
		out[i] = node
	}
	return out, nil
}

func (c *classifier) field(variant string, f FieldDecl, dirs []Directive, wire string) (ir.FieldNode, error) {
	label := wire
	if variant != "" {
		label = variant + "." + wire
	}

	expr := f.Type
	if as, ok := lookup(dirs, DirectiveAs); ok {
		expr = as.Value
	}
	if strings.TrimSpace(expr) == "" {
		return ir.FieldNode{}, &CompileError{Entity: c.wire, Field: label, Message: "field type is required", Pos: f.Pos}
	}

	t, err := resolver.Resolve(expr, resolver.Context{
		Gate:   c.gate,
		Diag:   c.diag,
		Entity: c.wire,
		Field:  label,
		Pos:    f.Pos,
	})
	if err != nil {
		return ir.FieldNode{}, wrap(c.wire, label, f.Pos, err)
	}

	if d, ok := lookup(dirs, DirectiveSkipIfAbsent); ok {
		on, err := parseFlag(d.Value)
		if err != nil {
			return ir.FieldNode{}, wrap(c.wire, label, d.Pos, &ConstraintError{Directive: DirectiveSkipIfAbsent, Message: err.Error()})
		}
		if _, optional := t.(ir.Optional); on && !optional {
			t = ir.Optional{Inner: t}
		}
	}

	constraints, err := c.constraints(t, dirs, label)
	if err != nil {
		return ir.FieldNode{}, wrap(c.wire, label, f.Pos, err)
	}

	_, optional := t.(ir.Optional)
	return ir.FieldNode{
		DeclaredName: f.Name,
		WireName:     wire,
		Type:         t,
		Required:     !optional,
		Doc:          docLines(f.Doc, wire),
		Constraints:  constraints,
	}, nil
}

func (c *classifier) constraints(t ir.TypeNode, dirs []Directive, label string) (ir.FieldConstraints, error) {
	var out ir.FieldConstraints
	isString := ir.Unwrap(t) == ir.TypeNode(ir.Primitive{Kind: ir.String})

	if lit, ok := lookup(dirs, DirectiveLiteral); ok {
		if !isString {
			return out, &ConstraintError{Directive: DirectiveLiteral, Message: fmt.Sprintf("requires a string field, got %s", t)}
		}
		v := lit.Value
		out.Literal = &v
	}

	if ml, ok := lookup(dirs, DirectiveMinLength); ok {
		if !isString {
			return out, &ConstraintError{Directive: DirectiveMinLength, Message: fmt.Sprintf("requires a string field, got %s", t)}
		}
		n, err := strconv.Atoi(strings.TrimSpace(ml.Value))
		if err != nil || n < 0 {
			return out, &ConstraintError{Directive: DirectiveMinLength, Message: fmt.Sprintf("must be a non-negative integer, got %q", ml.Value)}
		}
		out.MinLength = &n
		if !c.gate.Validation && !c.gate.JSONSchema {
			c.diag.Add(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Code:     diagnostic.CodeEmitterDisabled,
				Entity:   c.wire,
				Field:    label,
				Message:  "min_length only affects validation and JSON Schema output, both disabled",
				Pos:      ml.Pos,
			})
		}
	}
	return out, nil
}

func parseFlag(v string) (bool, error) {
	if strings.TrimSpace(v) == "" {
		return true, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}

// docLines splits a doc comment into trimmed lines, defaulting to name.
func docLines(doc, name string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return []string{name}
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
