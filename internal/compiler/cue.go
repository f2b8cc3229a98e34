package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tixgen/internal/diagnostic"
)

// CompileModels reads every declaration under the top-level "model" struct,
// in source order.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: UserJson: { kind: "record", fields: [...] }`)
//	decls, err := CompileModels(v)
func CompileModels(v cue.Value) ([]Declaration, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	models := v.LookupPath(cue.ParsePath("model"))
	if !models.Exists() {
		return nil, nil
	}

	iter, err := models.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var decls []Declaration
	for iter.Next() {
		d, err := compileDeclaration(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// CompileDeclaration parses one model struct. The declared name is the
// struct's label, e.g. v.LookupPath(cue.ParsePath("model.UserJson")).
func CompileDeclaration(v cue.Value) (Declaration, error) {
	if err := v.Err(); err != nil {
		return Declaration{}, formatCUEError(err)
	}
	var name string
	if sels := v.Path().Selectors(); len(sels) > 0 {
		name = sels[len(sels)-1].String()
	}
	return compileDeclaration(name, v)
}

func compileDeclaration(name string, v cue.Value) (Declaration, error) {
	d := Declaration{Name: name, Pos: position(v.Pos())}

	kind, err := requiredString(v, "kind", name, "")
	if err != nil {
		return Declaration{}, err
	}
	d.Kind = Kind(kind)

	if d.Doc, err = optionalString(v, "doc"); err != nil {
		return Declaration{}, err
	}
	if d.Directives, err = directives(v, DirectiveRenameAll, DirectiveTag); err != nil {
		return Declaration{}, err
	}
	if d.Fields, err = fieldDecls(v, name); err != nil {
		return Declaration{}, err
	}

	variants := v.LookupPath(cue.ParsePath("variants"))
	if variants.Exists() {
		iter, err := variants.List()
		if err != nil {
			return Declaration{}, formatCUEError(err)
		}
		for iter.Next() {
			item := iter.Value()
			vn, err := requiredString(item, "name", name, "variants")
			if err != nil {
				return Declaration{}, err
			}
			vd := VariantDecl{Name: vn, Pos: position(item.Pos())}
			if vd.Doc, err = optionalString(item, "doc"); err != nil {
				return Declaration{}, err
			}
			if vd.Directives, err = directives(item, DirectiveRename); err != nil {
				return Declaration{}, err
			}
			if vd.Fields, err = fieldDecls(item, name); err != nil {
				return Declaration{}, err
			}
			d.Variants = append(d.Variants, vd)
		}
	}

	return d, nil
}

func fieldDecls(v cue.Value, entity string) ([]FieldDecl, error) {
	fields := v.LookupPath(cue.ParsePath("fields"))
	if !fields.Exists() {
		return nil, nil
	}
	iter, err := fields.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []FieldDecl
	for iter.Next() {
		item := iter.Value()
		name, err := requiredString(item, "name", entity, "fields")
		if err != nil {
			return nil, err
		}
		typ, err := requiredString(item, "type", entity, name)
		if err != nil {
			return nil, err
		}
		f := FieldDecl{Name: name, Type: typ, Pos: position(item.Pos())}
		if f.Doc, err = optionalString(item, "doc"); err != nil {
			return nil, err
		}
		f.Directives, err = directives(item,
			DirectiveRename, DirectiveAs, DirectiveLiteral,
			DirectiveMinLength, DirectiveSkip, DirectiveSkipIfAbsent)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// directives collects the given keys from v in argument order. Scalars of
// any kind are rendered as their text form.
func directives(v cue.Value, keys ...string) ([]Directive, error) {
	var out []Directive
	for _, key := range keys {
		dv := v.LookupPath(cue.MakePath(cue.Str(key)))
		if !dv.Exists() {
			continue
		}
		text, err := scalarText(dv)
		if err != nil {
			return nil, err
		}
		out = append(out, Directive{Key: key, Value: text, Pos: position(dv.Pos())})
	}
	return out, nil
}

func scalarText(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return "", formatCUEError(err)
		}
		return s, nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return "", formatCUEError(err)
		}
		return fmt.Sprint(n), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return "", formatCUEError(err)
		}
		return fmt.Sprint(b), nil
	default:
		return "", &CompileError{
			Message: fmt.Sprintf("directive must be a string, int or bool, got %v", v.IncompleteKind()),
			Pos:     position(v.Pos()),
		}
	}
}

func requiredString(v cue.Value, key, entity, field string) (string, error) {
	s := v.LookupPath(cue.MakePath(cue.Str(key)))
	if !s.Exists() {
		return "", &CompileError{
			Entity:  entity,
			Field:   field,
			Message: key + " is required",
			Pos:     position(v.Pos()),
		}
	}
	out, err := s.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return out, nil
}

func optionalString(v cue.Value, key string) (string, error) {
	s := v.LookupPath(cue.MakePath(cue.Str(key)))
	if !s.Exists() {
		return "", nil
	}
	out, err := s.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return out, nil
}

func position(p token.Pos) diagnostic.Position {
	if !p.IsValid() {
		return diagnostic.Position{}
	}
	return diagnostic.Position{File: p.Filename(), Line: p.Line(), Column: p.Column()}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     position(positions[0]),
		}
	}
	return err
}
