package compiler

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tixgen/internal/diagnostic"
)

// ParseYAML reads declarations from a YAML document of the form
//
//	models:
//	  - name: UserJson
//	    kind: record
//	    rename_all: camelCase
//	    fields:
//	      - {name: user_name, type: String}
//
// file is only used for positions.
func ParseYAML(data []byte, file string) ([]Declaration, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error(), Pos: diagnostic.Position{File: file}}
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	p := &yamlParser{file: file}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, p.errorf(root, "", "", "top level must be a mapping with a models key")
	}

	models := p.value(root, "models")
	if models == nil {
		return nil, nil
	}
	if models.Kind != yaml.SequenceNode {
		return nil, p.errorf(models, "", "", "models must be a list")
	}

	decls := make([]Declaration, 0, len(models.Content))
	for _, item := range models.Content {
		d, err := p.declaration(item)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

type yamlParser struct {
	file string
}

func (p *yamlParser) pos(n *yaml.Node) diagnostic.Position {
	return diagnostic.Position{File: p.file, Line: n.Line, Column: n.Column}
}

func (p *yamlParser) errorf(n *yaml.Node, entity, field, format string, args ...any) error {
	return &CompileError{Entity: entity, Field: field, Message: fmt.Sprintf(format, args...), Pos: p.pos(n)}
}

// value returns the value node for key in a mapping, or nil.
func (p *yamlParser) value(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func (p *yamlParser) scalar(m *yaml.Node, key, entity, field string) (string, error) {
	n := p.value(m, key)
	if n == nil {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", p.errorf(n, entity, field, "%s must be a scalar", key)
	}
	return n.Value, nil
}

func (p *yamlParser) required(m *yaml.Node, key, entity, field string) (string, error) {
	s, err := p.scalar(m, key, entity, field)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", p.errorf(m, entity, field, "%s is required", key)
	}
	return s, nil
}

func (p *yamlParser) directives(m *yaml.Node, entity, field string, keys ...string) ([]Directive, error) {
	var out []Directive
	for _, key := range keys {
		n := p.value(m, key)
		if n == nil {
			continue
		}
		if n.Kind != yaml.ScalarNode {
			return nil, p.errorf(n, entity, field, "directive %s must be a scalar", key)
		}
		out = append(out, Directive{Key: key, Value: n.Value, Pos: p.pos(n)})
	}
	return out, nil
}

func (p *yamlParser) declaration(m *yaml.Node) (Declaration, error) {
	if m.Kind != yaml.MappingNode {
		return Declaration{}, p.errorf(m, "", "", "model must be a mapping")
	}
	name, err := p.required(m, "name", "", "")
	if err != nil {
		return Declaration{}, err
	}
	kind, err := p.required(m, "kind", name, "")
	if err != nil {
		return Declaration{}, err
	}

	d := Declaration{Name: name, Kind: Kind(kind), Pos: p.pos(m)}
	if d.Doc, err = p.scalar(m, "doc", name, ""); err != nil {
		return Declaration{}, err
	}
	if d.Directives, err = p.directives(m, name, "", DirectiveRenameAll, DirectiveTag); err != nil {
		return Declaration{}, err
	}
	if d.Fields, err = p.fields(m, name); err != nil {
		return Declaration{}, err
	}

	if variants := p.value(m, "variants"); variants != nil {
		if variants.Kind != yaml.SequenceNode {
			return Declaration{}, p.errorf(variants, name, "", "variants must be a list")
		}
		for _, item := range variants.Content {
			if item.Kind != yaml.MappingNode {
				return Declaration{}, p.errorf(item, name, "", "variant must be a mapping")
			}
			vn, err := p.required(item, "name", name, "variants")
			if err != nil {
				return Declaration{}, err
			}
			v := VariantDecl{Name: vn, Pos: p.pos(item)}
			if v.Doc, err = p.scalar(item, "doc", name, vn); err != nil {
				return Declaration{}, err
			}
			if v.Directives, err = p.directives(item, name, vn, DirectiveRename); err != nil {
				return Declaration{}, err
			}
			if v.Fields, err = p.fields(item, name); err != nil {
				return Declaration{}, err
			}
			d.Variants = append(d.Variants, v)
		}
	}
	return d, nil
}

func (p *yamlParser) fields(m *yaml.Node, entity string) ([]FieldDecl, error) {
	list := p.value(m, "fields")
	if list == nil {
		return nil, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, p.errorf(list, entity, "", "fields must be a list")
	}

	out := make([]FieldDecl, 0, len(list.Content))
	for _, item := range list.Content {
		if item.Kind != yaml.MappingNode {
			return nil, p.errorf(item, entity, "", "field must be a mapping")
		}
		name, err := p.required(item, "name", entity, "fields")
		if err != nil {
			return nil, err
		}
		typ, err := p.required(item, "type", entity, name)
		if err != nil {
			return nil, err
		}
		f := FieldDecl{Name: name, Type: typ, Pos: p.pos(item)}
		if f.Doc, err = p.scalar(item, "doc", entity, name); err != nil {
			return nil, err
		}
		f.Directives, err = p.directives(item, entity, name,
			DirectiveRename, DirectiveAs, DirectiveLiteral,
			DirectiveMinLength, DirectiveSkip, DirectiveSkipIfAbsent)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
