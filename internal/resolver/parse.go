package resolver

import (
	"fmt"
	"strings"
	"unicode"
)

// Expr is a parsed type expression: Name or Name<Args...>. A slice or
// array spelling ([T] or [T; N]) parses as Name "[]" with one argument.
type Expr struct {
	Name string
	Args []*Expr
}

func (e *Expr) String() string {
	if e.Name == sliceName {
		return "[" + e.Args[0].String() + "]"
	}
	if len(e.Args) == 0 {
		return e.Name
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Name + "<" + strings.Join(args, ", ") + ">"
}

const sliceName = "[]"

// Parse reads a type expression. Path qualifiers (std::collections::) and
// a leading reference marker (&) are dropped.
func Parse(src string) (*Expr, error) {
	p := &parser{src: []rune(src)}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", string(p.peek()))
	}
	return e, nil
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) eof() bool  { return p.pos >= len(p.src) }
func (p *parser) peek() rune { return p.src[p.pos] }

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &TypeSyntaxError{Expr: string(p.src), Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expr() (*Expr, error) {
	p.skipSpace()
	for !p.eof() && p.peek() == '&' {
		p.pos++
		p.skipSpace()
	}
	if p.eof() {
		return nil, p.errorf("expected type name")
	}
	if p.peek() == '[' {
		return p.slice()
	}

	name, err := p.path()
	if err != nil {
		return nil, err
	}
	e := &Expr{Name: name}

	p.skipSpace()
	if p.eof() || p.peek() != '<' {
		return e, nil
	}
	p.pos++
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		e.Args = append(e.Args, arg)
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unclosed '<'")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return e, nil
		default:
			return nil, p.errorf("expected ',' or '>', found %q", string(p.peek()))
		}
	}
}

// path reads a::b::Name and returns the last segment.
func (p *parser) path() (string, error) {
	var last string
	for {
		seg := p.ident()
		if seg == "" {
			if p.eof() {
				return "", p.errorf("expected type name")
			}
			return "", p.errorf("unexpected %q", string(p.peek()))
		}
		last = seg
		if p.pos+1 < len(p.src) && p.src[p.pos] == ':' && p.src[p.pos+1] == ':' {
			p.pos += 2
			continue
		}
		return last, nil
	}
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() {
		r := p.peek()
		if r == '_' || unicode.IsLetter(r) || (p.pos > start && unicode.IsDigit(r)) {
			p.pos++
			continue
		}
		break
	}
	return string(p.src[start:p.pos])
}

// slice reads [T] or [T; N].
func (p *parser) slice() (*Expr, error) {
	p.pos++ // '['
	elem, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() && p.peek() == ';' {
		p.pos++
		p.skipSpace()
		start := p.pos
		for !p.eof() && unicode.IsDigit(p.peek()) {
			p.pos++
		}
		if p.pos == start {
			return nil, p.errorf("expected array length")
		}
		p.skipSpace()
	}
	if p.eof() || p.peek() != ']' {
		return nil, p.errorf("unclosed '['")
	}
	p.pos++
	return &Expr{Name: sliceName, Args: []*Expr{elem}}, nil
}
