package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/tixgen/internal/diagnostic"
)

// Resolution error codes (E100-E199). Codes for errors raised by naming and
// resolver are repeated here so callers have one table.
const (
	ErrNestedOptional     = "E101"
	ErrUnsupportedMapKey  = "E102"
	ErrDuplicateWireName  = "E103"
	ErrTagFieldCollision  = "E104"
	ErrUnknownCasing      = "E105"
	ErrUnsupportedType    = "E106"
	ErrTypeSyntax         = "E107"
	ErrInvalidDeclaration = "E108"
	ErrInvalidConstraint  = "E109"
	ErrInvariant          = "E110"
)

// coded is implemented by every typed resolution error.
type coded interface {
	Code() string
}

// CodeOf returns the error code carried by err, or "" if none.
func CodeOf(err error) string {
	var c coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// CompileError locates a resolution failure in its declaration.
type CompileError struct {
	Entity  string
	Field   string // empty for entity-level errors
	Message string
	Pos     diagnostic.Position
	Err     error // underlying typed error, if any
}

func (e *CompileError) Error() string {
	where := e.Entity
	switch {
	case where == "":
		where = e.Field
	case e.Field != "":
		where += "." + e.Field
	}
	if loc := e.Pos.String(); loc != "" {
		return fmt.Sprintf("%s: %s: %s", loc, where, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Code returns the wrapped error's code, or ErrInvalidDeclaration.
func (e *CompileError) Code() string {
	if e.Err != nil {
		if c := CodeOf(e.Err); c != "" {
			return c
		}
	}
	return ErrInvalidDeclaration
}

func wrap(entity, field string, pos diagnostic.Position, err error) *CompileError {
	return &CompileError{Entity: entity, Field: field, Message: err.Error(), Pos: pos, Err: err}
}

// TagFieldCollisionError reports a variant field whose wire name equals the
// union's discriminant key.
type TagFieldCollisionError struct {
	Entity  string
	Variant string
	Tag     string
}

func (e *TagFieldCollisionError) Error() string {
	return fmt.Sprintf("%s: variant %q has a field named %q, which collides with the discriminant", e.Entity, e.Variant, e.Tag)
}

// Code returns the stable error code.
func (e *TagFieldCollisionError) Code() string { return ErrTagFieldCollision }

// ConstraintError reports a malformed or misapplied field constraint.
type ConstraintError struct {
	Directive string
	Message   string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Directive, e.Message)
}

// Code returns the stable error code.
func (e *ConstraintError) Code() string { return ErrInvalidConstraint }
