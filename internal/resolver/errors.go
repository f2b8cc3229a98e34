package resolver

import "fmt"

// NestedOptionalError reports Option<Option<T>>.
type NestedOptionalError struct {
	Expr string
}

func (e *NestedOptionalError) Error() string {
	return fmt.Sprintf("nested optional type %s", e.Expr)
}

// Code returns the stable error code.
func (e *NestedOptionalError) Code() string { return "E101" }

// UnsupportedMapKeyError reports an associative type whose key is not text.
type UnsupportedMapKeyError struct {
	Expr    string
	KeyType string
}

func (e *UnsupportedMapKeyError) Error() string {
	return fmt.Sprintf("unsupported map key type %s in %s: keys must be strings", e.KeyType, e.Expr)
}

// Code returns the stable error code.
func (e *UnsupportedMapKeyError) Code() string { return "E102" }

// UnsupportedTypeError reports a shape outside the type vocabulary.
type UnsupportedTypeError struct {
	Expr   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s: %s", e.Expr, e.Reason)
}

// Code returns the stable error code.
func (e *UnsupportedTypeError) Code() string { return "E106" }

// TypeSyntaxError reports malformed type expression text.
type TypeSyntaxError struct {
	Expr    string
	Offset  int
	Message string
}

func (e *TypeSyntaxError) Error() string {
	return fmt.Sprintf("invalid type expression %q at offset %d: %s", e.Expr, e.Offset, e.Message)
}

// Code returns the stable error code.
func (e *TypeSyntaxError) Code() string { return "E107" }
