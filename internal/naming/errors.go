package naming

import "fmt"

// DuplicateWireNameError reports two names of one entity resolving to the
// same wire name.
type DuplicateWireNameError struct {
	Entity   string
	First    string
	Second   string
	WireName string
}

func (e *DuplicateWireNameError) Error() string {
	return fmt.Sprintf("%s: %q and %q both resolve to wire name %q", e.Entity, e.First, e.Second, e.WireName)
}

// Code returns the stable error code.
func (e *DuplicateWireNameError) Code() string { return "E103" }

// UnknownCasingError reports an unsupported rename_all value.
type UnknownCasingError struct {
	Policy string
}

func (e *UnknownCasingError) Error() string {
	return fmt.Sprintf("unsupported casing policy %q", e.Policy)
}

// Code returns the stable error code.
func (e *UnknownCasingError) Code() string { return "E105" }
