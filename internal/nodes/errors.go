package nodes

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput indicates a required slot without a default was not wired.
	ErrMissingInput = errors.New("nodes: required input not connected")

	// ErrInputType indicates a value of the wrong type for its slot.
	ErrInputType = errors.New("nodes: input has wrong type")

	// ErrParameterBounds indicates a value outside the slot's valid range.
	ErrParameterBounds = errors.New("nodes: parameter out of valid bounds")

	// ErrForeignShape indicates a shape that belongs to a different space.
	ErrForeignShape = errors.New("nodes: shape belongs to another space")

	// ErrUnknownNode indicates a registry lookup for an unregistered name.
	ErrUnknownNode = errors.New("nodes: unknown node")
)

// InputError wraps an input failure with the node and slot it concerns.
type InputError struct {
	Node    string
	Slot    string
	Wrapped error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Node, e.Slot, e.Wrapped)
}

func (e *InputError) Unwrap() error {
	return e.Wrapped
}
