package search

import "errors"

var (
	// ErrPrecondition is returned (or panicked with) when an operation is called
	// in a state where it is not allowed, e.g. Add after enumeration started.
	// It signals a programming error, not a runtime condition.
	ErrPrecondition = errors.New("precondition violated")

	// ErrUnsupported is returned by operations a component never supports.
	ErrUnsupported = errors.New("operation not supported")
)
