package core

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrInvalidConfig indicates that the provided valve configuration is
	// out of bounds.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoStore indicates that the filter was built without a store.
	ErrNoStore = errors.New("memory store is required")

	// ErrNoUser indicates that no valid user was supplied for the turn.
	ErrNoUser = errors.New("user id is required")

	// ErrStorageOperation indicates that a storage operation failed.
	ErrStorageOperation = errors.New("storage operation failed")
)

// PipelineError wraps errors with operation context.
//
// Example:
//
//	err := &PipelineError{Op: "ProcessOutlet", Err: ErrNoUser}
//	// Error() returns: "automem: ProcessOutlet: user id is required"
type PipelineError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "automem: <Op>: <Err>"
func (e *PipelineError) Error() string {
	return fmt.Sprintf("automem: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
//
// This allows using errors.Is() and errors.As() with PipelineError.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewPipelineError("ProcessInlet", err)
//	}
func NewPipelineError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PipelineError{Op: op, Err: err}
}
