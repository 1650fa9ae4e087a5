package network

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph construction preconditions.
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptyEdgeList = errors.New("edge list is empty")
	ErrNoPersons     = errors.New("no person nodes")
	ErrNoServices    = errors.New("no service nodes")
)

// SchemaError reports a violated construction precondition with enough
// context to locate the failing stage. It is fatal to the stage that raises
// it and is never retried.
type SchemaError struct {
	Stage string // stage that failed ("edge list", "bipartite build")
	Field string // offending column, when applicable
	Cause error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %v", e.Stage, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's cause.
func (e *SchemaError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

func schemaErr(stage, field string, cause error) *SchemaError {
	return &SchemaError{Stage: stage, Field: field, Cause: cause}
}
