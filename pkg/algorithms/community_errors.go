package algorithms

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrInvalidGraph reports a graph the optimiser cannot work on, such as
	// an empty graph or a zero-weight graph under modularity.
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrInvalidParameter reports negative objective weights or a malformed
	// initial partition.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// CommunityError provides structured error information for optimiser operations.
type CommunityError struct {
	Op      string // Operation that failed (e.g., "accounting", "coarsen")
	Field   string // Offending option or input, if any
	Level   int    // Dendrogram level, or -1 when not level specific
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *CommunityError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Level >= 0 {
		fmt.Fprintf(&b, " level %d", e.Level)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Context != "" {
		fmt.Fprintf(&b, " %s", e.Context)
	}
	fmt.Fprintf(&b, ": %v", e.Cause)
	return b.String()
}

// Unwrap returns the underlying cause for error chain support.
func (e *CommunityError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *CommunityError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building CommunityErrors.
type ErrorBuilder struct {
	err CommunityError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: CommunityError{Op: op, Level: -1}}
}

// Field sets the offending option or input name.
func (b *ErrorBuilder) Field(name string) *ErrorBuilder {
	b.err.Field = name
	return b
}

// Level sets the dendrogram level.
func (b *ErrorBuilder) Level(level int) *ErrorBuilder {
	b.err.Level = level
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed CommunityError.
func (b *ErrorBuilder) Build() *CommunityError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

func invalidGraph(op, format string, args ...any) error {
	return NewError(op).Context(format, args...).Cause(ErrInvalidGraph).Err()
}

func invalidParameter(op, field, format string, args ...any) error {
	return NewError(op).Field(field).Context(format, args...).Cause(ErrInvalidParameter).Err()
}

// IsInvalidGraph returns true if err was caused by an unusable graph.
func IsInvalidGraph(err error) bool {
	return errors.Is(err, ErrInvalidGraph)
}

// IsInvalidParameter returns true if err was caused by bad parameters.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}
