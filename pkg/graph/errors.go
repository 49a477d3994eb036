package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Graph, ingest, codec and query failures wrap one of these;
// match with errors.Is.
var (
	ErrNotFound        = errors.New("label not found")
	ErrInvalidEdge     = errors.New("invalid edge: self-loop")
	ErrInvalidLabel    = errors.New("invalid label")
	ErrInvalidRelation = errors.New("invalid relation")
	ErrTooManyKeywords = errors.New("too many trend keywords")
	ErrEmptyGraph      = errors.New("graph has too few nodes")
	ErrNoPath          = errors.New("no path between nodes")
	ErrCorruptFile     = errors.New("corrupt graph file")
	ErrFileNotFound    = errors.New("file not found")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op      string // Operation that failed (e.g., "AddEdge", "ShortestPath")
	Entity  string // Entity type (e.g., "node", "edge", "file")
	Label   string // Node label or file path, if applicable
	Context string // Additional context
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Entity != "" {
		b.WriteString(" " + e.Entity)
	}
	if e.Label != "" {
		fmt.Fprintf(&b, " %q", e.Label)
	}
	if e.Context != "" {
		b.WriteString(" (" + e.Context + ")")
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Node sets the entity to "node" with the given label.
func (b *ErrorBuilder) Node(label string) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.Label = label
	return b
}

// Edge sets the entity to "edge".
func (b *ErrorBuilder) Edge() *ErrorBuilder {
	b.err.Entity = "edge"
	return b
}

// File sets the entity to "file" with the given path.
func (b *ErrorBuilder) File(path string) *ErrorBuilder {
	b.err.Entity = "file"
	b.err.Label = path
	return b
}

// Entity sets a free-form entity name.
func (b *ErrorBuilder) Entity(name string) *ErrorBuilder {
	b.err.Entity = name
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

// Build returns the constructed GraphError.
func (b *ErrorBuilder) Build() *GraphError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// NotFoundError creates a label-absent error for op.
func NotFoundError(op, label string) error {
	return NewError(op).Node(label).Cause(ErrNotFound).Err()
}

// CorruptFileError wraps a decode failure for path.
func CorruptFileError(path string, cause error) error {
	return NewError("load").File(path).Cause(fmt.Errorf("%w: %v", ErrCorruptFile, cause)).Err()
}

// IsNotFound returns true if the error is a label-absent error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNoPath returns true if the endpoints exist but are disconnected.
func IsNoPath(err error) bool {
	return errors.Is(err, ErrNoPath)
}
