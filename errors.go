package datastage

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFilename indicates that no filename was supplied to Load
	ErrEmptyFilename = errors.New("datastage: empty filename")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("datastage: unsupported file format")

	// ErrInvalidIdentifier indicates an invalid SQL identifier
	ErrInvalidIdentifier = errors.New("datastage: invalid SQL identifier")
)

// InputResolutionError is returned by Load when the resolved input file
// cannot be read. It indicates the supplied filename itself was unusable;
// the caller should retry with a different one.
type InputResolutionError struct {
	// Filename is the filename as supplied by the caller
	Filename string
	// Err is the underlying cause
	Err error
}

// Error implements the error interface
func (e *InputResolutionError) Error() string {
	return fmt.Sprintf("datastage: resolve input %q: %v", e.Filename, e.Err)
}

// Unwrap returns the underlying cause
func (e *InputResolutionError) Unwrap() error {
	return e.Err
}

// ExecutionError describes a failed SQL execution. Query absorbs these into
// the result text instead of returning them; the typed value is kept on
// QueryResult so callers can still branch on failure programmatically.
type ExecutionError struct {
	// Query is the SQL text that failed
	Query string
	// Err is the engine error
	Err error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("datastage: execute query: %v", e.Err)
}

// Unwrap returns the engine error
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// FilesystemError describes a failed filesystem operation against the store
// file. Cleanup absorbs these into the result text instead of returning
// them.
type FilesystemError struct {
	// Op is the operation that failed (e.g. "remove")
	Op string
	// Path is the store path involved
	Path string
	// Err is the underlying cause
	Err error
}

// Error implements the error interface
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("datastage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause
func (e *FilesystemError) Unwrap() error {
	return e.Err
}
