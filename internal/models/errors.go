package models

import "fmt"

// ValidationError indicates a request that failed input validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// NotFoundError indicates a missing resource.
type NotFoundError struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
}

// ConflictError indicates a uniqueness violation (username/email already taken).
type ConflictError struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Resource, e.Field)
}

// AuthError indicates failed authentication or authorization.
type AuthError struct {
	Reason string `json:"reason"`
}

func (e AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// DecodeError indicates image data that could not be decoded.
type DecodeError struct {
	Reason string `json:"reason"`
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("image decode failed: %s", e.Reason)
}

// InvalidParametersError indicates a recognized operation whose parameters
// are present but invalid (out of bounds, non-positive, ...).
type InvalidParametersError struct {
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

func (e InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid parameters for %s: %s", e.Operation, e.Reason)
}

// UnsupportedFormatError indicates an unknown target format name.
type UnsupportedFormatError struct {
	Format string `json:"format"`
}

func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

// UnsupportedFilterError indicates an unknown filter name.
type UnsupportedFilterError struct {
	Filter string `json:"filter"`
}

func (e UnsupportedFilterError) Error() string {
	return fmt.Sprintf("unsupported filter: %s", e.Filter)
}

// UnsupportedOperationError indicates an unknown operation type tag.
// It aborts the whole pipeline.
type UnsupportedOperationError struct {
	Type string `json:"type"`
}

func (e UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Type)
}

// SkippedOperationError marks a pipeline entry that must be skipped rather
// than fail the pipeline: a malformed/typeless entry, or a recognized
// operation missing required parameters.
type SkippedOperationError struct {
	Reason string `json:"reason"`
}

func (e SkippedOperationError) Error() string {
	return fmt.Sprintf("operation skipped: %s", e.Reason)
}

// ProcessingError indicates an internal failure while running codec work.
type ProcessingError struct {
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("processing failed during %s: %s", e.Operation, e.Reason)
}

// StorageError indicates a blob storage failure.
type StorageError struct {
	Operation string `json:"operation"`
	Backend   string `json:"backend"`
	Reason    string `json:"reason"`
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s failed on %s: %s", e.Operation, e.Backend, e.Reason)
}
