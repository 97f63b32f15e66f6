package models

import (
	"errors"
	"fmt"
)

// RecoverableError is implemented by enriched errors that carry a stable code
// and a remediation hint. Both the commands and output packages use this
// interface so neither needs to know the concrete error types.
type RecoverableError interface {
	error
	ErrorCode() string
	SuggestedAction() string
}

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("task not found")
	ErrStorage    = errors.New("storage error")
)

// ValidationError is returned when caller-supplied input fails a precondition.
// No mutation happens when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
func (e *ValidationError) ErrorCode() string { return "VALIDATION" }
func (e *ValidationError) SuggestedAction() string {
	return fmt.Sprintf("fix --%s and retry", e.Field)
}
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is returned when an id does not resolve to a visible row.
// A soft-deleted task and a never-created id produce the same error.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %d", e.ID)
}
func (e *NotFoundError) ErrorCode() string { return "NOT_FOUND" }
func (e *NotFoundError) SuggestedAction() string {
	return "run `tick get` to list active task ids"
}
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StorageError wraps a failure of the underlying store that is unrelated to
// input validity (I/O, corruption, missing schema).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}
func (e *StorageError) Unwrap() error      { return e.Err }
func (e *StorageError) ErrorCode() string { return "STORAGE" }
func (e *StorageError) SuggestedAction() string {
	return "check the database file with `tick db status`"
}
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
