package portfolio

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound indicates the targeted record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a request was rejected before any write
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFileNotFound indicates a file reference points at a blob that no
	// longer exists. Read paths treat it as absence.
	ErrFileNotFound = errors.New("file not found")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

// OperationError represents a failed repository operation on one record
type OperationError struct {
	Entity string
	ID     string
	Op     string
	Err    error
}

func (e *OperationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s operation %s failed: %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("%s operation %s failed for %s: %v", e.Entity, e.Op, e.ID, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
