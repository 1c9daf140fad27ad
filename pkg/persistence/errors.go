package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrCorruptRecord indicates a stored record could not be decoded. The
	// record is treated as absent and implementations wipe the corrupt key.
	ErrCorruptRecord = errors.New("corrupt stored record")

	// ErrStoreUnavailable indicates the underlying storage cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// StoreError wraps storage failures with the operation and record key.
type StoreError struct {
	Op  string // Operation being performed (e.g., "Load", "Put", "Clear")
	Key string // Record key ("draft", "outbox", "placeholder")
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s operation failed for record %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for store errors.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoreError creates a new store error with context.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// IsCorruptRecord checks if an error indicates a corrupt stored record.
func IsCorruptRecord(err error) bool {
	return errors.Is(err, ErrCorruptRecord)
}

// IsStoreUnavailable checks if an error indicates unreachable storage.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
