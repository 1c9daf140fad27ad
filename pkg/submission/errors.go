// Package submission provides standardized error types for the submit and
// flush operations.
package submission

import (
	"errors"
	"fmt"
)

// Submit-time errors. These are synchronous rejections: nothing has been
// persisted when they are returned, so the UI owns presenting them.
var (
	// ErrInvalidSubmission indicates required text content was blank.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrBlankContent indicates neither notes nor structured exercise data
	// was provided.
	ErrBlankContent = errors.New("workout notes or exercises required")

	// ErrImageUpload indicates the attached image could not be resolved to a
	// durable URL. The whole submit is aborted and the draft left as-is.
	ErrImageUpload = errors.New("image upload failed")
)

// ServiceError wraps submit-time errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a validation rejection with context.
func NewValidationError(op, code, message string) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     ErrInvalidSubmission,
	}
}

// NewImageUploadError wraps an upload collaborator failure.
func NewImageUploadError(op string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    "IMAGE_UPLOAD_FAILED",
		Message: "could not upload attached image",
		Err:     fmt.Errorf("%w: %w", ErrImageUpload, err),
	}
}

// IsValidationError checks if an error is a blank-input rejection.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidSubmission)
}

// IsImageUploadError checks if an error is an attachment upload failure.
func IsImageUploadError(err error) bool {
	return errors.Is(err, ErrImageUpload)
}
