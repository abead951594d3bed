package models

import "fmt"

// Form field names used in validation errors
const (
	FieldReferenceImage = "reference_image"
	FieldMaskImage      = "mask_image"
	FieldInstruction    = "instruction"
)

// ValidationError is raised before any call is made: missing reference image,
// blank instruction, or a mask supplied in direct-edit mode.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for a form field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// EncodingError is raised when an uploaded file cannot be turned into an ImagePayload
type EncodingError struct {
	Source string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %q: %v", e.Source, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// TransportErrorMessage is the caller-facing text for a failed generation call
const TransportErrorMessage = "Failed to communicate with the image generation service"

// GenerationTransportError wraps any failure of the external generation call:
// network, authentication or malformed response.
type GenerationTransportError struct {
	Provider string
	Err      error
}

func (e *GenerationTransportError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %v", TransportErrorMessage, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", TransportErrorMessage, e.Provider, e.Err)
}

func (e *GenerationTransportError) Unwrap() error {
	return e.Err
}
