package domain

import "errors"

// ValidationError reports input rejected by a domain rule.
// Message is written for end users and is returned to API callers verbatim.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AsValidationError reports whether err carries a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ErrNotAllowed is returned when the caller does not own the resource it acts on.
var ErrNotAllowed = errors.New("not allowed")
