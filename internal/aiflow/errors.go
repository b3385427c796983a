package aiflow

import "errors"

var (
	// ErrInvalidInput is matched by every input validation error.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidOutput is returned when the model reply does not match the
	// output schema.
	ErrInvalidOutput = errors.New("invalid model output")
	// ErrUnavailable is returned when the generator fails.
	ErrUnavailable = errors.New("AI service unavailable")
)

// InputError is a user-facing validation error. It matches ErrInvalidInput.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Is implements errors.Is.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func missing(field, message string) error {
	return &InputError{Field: field, Message: message}
}
