package models

// ValidationError reports malformed or invariant-violating input. Its
// message is safe to return to API clients verbatim.
type ValidationError struct {
	message string
}

func NewValidationError(message string) ValidationError {
	return ValidationError{message: message}
}

func (e ValidationError) Error() string {
	return e.message
}
