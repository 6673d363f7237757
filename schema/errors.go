package schema

import "fmt"

// ValidationError reports a structured value that failed its schema
// check. It is fatal to the turn that produced it; values are rejected
// eagerly rather than coerced.
type ValidationError struct {
	// Field is the name of the offending field, e.g. "person.name".
	Field string
	// Reason describes why the value was rejected.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
