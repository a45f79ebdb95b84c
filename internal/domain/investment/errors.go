package investment

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when the inputs make a financial figure meaningless.
var ErrInvalidInput = errors.New("invalid investment input")

// InputError names the offending input. It unwraps to ErrInvalidInput.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
