package activity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// InvalidInputError reports a value that is present but is not a time point
// at all, as opposed to one that is simply absent.
type InvalidInputError struct {
	Raw string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid time point %q", e.Raw)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
