package model

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched by every parameter validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError names the offending field.
type InvalidParameterError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %v)", ErrInvalidParameter, e.Field, e.Reason, e.Value)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func invalid(field string, value any, reason string) error {
	return &InvalidParameterError{Field: field, Value: value, Reason: reason}
}
