// Package validation carries input-shape errors across the domain boundary.
package validation

import (
	"errors"
	"strings"
)

var ErrInvalid = errors.New("invalid input")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects every failing field of one input. It unwraps to ErrInvalid.
type Error struct {
	Fields []FieldError
}

func (e *Error) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns nil when nothing was added, so callers can `return v.Err()`.
func (e *Error) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return ErrInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Single is a shortcut for a one-field error.
func Single(field, message string) error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}
