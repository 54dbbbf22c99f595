package bepinex

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a parse failure.
type ErrorKind string

const (
	// KindStructural means the line layout is invalid, e.g. an entry before any section.
	KindStructural ErrorKind = "structural"
	// KindCoercion means a value could not be read as its setting type.
	KindCoercion ErrorKind = "coercion"
)

// ErrNoSection is wrapped by the error returned for an entry line that
// appears before the first section header.
var ErrNoSection = errors.New("entry has no section")

// ParseError reports the line a parse failed on.
type ParseError struct {
	Line int
	Kind ErrorKind
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap allows errors.Is/As to reach the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
