package history

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedPage is returned when a snapshot matches neither board format.
var ErrUnrecognizedPage = errors.New("unrecognized board page")

// ParseError reports a snapshot whose open role count cannot be determined.
type ParseError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Format != "" {
		msg += " (" + e.Format + ")"
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
