// Package errs defines the error taxonomy shared by the query and conversion packages.
//
// Every failure surfaces synchronously as an *Error carrying a Code. Callers
// match categories with errors.Is against the exported sentinels:
//
//	if errors.Is(err, errs.ErrNilArgument) {
//	    // a required argument was missing
//	}
package errs

import (
	"errors"
	"fmt"
)

// Code categorizes errors.
type Code string

const (
	// CodeNilArgument indicates a required argument was nil or empty.
	CodeNilArgument Code = "NIL_ARGUMENT"

	// CodeUnsatisfiableConversion indicates no reader could produce the requested type.
	CodeUnsatisfiableConversion Code = "UNSATISFIABLE_CONVERSION"

	// CodeMalformedSecret indicates a string did not match the ENC(...) marker.
	CodeMalformedSecret Code = "MALFORMED_SECRET"

	// CodeStructural indicates a condition operand had the wrong shape or arity.
	CodeStructural Code = "STRUCTURAL"
)

// Sentinels for errors.Is matching. They carry only a Code.
var (
	ErrNilArgument             = &Error{Code: CodeNilArgument}
	ErrUnsatisfiableConversion = &Error{Code: CodeUnsatisfiableConversion}
	ErrMalformedSecret         = &Error{Code: CodeMalformedSecret}
	ErrStructural              = &Error{Code: CodeStructural}
)

// Error is the concrete error type returned by this module.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Argument names the offending argument, when there is one.
	Argument string

	// Err is the underlying cause (optional).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same category.
// A target with a Message only matches itself.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message != "" || t.Argument != "" {
		return e == t
	}
	return e.Code == t.Code
}

// NilArgument reports a missing required argument.
func NilArgument(name string) error {
	return &Error{
		Code:     CodeNilArgument,
		Message:  name + " is required",
		Argument: name,
	}
}

// Structural reports an operand of the wrong shape or arity.
func Structural(argument, format string, args ...any) error {
	return &Error{
		Code:     CodeStructural,
		Message:  fmt.Sprintf(format, args...),
		Argument: argument,
	}
}

// Unsatisfiable reports a conversion that no reader could perform.
// requested and actual describe the target type and the raw value's shape.
func Unsatisfiable(requested, actual string, cause error) error {
	return &Error{
		Code:    CodeUnsatisfiableConversion,
		Message: fmt.Sprintf("cannot convert %s to %s", actual, requested),
		Err:     cause,
	}
}

// MalformedSecret reports a string that is not a valid secret marker.
func MalformedSecret(raw string) error {
	return &Error{
		Code:    CodeMalformedSecret,
		Message: fmt.Sprintf("%q is not a secret marker", raw),
	}
}

// CodeOf returns the Code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
