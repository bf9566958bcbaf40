package datetime

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnavailable is returned for timestamps of values outside the valid timestamp window.
	ErrUnavailable = errors.New("timestamp unavailable")

	// ErrInvalidArgument is returned for arguments that cannot be converted to a string.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ParseError reports input that does not match a layout.
type ParseError struct {
	// Pos is the byte offset in the input where matching failed.
	Pos int
	// Expected names the kind of token that was expected, e.g. "A two digit day".
	Expected string
	// Reason describes failures not tied to a single token, e.g. "Trailing data".
	Reason string
	// Near is up to ten bytes of the input (or layout) following the failure.
	Near string

	bare bool
}

func (e *ParseError) Error() string {
	what := e.Reason
	if e.Expected != "" {
		what = e.Expected + " could not be found"
	}
	if e.bare {
		return what
	}
	return fmt.Sprintf("%s near \"... %s ...\"", what, e.Near)
}

// ParameterCountError reports a call with the wrong number of arguments.
type ParameterCountError struct {
	Method string
	// Want describes the accepted counts, e.g. "exactly 3".
	Want string
	Got  int
}

func (e *ParameterCountError) Error() string {
	noun := "parameters"
	if e.Want == "exactly 1" || e.Want == "at least 1" || e.Want == "at most 1" {
		noun = "parameter"
	}
	return fmt.Sprintf("%s() expects %s %s, %d given", e.Method, e.Want, noun, e.Got)
}

// TypeMismatchError reports an argument of the wrong kind.
type TypeMismatchError struct {
	Method string
	// Param is the 1-based position of the argument.
	Param int
	Want  string
	Got   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s() expects parameter %d to be %s, %s given", e.Method, e.Param, e.Want, e.Got)
}

// UnknownTimezoneError reports a time zone name that could not be resolved.
type UnknownTimezoneError struct {
	Name string
}

func (e *UnknownTimezoneError) Error() string {
	return fmt.Sprintf("unknown or bad timezone (%s)", e.Name)
}

// snippet returns up to ten bytes of s starting at pos.
func snippet(s string, pos int) string {
	if pos >= len(s) {
		return ""
	}
	end := pos + 10
	if end > len(s) {
		end = len(s)
	}
	return s[pos:end]
}
