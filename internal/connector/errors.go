package connector

import (
	"errors"
	"fmt"
)

// Code is the numeric classification attached to every error the connector
// returns and to every failure it logs.
type Code int

const (
	CodeInvalidArguments  Code = -1001
	CodeFailure           Code = -1002
	CodeNotStored         Code = -1003
	CodeNotFound          Code = -1004
	CodeConnectionFailure Code = -1005
	CodeAuthFailure       Code = -1006
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArguments:
		return "invalid_arguments"
	case CodeFailure:
		return "failure"
	case CodeNotStored:
		return "not_stored"
	case CodeNotFound:
		return "not_found"
	case CodeConnectionFailure:
		return "connection_failure"
	case CodeAuthFailure:
		return "auth_failure"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// codedError is a sentinel carrying its Code.
type codedError struct {
	code Code
	msg  string
}

func (e *codedError) Error() string { return e.msg }

var (
	// ErrInvalidArguments is returned when a command is called with empty or
	// malformed input. The backend is not contacted.
	ErrInvalidArguments error = &codedError{CodeInvalidArguments, "redisproxy: invalid arguments"}

	// ErrFailure is returned when the backend call itself failed: the server
	// is down, overloaded or replied with an error.
	ErrFailure error = &codedError{CodeFailure, "redisproxy: redis is down or overload"}

	// ErrNotFound is the soft-miss sentinel: the backend answered without
	// error but holds no value. It is a valid outcome, not a failure.
	ErrNotFound error = &codedError{CodeNotFound, "redisproxy: not found"}

	// ErrNotStored is returned when a conditional write (NX/XX) did not apply.
	ErrNotStored error = &codedError{CodeNotStored, "redisproxy: not stored"}

	// ErrConnectionFailure reports that a link to the endpoint could not be opened.
	ErrConnectionFailure error = &codedError{CodeConnectionFailure, "redisproxy: connection failure"}

	// ErrAuthFailure reports that the endpoint rejected the configured password.
	ErrAuthFailure error = &codedError{CodeAuthFailure, "redisproxy: authentication failure"}

	// ErrClosed is returned by commands issued after Close.
	ErrClosed = fmt.Errorf("%w: connector closed", ErrFailure)
)

// CodeOf returns the Code carried by err, or CodeFailure for foreign errors.
// A nil error has no code and yields zero.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}

	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}

	return CodeFailure
}

// StartupError is returned by New when the endpoint cannot be reached or
// rejects authentication. Nothing can be served without the backend, so the
// embedding application is expected to stop.
type StartupError struct {
	Op   string // "connect" or "auth"
	Host string
	Port int
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("redisproxy: %s to %s:%d failed (errno %d): %v", e.Op, e.Host, e.Port, e.Code(), e.Err)
}

// Code reports the classification of the startup failure.
func (e *StartupError) Code() Code {
	if e.Op == opAuth {
		return CodeAuthFailure
	}

	return CodeConnectionFailure
}

// Unwrap exposes both the classification sentinel and the backend error.
func (e *StartupError) Unwrap() []error {
	if e.Op == opAuth {
		return []error{ErrAuthFailure, e.Err}
	}

	return []error{ErrConnectionFailure, e.Err}
}
