package engineering

import (
	"errors"
	"fmt"
)

// Sentinel errors for the orchestrator's recoverable failure modes.
// Match with errors.Is; every *Error wraps exactly one of these.
var (
	ErrNoProject       = errors.New("no engineering project")
	ErrUnknownStep     = errors.New("unknown scoping step")
	ErrInvalidRole     = errors.New("invalid agent role")
	ErrPrecondition    = errors.New("precondition failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("concurrent modification")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error is a user-facing orchestrator error: a kind, a message, and
// optionally the command that resolves it.
type Error struct {
	Kind    error
	Message string
	Remedy  string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message, remedy string) *Error {
	return &Error{Kind: kind, Message: message, Remedy: remedy}
}

// NoProject returns the error used when a command needs a project but none exists.
func NoProject(key string) *Error {
	return newError(ErrNoProject,
		fmt.Sprintf("no project for %q", key),
		"use `engineering_start` to create one")
}

// Conflict returns the error stores use when a save loses a version race.
func Conflict(key string, have, want int64) *Error {
	return newError(ErrConflict,
		fmt.Sprintf("project %q was modified concurrently (version %d, expected %d)", key, have, want),
		"re-run the command")
}

// InvalidArgument returns an ErrInvalidArgument error with the given message.
func InvalidArgument(format string, args ...any) *Error {
	return newError(ErrInvalidArgument, fmt.Sprintf(format, args...), "")
}

// RemedyOf returns the suggested remedial command carried by err, if any.
func RemedyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Remedy
	}
	return ""
}

// IsUserError reports whether err is one of the recoverable orchestrator
// errors (as opposed to an infrastructure failure).
func IsUserError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
