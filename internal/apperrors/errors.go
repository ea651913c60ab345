// Package apperrors defines the typed errors the services and engines return.
// Handlers inspect the kind with errors.As and map it to an HTTP status:
// NotFound -> 404, InvalidState -> 409, Inconsistency -> 422.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// KindNotFound: a referenced tournament, stage, season, scorecard or
	// player does not exist. Always surfaced to the caller, never retried.
	KindNotFound Kind = iota
	// KindInvalidState: the operation is rejected because the target is in
	// the wrong state (e.g. Frutales scoring on a CLASICO tournament,
	// cancelling a complete scorecard). No partial mutation is performed.
	KindInvalidState
	// KindInconsistency: parallel input lists disagree (size or ownership
	// mismatches). The whole batch is rejected immediately.
	KindInconsistency
)

// Error is a structured application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports a missing resource by name and id.
func NotFound(resource string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}
}

// InvalidState reports an operation rejected because of the target's state.
func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Inconsistency reports mismatched batch input.
func Inconsistency(format string, args ...any) *Error {
	return &Error{Kind: KindInconsistency, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
