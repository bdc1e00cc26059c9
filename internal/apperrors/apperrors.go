// Package apperrors provides typed domain errors so callers can branch on
// error kind instead of matching message strings.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain rule violation.
type Kind int

const (
	// KindInternal is an unexpected failure (storage, encoding, etc.).
	KindInternal Kind = iota
	// KindValidation is malformed input, detected before any mutation.
	KindValidation
	// KindInvalidInviteCode is a join attempt with a non-matching code.
	KindInvalidInviteCode
	// KindAccessDenied is a caller without capability for the session,
	// or a session that does not exist. The two are deliberately merged
	// so responses never reveal which session identifiers are valid.
	KindAccessDenied
	// KindAuthorization is an initiator-only action attempted by a
	// non-initiator of an existing session.
	KindAuthorization
	// KindStateConflict is an action the session lifecycle forbids now,
	// such as ending an already-ended session.
	KindStateConflict
	// KindNotFound is a missing record. Storage-level only; services
	// translate it before it crosses the boundary.
	KindNotFound
)

// String returns a machine-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindInvalidInviteCode:
		return "INVALID_INVITE_CODE"
	case KindAccessDenied:
		return "ACCESS_DENIED"
	case KindAuthorization:
		return "AUTHORIZATION"
	case KindStateConflict:
		return "STATE_CONFLICT"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// Error is a domain error with a kind and a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so sentinel
// comparisons like errors.Is(err, apperrors.E(KindStateConflict, "...")) work
// on kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// E builds a new domain error.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Ef builds a new domain error with a formatted message.
func Ef(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a domain error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// non-domain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
