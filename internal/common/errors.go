package common

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so transport code can pick a status
// without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidReference
	KindInvalidArgument
	KindForbidden
	KindUnauthorized
	KindUnavailable
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return E(KindNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return E(KindConflict, format, args...)
}

func InvalidReference(format string, args ...any) *Error {
	return E(KindInvalidReference, format, args...)
}

func InvalidArgument(format string, args ...any) *Error {
	return E(KindInvalidArgument, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return E(KindForbidden, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return E(KindUnauthorized, format, args...)
}

func Unavailable(format string, args ...any) *Error {
	return E(KindUnavailable, format, args...)
}

// KindOf returns the kind of err, or KindUnknown for errors that did not
// originate in the domain layer.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsDomain reports whether err carries a taxonomy kind. Domain errors are
// never retried by the storage layer.
func IsDomain(err error) bool { return KindOf(err) != KindUnknown }
