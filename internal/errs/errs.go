// Package errs defines the error kinds returned across the frontend boundary.
// Callers branch on kinds with errors.Is against the sentinels or with KindOf.
package errs

import (
	"errors"

	"dbfrontend/internal/redact"
)

// Kind classifies an error.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindConnectionFailed
	KindDatabase
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input provided"
	case KindNotFound:
		return "record not found"
	case KindConnectionFailed:
		return "database connection failed"
	case KindDatabase:
		return "database operation failed"
	case KindTimeout:
		return "operation timeout"
	default:
		return "unknown error"
	}
}

// Error is a kind plus an already sanitized message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is the bare sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

var (
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConnectionFailed = &Error{Kind: KindConnectionFailed}
	ErrDatabase         = &Error{Kind: KindDatabase}
	ErrTimeout          = &Error{Kind: KindTimeout}
)

// New returns an error of the given kind with a fixed message.
// msg must not contain caller secrets; it is not redacted.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap returns an error of the given kind whose message is op followed by the
// redacted text of err. err itself is not retained.
func Wrap(kind Kind, op string, err error) error {
	msg := op
	if err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += redact.String(err.Error())
	}
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
