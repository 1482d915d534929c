// Package dberr defines the fixed error taxonomy shared across the
// database's core packages: every failure surfaced to a caller carries
// one of these kinds rather than being matched on string content.
package dberr

import "github.com/pkg/errors"

type Kind int

const (
	SchemaInvalid Kind = iota
	TableExists
	UnknownTable
	UnknownColumn
	DuplicateKey
	ArityMismatch
	NullPrimaryKey
	PageTooSmall
	Full
	Io
	Corrupt
)

func (k Kind) String() string {
	switch k {
	case SchemaInvalid:
		return "schema invalid"
	case TableExists:
		return "table exists"
	case UnknownTable:
		return "unknown table"
	case UnknownColumn:
		return "unknown column"
	case DuplicateKey:
		return "duplicate key"
	case ArityMismatch:
		return "arity mismatch"
	case NullPrimaryKey:
		return "null primary key"
	case PageTooSmall:
		return "page too small"
	case Full:
		return "full"
	case Io:
		return "io"
	case Corrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every core package. Msg is
// always the text shown to the user; Cause, when present, is the wrapped
// lower-level error (usually an I/O or decode failure).
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an Error around a lower-level cause, annotating it with msg
// via github.com/pkg/errors so a stack trace is recoverable from Cause.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: errors.Wrap(cause, msg)}
}

// Is reports whether err is a *Error of the given kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
