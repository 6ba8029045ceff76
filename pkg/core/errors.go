package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures at the operation boundary.
type ErrorKind string

// Error kinds.
const (
	KindConnection        ErrorKind = "connection"
	KindQuery             ErrorKind = "query"
	KindSchema            ErrorKind = "schema"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindIO                ErrorKind = "io"
	KindProjection        ErrorKind = "projection"
	KindNotConnected      ErrorKind = "not_connected"
	KindInvalid           ErrorKind = "invalid"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrConnection        = &Error{Kind: KindConnection}
	ErrQuery             = &Error{Kind: KindQuery}
	ErrSchema            = &Error{Kind: KindSchema}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrIO                = &Error{Kind: KindIO}
	ErrProjection        = &Error{Kind: KindProjection}
	ErrNotConnected      = &Error{Kind: KindNotConnected, Err: errors.New("not connected")}
	ErrInvalid           = &Error{Kind: KindInvalid}
)

// Error is the error type returned by every adapter operation.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

// Error renders "<op> failed: <cause>".
func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return string(e.Kind)
	case e.Op == "":
		return e.Err.Error()
	case e.Err == nil:
		return fmt.Sprintf("%s failed", e.Op)
	default:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Errorf wraps a cause built from format and args.
func Errorf(op string, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches op and kind to err. A nil err yields nil.
// An err that is already an *Error keeps its kind and gains the new op.
func Wrap(op string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return &Error{Op: op, Kind: ce.Kind, Err: err}
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf reports the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
