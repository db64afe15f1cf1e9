package cmd

import (
	"log/slog"
	"strings"
)

// Error represents a CLI command error with structured logging support.
type Error struct {
	msg   string
	kind  *Error
	err   error
	attrs []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && (e == t || e.kind == t)
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) derive() *Error {
	kind := e.kind
	if kind == nil {
		kind = e
	}

	return &Error{msg: e.msg, kind: kind, err: e.err, attrs: e.attrs}
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = append(append(make([]slog.Attr, 0, len(e.attrs)+len(attrs)), e.attrs...), attrs...)

	return d
}

var (
	ErrNoInput     = NewError("no input file")
	ErrOpenInput   = NewError("open input file")
	ErrBinding     = NewError("invalid parameter binding")
	ErrWatchStdin  = NewError("standard input cannot be watched")
	ErrEncodeGraph = NewError("encode dependency graph")
)
