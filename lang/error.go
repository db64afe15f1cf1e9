package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by this package derives from exactly one of these and
// can be tested with errors.Is.
var (
	ErrSyntax           = NewError("syntax error")
	ErrDeclaration      = NewError("declaration error")
	ErrAvailability     = NewError("availability error")
	ErrResolution       = NewError("resolution error")
	ErrParameterBinding = NewError("parameter binding error")
	ErrCyclicReference  = NewError("cyclic reference")
	ErrReadInput        = NewError("failed to read input")
	ErrWriteOutput      = NewError("failed to write output")
)

// Position identifies a physical line of a source file.
// Line numbers start at 1; a zero Line refers to the file as a whole.
type Position struct {
	File string
	Line int
}

// IsZero reports whether p carries no location.
func (p Position) IsZero() bool { return p.File == "" && p.Line == 0 }

// String returns "file:line", "file", or "" depending on which fields are set.
func (p Position) String() string {
	switch {
	case p.File == "" && p.Line == 0:
		return ""
	case p.Line == 0:
		return p.File
	default:
		return p.File + ":" + strconv.Itoa(p.Line)
	}
}

func (p Position) attrs() []slog.Attr {
	if p.IsZero() {
		return nil
	}

	return []slog.Attr{slog.String("file", p.File), slog.Int("line", p.Line)}
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	kind  *Error // sentinel this error was derived from; nil for sentinels
	err   error  // Wrapped error (for errors.Unwrap)
	pos   Position
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<pos>: <msg>: <err>"
	//   2. "<msg>: <err>"  // no position
	//   3. "<msg>"         // wrapped error is nil
	//   4. "<err>"         // base error message is empty
	part := make([]string, 0, 3)

	if s := e.pos.String(); s != "" {
		part = append(part, s)
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || e.sentinel() == t
}

// Position returns the source location attached to e, if any.
func (e *Error) Position() Position { return e.pos }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	attrs = append(attrs, e.pos.attrs()...)

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) sentinel() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

func (e *Error) derive() *Error {
	return &Error{
		msg:   e.msg,
		kind:  e.sentinel(),
		err:   e.err,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// Errorf creates a new Error wrapping a formatted description.
func (e *Error) Errorf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	d := e.derive()
	d.pos = pos

	return d
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	d := e.derive()
	d.attrs = newAttrs

	return d
}

// locate attaches pos to err if err is an *Error without a position.
func locate(err error, pos Position) error {
	var e *Error
	if errors.As(err, &e) && e.pos.IsZero() {
		return e.WithPosition(pos)
	}

	return err
}

// WarningKind classifies a non-fatal diagnostic.
type WarningKind int

const (
	// WarnUnboundParameter reports a parameter left unbound at invocation
	// whose policy substitutes a default instead of failing.
	WarnUnboundParameter WarningKind = iota
	// WarnTrailingEscape reports a lone escape character at end of line.
	WarnTrailingEscape
	// WarnDuplicateParameter reports an ignored parameter redeclaration.
	WarnDuplicateParameter
	// WarnIgnoredOutput reports an output destination that has no meaning
	// for the file being rendered.
	WarnIgnoredOutput
	// WarnIgnoredBinding reports parameter bindings supplied to a file that
	// declares no parameters.
	WarnIgnoredBinding
)

// String returns the diagnostic name of k.
func (k WarningKind) String() string {
	switch k {
	case WarnUnboundParameter:
		return "UnboundParameterWarning"
	case WarnTrailingEscape:
		return "TrailingEscapeWarning"
	case WarnDuplicateParameter:
		return "DuplicateParameterWarning"
	case WarnIgnoredOutput:
		return "IgnoredOutputWarning"
	case WarnIgnoredBinding:
		return "IgnoredBindingWarning"
	default:
		return "Warning"
	}
}

// Warning is a diagnostic that never aborts a render.
type Warning struct {
	Kind    WarningKind
	Message string
	Pos     Position
	Attrs   []slog.Attr
}

// String formats w as "pos: kind: message".
func (w Warning) String() string {
	var sb strings.Builder

	if s := w.Pos.String(); s != "" {
		sb.WriteString(s)
		sb.WriteString(": ")
	}

	sb.WriteString(w.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(w.Message)

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (w Warning) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(w.Attrs)+4)
	attrs = append(attrs,
		slog.String("kind", w.Kind.String()),
		slog.String("message", w.Message),
	)
	attrs = append(attrs, w.Pos.attrs()...)

	return slog.GroupValue(append(attrs, w.Attrs...)...)
}

// WarnFunc receives warnings raised while rendering.
type WarnFunc func(Warning)
