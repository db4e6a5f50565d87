package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by this package matches exactly one of these with
// [errors.Is]. Some sentinels are refinements of another and match their
// parent as well: [ErrIncomplete] is also an [ErrSyntax], and
// [ErrNotCallable] is also an [ErrType].
var (
	ErrLex                   = NewError("unexpected character")
	ErrSyntax                = NewError("syntax error")
	ErrIncomplete            = ErrSyntax.kindOf("unexpected end of input")
	ErrNameNotFound          = NewError("name is not defined")
	ErrType                  = NewError("type error")
	ErrNotCallable           = ErrType.kindOf("value is not callable")
	ErrDivisionByZero        = NewError("division by zero")
	ErrReturnOutsideFunction = NewError("return outside function")
	ErrMaxDepthExceeded      = NewError("maximum call depth exceeded")
	ErrInterrupted           = NewError("evaluation interrupted")
	ErrReadInput             = NewError("failed to read input")
	ErrInvalidNode           = NewError("invalid syntax tree node")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind   *Error      // Sentinel this error was derived from (nil for sentinels)
	parent *Error      // Broader sentinel also matched by errors.Is
	err    error       // Wrapped error (for errors.Unwrap)
	msg    string
	attrs  []slog.Attr // Attributes for structured logging
	pos    Position    // Source position, when known
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// kindOf creates a sentinel that refines e.
func (e *Error) kindOf(msg string) *Error {
	return &Error{msg: msg, parent: e.sentinel()}
}

// sentinel returns the sentinel e derives from, or e itself.
func (e *Error) sentinel() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	//
	// Each is prefixed with "<line>:<column>: " when a position is known.
	part := make([]string, 0, 2)

	if e.pos.IsValid() {
		part = append(part, fmt.Sprintf("%d:%d", e.pos.Line, e.pos.Column))
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

// Is reports whether target is the sentinel e was derived from, or a
// sentinel that one refines.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for k := e.sentinel(); k != nil; k = k.parent {
		if k == t {
			return true
		}
	}

	return false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error of the same kind wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.sentinel(),
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		pos:   e.pos,
	}
}

// Errorf is shorthand for wrapping a formatted cause.
func (e *Error) Errorf(format string, args ...any) *Error {
	//nolint:err113
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.sentinel(),
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		pos:   e.pos,
	}
}

// At records a source position on the error. The position of an error that
// already has one is kept.
func (e *Error) At(pos Position) *Error {
	if !pos.IsValid() || e.pos.IsValid() {
		return e
	}

	ee := e.With(slog.Int("line", pos.Line), slog.Int("column", pos.Column))
	ee.pos = pos

	return ee
}

// Position returns the source position recorded with [Error.At].
func (e *Error) Position() Position { return e.pos }

// LexError reports a character that matches no token pattern.
type LexError struct {
	Char   rune
	Line   int
	Column int
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf(
		"%s %q on line %d, column %d",
		ErrLex.msg, e.Char, e.Line, e.Column,
	)
}

// Is matches [ErrLex].
func (e *LexError) Is(target error) bool { return ErrLex.Is(target) }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLex.msg),
		slog.String("char", string(e.Char)),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
	)
}

// SyntaxError reports a grammar violation at the token Found.
//
// Incomplete is set when nothing but line ends, dedents and the end of input
// follow the failure point, i.e. the source is a valid prefix that ran out.
type SyntaxError struct {
	Msg        string // Overrides the expected/found description when set
	Expected   string
	Found      Token
	Incomplete bool
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrSyntax.msg)
	fmt.Fprintf(&sb, " at %d:%d: ", e.Found.Line, e.Found.Column)

	if e.Msg != "" {
		sb.WriteString(e.Msg)

		return sb.String()
	}

	if e.Expected != "" {
		sb.WriteString("expected ")
		sb.WriteString(e.Expected)
		sb.WriteString(" but got ")
	} else {
		sb.WriteString("unexpected token ")
	}

	sb.WriteString(e.Found.String())

	return sb.String()
}

// Is matches [ErrSyntax], and [ErrIncomplete] when the input ran out.
func (e *SyntaxError) Is(target error) bool {
	if e.Incomplete && ErrIncomplete.Is(target) {
		return true
	}

	return ErrSyntax.Is(target)
}

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrSyntax.msg),
		slog.String("found", e.Found.Kind.String()),
		slog.Int("line", e.Found.Line),
		slog.Int("column", e.Found.Column),
		slog.Bool("incomplete", e.Incomplete),
	}

	if e.Expected != "" {
		attrs = append(attrs, slog.String("expected", e.Expected))
	}

	if e.Msg != "" {
		attrs = append(attrs, slog.String("detail", e.Msg))
	}

	return slog.GroupValue(attrs...)
}

// IsIncomplete reports whether err means the source ended while a construct
// was still open. Interactive hosts keep reading input when it does.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}
