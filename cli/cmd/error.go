package cmd

import (
	"log/slog"
	"slices"
	"strconv"
)

// Error is a command failure. Besides its message and optional cause, it
// names the script or configuration file involved and carries attributes
// for structured logging.
//
// The package-level sentinels are never modified; [Error.File], [Error.With]
// and [Error.Wrap] derive new values that still match their sentinel under
// [errors.Is].
type Error struct {
	msg   string
	file  string
	err   error
	attrs []slog.Attr
}

// NewError returns a sentinel Error with message msg.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error formats as `<msg> "<file>": <cause>`, omitting the parts not set.
func (e *Error) Error() string {
	s := e.msg

	if e.file != "" {
		s += " " + strconv.Quote(e.file)
	}

	switch {
	case e.err == nil:
		return s
	case s == "":
		return e.err.Error()
	}

	return s + ": " + e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.file == "" && t.msg == e.msg
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.file != "" {
		attrs = append(attrs, slog.String("file", e.file))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// File returns a copy of e naming the file involved.
func (e *Error) File(name string) *Error {
	c := *e
	c.file = name

	return &c
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = slices.Concat(e.attrs, attrs)

	return &c
}

// Sentinel errors.
var (
	ErrJSONMarshal    = NewError("marshal JSON")
	ErrYAMLMarshal    = NewError("marshal YAML")
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
	ErrOpenSource     = NewError("open source file")
	ErrSourceNotFound = NewError("source file not found in search path")
	ErrDefine         = NewError("invalid definition")
	ErrRun            = NewError("run script")
)
