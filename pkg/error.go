package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Sentinel errors forming the compiler's error taxonomy.
// Test for them with [errors.Is]; every derived [Error] keeps the identity of
// the sentinel it was created from.
var (
	// ErrSyntax is returned when source text cannot be matched by the block
	// locator, the expression grammar or the selector grammar.
	ErrSyntax = NewError("syntax error")

	// ErrName is returned when a variable, mixin or function is not defined
	// at any applicable arity.
	ErrName = NewError("undefined name")

	// ErrDimension is returned when arithmetic or ordering combines numbers
	// with irreconcilable units.
	ErrDimension = NewError("incompatible units")

	// ErrValue is returned for malformed literals, wrong argument counts and
	// values that cannot be rendered as CSS.
	ErrValue = NewError("invalid value")

	// ErrType is returned when an operator is not defined for its operands.
	ErrType = NewError("type error")

	// ErrImport is returned when an imported source cannot be found or its
	// path is disallowed.
	ErrImport = NewError("import failed")

	// ErrRecursion is returned when nested expansion exceeds the configured
	// depth ceiling.
	ErrRecursion = NewError("recursion limit exceeded")

	// ErrReadInput is returned when reading a source fails.
	ErrReadInput = NewError("failed to read input")

	// ErrWriteOutput is returned when writing compiled output fails.
	ErrWriteOutput = NewError("failed to write output")
)

// Position identifies a location in source text.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number, starting at 1
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	file  string      // Source file of the innermost location
	line  int         // Source line of the innermost location
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
// If err already is (or wraps) an Error, that Error is returned.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<file>:<line>: <msg>: <err>"
	//   2. "<msg>: <err>"  // no location
	//   3. "<msg>"         // wrapped error is nil
	//   4. "<err>"         // base error message is empty
	part := make([]string, 0, 3)

	if loc := e.Location(); loc != "" {
		part = append(part, loc)
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

// Is reports whether target is the sentinel this error derives from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || t.msg == "" {
		return false
	}

	return t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.file != "" || e.line > 0 {
		attrs = append(attrs,
			slog.String("file", e.file),
			slog.Int("line", e.line),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// Errorf wraps a formatted message, as [fmt.Errorf] would create it.
func (e *Error) Errorf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := *e
	c.attrs = newAttrs

	return &c
}

// WithPosition records the line and column of pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.With(
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	)
	if c.line == 0 {
		c.line = pos.Line
	}

	return c
}

// Locate records the source file and line where the error occurred.
// The innermost location wins: an Error that already has a file keeps it.
func (e *Error) Locate(file string, line int) *Error {
	if e.file != "" {
		return e
	}

	c := *e
	c.file = file

	if line > 0 {
		c.line = line
	}

	return &c
}

// Location returns "file:line" for located errors, or "" if unknown.
func (e *Error) Location() string {
	switch {
	case e.file != "" && e.line > 0:
		return e.file + ":" + strconv.Itoa(e.line)
	case e.file != "":
		return e.file
	case e.line > 0:
		return "line " + strconv.Itoa(e.line)
	default:
		return ""
	}
}

// Snippet renders the line of source containing pos with a caret marking
// the column:
//
//	  3 | a { color: red
//	             ^
func Snippet(source string, pos Position) string {
	lines := strings.Split(source, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(pos.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(lines[pos.Line-1])
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}
