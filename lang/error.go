package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values). Errors derived from a sentinel with
// [Error.With], [Error.Wrap], or [Error.WithPosition] still match it with
// [errors.Is].
var (
	ErrReadInput          = NewError("failed to read input")
	ErrUnexpectedChar     = NewError("unexpected character")
	ErrUnexpectedToken    = NewError("unexpected token")
	ErrMissingTerminator  = NewError("missing terminator")
	ErrUnbalancedGroup    = NewError("unbalanced value group")
	ErrUnbalancedBrace    = NewError("unbalanced brace")
	ErrReservedKeyword    = NewError("reserved keyword has no statement form")
	ErrFunctionNotDefined = NewError("function is not defined")
	ErrArityMismatch      = NewError("argument count mismatch")
	ErrVariableNotDefined = NewError("variable is not defined")
	ErrInvalidInteger     = NewError("invalid integer value")
	ErrIncomparable       = NewError("operands are not comparable")
	ErrMaxDepthExceeded   = NewError("maximum call depth exceeded")
	ErrInvalidNode        = NewError("invalid node")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // wrapped error (for errors.Unwrap)
	root  *Error      // sentinel this error derives from
	pos   *Position   // source location, if known
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.root = e

	return e
}

// WrapError wraps a standard error into an Error. An *Error anywhere in the
// chain of err is returned as is.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface. The format is "<msg>: <err>", with
// either part omitted when unset, followed by the attributes.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	var sb strings.Builder

	sb.WriteString(strings.Join(part, ": "))

	if e.pos != nil {
		sb.WriteString(" at ")
		sb.WriteString(e.pos.String())
	}

	for _, a := range e.attrs {
		sb.WriteString(" (")
		sb.WriteString(a.Key)
		sb.WriteString("=")
		sb.WriteString(a.Value.String())
		sb.WriteString(")")
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e derives from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.root != nil && e.root == t.root
}

// Position returns the source location attached to e.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Attr returns the value of the attribute named key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
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

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition attaches a source location to the error.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

func (e *Error) clone() *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		root:  e.root,
		pos:   e.pos,
		attrs: e.attrs,
	}
}

// FormatSourceError renders err with the offending line of source and a caret
// under the reported column. Errors without a position are rendered plainly.
func FormatSourceError(source string, err error) string {
	var ee *Error
	if !errors.As(err, &ee) || ee.pos == nil {
		return err.Error()
	}

	pos := *ee.pos
	lines := strings.Split(source, "\n")

	var sb strings.Builder

	sb.WriteString(err.Error())
	sb.WriteByte('\n')

	if pos.Line < 1 || pos.Line > len(lines) {
		return sb.String()
	}

	num := strconv.Itoa(pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[pos.Line-1])
	sb.WriteByte('\n')

	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5+max(pos.Column-1, 0)))
	sb.WriteString("^\n")

	return sb.String()
}
