package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/saiyan/lang/object"
	"github.com/ardnew/saiyan/lang/parser"
)

// Sentinel errors. Use [errors.Is] to classify a returned error.
var (
	ErrReadInput = NewError("failed to read input")
	ErrParse     = NewError("parse failed")
	ErrEvaluate  = NewError("evaluation failed")
)

// Error is an error with structured attributes for logging.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns an Error with message msg.
func NewError(msg string) *Error { return &Error{msg: msg} }

// Error returns "msg: cause", omitting whichever part is empty.
func (e *Error) Error() string {
	switch {
	case e.msg == "":
		if e.err == nil {
			return ""
		}

		return e.err.Error()
	case e.err == nil:
		return e.msg
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg && t.err == nil
}

// LogValue implements [slog.LogValuer].
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

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...),
	}
}

// ParseError reports every diagnostic recorded while parsing Source.
type ParseError struct {
	Diagnostics []parser.Diagnostic
	Source      string
}

// Messages returns the diagnostic messages in order.
func (e *ParseError) Messages() []string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Message
	}

	return msgs
}

// Error describes the first diagnostic and how many follow it.
func (e *ParseError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "parse error"
	}

	d := e.Diagnostics[0]

	var b strings.Builder

	b.WriteString("parse error")

	if d.Pos.IsValid() {
		b.WriteString(" at line ")
		b.WriteString(strconv.Itoa(d.Pos.Line))
		b.WriteString(", column ")
		b.WriteString(strconv.Itoa(d.Pos.Column))
	}

	b.WriteString(": ")
	b.WriteString(d.Message)

	if n := len(e.Diagnostics) - 1; n > 0 {
		b.WriteString(" (and ")
		b.WriteString(strconv.Itoa(n))
		b.WriteString(" more)")
	}

	return b.String()
}

// Unwrap lets [errors.Is] match [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// Snippet renders the source line of diagnostic i with a caret under the
// offending column:
//
//	2 | let = 2;
//	        ^
//
// It returns "" when the position is unknown.
func (e *ParseError) Snippet(i int) string {
	if i < 0 || i >= len(e.Diagnostics) {
		return ""
	}

	pos := e.Diagnostics[i].Pos
	lines := strings.Split(e.Source, "\n")

	if !pos.IsValid() || pos.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(pos.Line)
	line := strings.TrimRight(lines[pos.Line-1], "\r")

	var b strings.Builder

	b.WriteString("  " + num + " | " + line + "\n")
	// 2 leading spaces + len(" | ")
	b.WriteString(strings.Repeat(" ", len(num)+5+max(pos.Column-1, 0)))
	b.WriteString("^\n")

	return b.String()
}

// LogValue implements [slog.LogValuer].
func (e *ParseError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.Diagnostics)+1)
	attrs = append(attrs, slog.Int("count", len(e.Diagnostics)))

	for i, d := range e.Diagnostics {
		attrs = append(attrs, slog.Any(strconv.Itoa(i), d))
	}

	return slog.GroupValue(attrs...)
}

// RuntimeError converts an evaluation result into a Go error. It returns
// nil unless obj is an [*object.Error].
func RuntimeError(obj object.Object) error {
	if oe, ok := obj.(*object.Error); ok {
		return ErrEvaluate.Wrap(oe)
	}

	return nil
}

// AsParseError returns the [*ParseError] in err's chain, if any.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	ok := errors.As(err, &pe)

	return pe, ok
}
