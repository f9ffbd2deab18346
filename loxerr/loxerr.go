// Package loxerr provides the diagnostic error type shared by every pass of
// the interpreter: the lexer, parser, resolver and evaluator all report
// errors attributed to a range of source positions using this type.
package loxerr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-runewidth"

	"github.com/jpeters-dev/golox/token"
)

var (
	boldStyle = color.New(color.Bold)
	redStyle  = color.New(color.FgRed)
	faintText = color.New(color.Faint)
)

// Error describes a single problem attributed to a span of source code.
type Error struct {
	Msg   string
	Start token.Position
	End   token.Position
	Line  string // source text of Start.Line, for the caret/underline
}

// New creates an *Error spanning [start, end), formatting Msg from format
// and args as in fmt.Sprintf. A string argument may also be formatted with
// the 'm' verb, which quotes it: %m of "x" renders as 'x'.
func New(start, end token.Position, line, format string, args ...any) *Error {
	quoted := make([]any, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			arg = nameArg(s)
		}
		quoted[i] = arg
	}
	return &Error{Msg: fmt.Sprintf(format, quoted...), Start: start, End: end, Line: line}
}

// nameArg formats a string argument as fmt would, except under the 'm' verb.
type nameArg string

func (n nameArg) Format(f fmt.State, verb rune) {
	if verb == 'm' {
		fmt.Fprintf(f, "'%s'", string(n))
		return
	}
	fmt.Fprintf(f, fmt.FormatString(f, verb), string(n))
}

// FromToken creates an *Error describing a problem with a single token.
func FromToken(tok token.Token, format string, args ...any) *Error {
	return New(tok.Start, tok.End, tok.LineText, format, args...)
}

func (e *Error) Error() string {
	var b strings.Builder
	boldStyle.Fprint(&b, e.Start.String(), ": ")
	redStyle.Fprint(&b, "error: ")
	fmt.Fprintln(&b, e.Msg)

	if e.Line != "" {
		fmt.Fprintln(&b, e.Line)
		startCol := runewidth.StringWidth(safeSlice(e.Line, 0, e.Start.Column))
		width := 1
		if e.End.Line == e.Start.Line && e.End.Column > e.Start.Column {
			width = runewidth.StringWidth(safeSlice(e.Line, e.Start.Column, e.End.Column))
		}
		fmt.Fprint(&b, strings.Repeat(" ", startCol))
		redStyle.Fprintln(&b, strings.Repeat("~", width))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func safeSlice(s string, lo, hi int) string {
	if lo < 0 {
		lo = 0
	}
	if hi > len(s) {
		hi = len(s)
	}
	if lo > hi {
		return ""
	}
	return s[lo:hi]
}

// List accumulates diagnostics produced by a single pass (lexer, parser or
// resolver) and joins them, sorted by position, into one error.
type List struct {
	errs *multierror.Error
}

// Add records a new error in the list.
func (l *List) Add(err *Error) {
	l.errs = multierror.Append(l.errs, err)
}

// AddFromToken is a convenience wrapper around Add(FromToken(...)).
func (l *List) AddFromToken(tok token.Token, format string, args ...any) {
	l.Add(FromToken(tok, format, args...))
}

// Len reports how many errors have been recorded.
func (l *List) Len() int {
	if l.errs == nil {
		return 0
	}
	return len(l.errs.Errors)
}

// Err returns the accumulated errors as a single error, sorted by source
// position, or nil if none were recorded.
func (l *List) Err() error {
	if l.Len() == 0 {
		return nil
	}
	sort.SliceStable(l.errs.Errors, func(i, j int) bool {
		ei := l.errs.Errors[i].(*Error)
		ej := l.errs.Errors[j].(*Error)
		return ei.Start.Compare(ej.Start) < 0
	})
	l.errs.ErrorFormat = func(errs []error) string {
		lines := make([]string, len(errs))
		for i, err := range errs {
			lines[i] = err.Error()
		}
		return strings.Join(lines, "\n\n")
	}
	return l.errs
}

// Faint renders s with the faint ANSI style.
func Faint(s string) string {
	return faintText.Sprint(s)
}

// Bold renders s with the bold ANSI style.
func Bold(s string) string {
	return boldStyle.Sprint(s)
}
