// Package token declares the lexical token types produced by the lexer and
// consumed by the parser and diagnostics.
package token

import (
	"cmp"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Type is the type of a lexical token.
type Type int

// The closed set of token types, per the Lox grammar.
const (
	Illegal Type = iota
	EOF

	// Single-character tokens.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	Percent
	Question
	Colon

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Ident
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
	Break
	Continue
)

var typeStrings = map[Type]string{
	Illegal:      "illegal",
	EOF:          "EOF",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Star:         "*",
	Percent:      "%",
	Question:     "?",
	Colon:        ":",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Ident:        "identifier",
	String:       "string",
	Number:       "number",
	And:          "and",
	Class:        "class",
	Else:         "else",
	False:        "false",
	For:          "for",
	Fun:          "fun",
	If:           "if",
	Nil:          "nil",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	Super:        "super",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
	Break:        "break",
	Continue:     "continue",
}

// Keywords maps reserved identifiers to their token type.
var Keywords = func() map[string]Type {
	m := map[string]Type{}
	for _, t := range []Type{
		And, Class, Else, False, For, Fun, If, Nil, Or, Print, Return,
		Super, This, True, Var, While, Break, Continue,
	} {
		m[typeStrings[t]] = t
	}
	return m
}()

func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Format implements fmt.Formatter. The 'm' verb formats the type for use in
// an error message, quoted the way a reader expects a token to be named.
func (t Type) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		fmt.Fprintf(f, "'%s'", t.String())
	default:
		fmt.Fprint(f, t.String())
	}
}

// StatementBoundary is the set of keywords which the parser treats as the
// start of a new statement when synchronizing after a parse error.
var StatementBoundary = map[Type]bool{
	Class:  true,
	Fun:    true,
	Var:    true,
	For:    true,
	If:     true,
	While:  true,
	Print:  true,
	Return: true,
}

// Position is a 1-based line, 0-based column position in a source file.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	prefix := ""
	if p.File != "" {
		prefix = p.File + ":"
	}
	return fmt.Sprintf("%s%d:%d", prefix, p.Line, p.Column+1)
}

// Compare orders positions first by file, then line, then column.
func (p Position) Compare(other Position) int {
	if p.File != other.File {
		return cmp.Compare(p.File, other.File)
	}
	if p.Line != other.Line {
		return cmp.Compare(p.Line, other.Line)
	}
	return cmp.Compare(p.Column, other.Column)
}

// Token is a single lexical token of Lox source code.
type Token struct {
	Type     Type
	Lexeme   string
	Start    Position
	End      Position
	LineText string // the full source line the token starts on, for diagnostics
}

func (t Token) String() string {
	return fmt.Sprintf("%s: %q [%s]", t.Start, t.Lexeme, t.Type)
}

// IsZero reports whether t is the zero value.
func (t Token) IsZero() bool {
	return t == Token{}
}

// Width returns the display width of the token's lexeme, accounting for
// wide runes, so diagnostics can underline it correctly.
func (t Token) Width() int {
	if t.Type == EOF {
		return 1
	}
	return runewidth.StringWidth(t.Lexeme)
}
