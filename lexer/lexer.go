// Package lexer turns Lox source text into a stream of lexical tokens.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jpeters-dev/golox/loxerr"
	"github.com/jpeters-dev/golox/token"
)

const eof = -1

// Lexer converts Lox source code into tokens. Tokens are read one at a time
// with Next, which always ends the stream with exactly one EOF token.
// Syntax errors are accumulated and can be retrieved with Errs.
type Lexer struct {
	src      string
	filename string
	lines    []string // src split by line, for diagnostics

	ch         rune
	offset     int // byte offset of ch
	readOffset int // byte offset of the next rune to read
	line       int // 1-based
	col        int // 0-based byte offset from the start of the line

	errs loxerr.List
}

// New constructs a Lexer over src. filename is used in diagnostics and may
// be empty (e.g. for REPL input).
func New(filename, src string) *Lexer {
	l := &Lexer{
		src:      src,
		filename: filename,
		lines:    strings.Split(src, "\n"),
		line:     1,
	}
	l.advance()
	return l
}

// Errs returns the syntax errors accumulated while lexing so far.
func (l *Lexer) Errs() error {
	return l.errs.Err()
}

func (l *Lexer) lineText(n int) string {
	if n-1 < 0 || n-1 >= len(l.lines) {
		return ""
	}
	return l.lines[n-1]
}

func (l *Lexer) pos() token.Position {
	return token.Position{File: l.filename, Line: l.line, Column: l.col}
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else if l.ch != 0 {
		l.col += utf8.RuneLen(l.ch)
	}
	if l.readOffset >= len(l.src) {
		l.offset = len(l.src)
		l.ch = eof
		return
	}
	r, size := utf8.DecodeRuneInString(l.src[l.readOffset:])
	l.offset = l.readOffset
	l.readOffset += size
	l.ch = r
}

func (l *Lexer) peek() rune {
	if l.readOffset >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.readOffset:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if l.peek() == '/' {
				for l.ch != '\n' && l.ch != eof {
					l.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) makeToken(typ token.Type, start token.Position, lexeme string) token.Token {
	return token.Token{
		Type:     typ,
		Lexeme:   lexeme,
		Start:    start,
		End:      l.pos(),
		LineText: l.lineText(start.Line),
	}
}

func (l *Lexer) errorf(start token.Position, format string, args ...any) {
	l.errs.Add(loxerr.New(start, l.pos(), l.lineText(start.Line), format, args...))
}

// Next returns the next token in the stream, or an EOF token if the end of
// the source has been reached. Next never returns past EOF.
func (l *Lexer) Next() token.Token {
	l.skipWhitespace()

	start := l.pos()

	if l.ch == eof {
		return l.makeToken(token.EOF, start, "")
	}

	switch {
	case isDigit(l.ch):
		return l.number(start)
	case isIdentStart(l.ch):
		return l.identifier(start)
	case l.ch == '"':
		return l.string(start)
	}

	ch := l.ch
	l.advance()

	two := func(second rune, withSecond, without token.Type) token.Token {
		if l.ch == second {
			l.advance()
			return l.makeToken(withSecond, start, string(ch)+string(second))
		}
		return l.makeToken(without, start, string(ch))
	}

	switch ch {
	case '(':
		return l.makeToken(token.LeftParen, start, "(")
	case ')':
		return l.makeToken(token.RightParen, start, ")")
	case '{':
		return l.makeToken(token.LeftBrace, start, "{")
	case '}':
		return l.makeToken(token.RightBrace, start, "}")
	case ',':
		return l.makeToken(token.Comma, start, ",")
	case '.':
		return l.makeToken(token.Dot, start, ".")
	case '-':
		return l.makeToken(token.Minus, start, "-")
	case '+':
		return l.makeToken(token.Plus, start, "+")
	case ';':
		return l.makeToken(token.Semicolon, start, ";")
	case '*':
		return l.makeToken(token.Star, start, "*")
	case '/':
		return l.makeToken(token.Slash, start, "/")
	case '%':
		return l.makeToken(token.Percent, start, "%")
	case '?':
		return l.makeToken(token.Question, start, "?")
	case ':':
		return l.makeToken(token.Colon, start, ":")
	case '!':
		return two('=', token.BangEqual, token.Bang)
	case '=':
		return two('=', token.EqualEqual, token.Equal)
	case '<':
		return two('=', token.LessEqual, token.Less)
	case '>':
		return two('=', token.GreaterEqual, token.Greater)
	default:
		l.errorf(start, "unexpected character %q", ch)
		return l.makeToken(token.Illegal, start, string(ch))
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func (l *Lexer) number(start token.Position) token.Token {
	startOffset := l.offset
	for isDigit(l.ch) {
		l.advance()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		l.advance()
		for isDigit(l.ch) {
			l.advance()
		}
	}
	lexeme := l.src[startOffset:l.offset]
	return l.makeToken(token.Number, start, lexeme)
}

func (l *Lexer) identifier(start token.Position) token.Token {
	startOffset := l.offset
	for isIdentPart(l.ch) {
		l.advance()
	}
	lexeme := l.src[startOffset:l.offset]
	typ := token.Ident
	if kw, ok := token.Keywords[lexeme]; ok {
		typ = kw
	}
	return l.makeToken(typ, start, lexeme)
}

func (l *Lexer) string(start token.Position) token.Token {
	l.advance() // opening quote
	startOffset := l.offset
	for l.ch != '"' && l.ch != eof {
		l.advance()
	}
	if l.ch == eof {
		l.errorf(start, "unterminated string literal")
		return l.makeToken(token.Illegal, start, l.src[startOffset:l.offset])
	}
	lexeme := l.src[startOffset:l.offset]
	l.advance() // closing quote
	return l.makeToken(token.String, start, lexeme)
}
