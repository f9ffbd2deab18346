package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpeters-dev/golox/lexer"
	"github.com/jpeters-dev/golox/token"
)

func allTokens(l *lexer.Lexer) []token.Token {
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestLexer_SingleAndTwoCharTokens(t *testing.T) {
	l := lexer.New("", "(){},.-+;*/ ! != = == < <= > >= % ? :")
	toks := allTokens(l)
	require.NoError(t, l.Errs())

	want := []token.Type{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.Slash, token.Bang, token.BangEqual, token.Equal,
		token.EqualEqual, token.Less, token.LessEqual, token.Greater,
		token.GreaterEqual, token.Percent, token.Question, token.Colon,
		token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, toks[i].Type, "token %d", i)
	}
}

func TestLexer_Comment(t *testing.T) {
	l := lexer.New("", "1 // a comment\n2")
	toks := allTokens(l)
	require.NoError(t, l.Errs())
	require.Len(t, toks, 3)
	assert.Equal(t, token.Number, toks[0].Type)
	assert.Equal(t, token.Number, toks[1].Type)
	assert.Equal(t, 2, toks[1].Start.Line)
}

func TestLexer_StringSpansLines(t *testing.T) {
	l := lexer.New("", "\"a\nb\" 1")
	toks := allTokens(l)
	require.NoError(t, l.Errs())
	require.Len(t, toks, 3)
	assert.Equal(t, token.String, toks[0].Type)
	assert.Equal(t, "a\nb", toks[0].Lexeme)
	assert.Equal(t, 2, toks[1].Start.Line)
}

func TestLexer_UnterminatedString(t *testing.T) {
	l := lexer.New("", `"unterminated`)
	allTokens(l)
	require.Error(t, l.Errs())
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"123", []string{"123"}},
		{"123.456", []string{"123.456"}},
		{"123.", []string{"123", "."}},
		{".5", []string{".", "5"}},
	}
	for _, tt := range tests {
		l := lexer.New("", tt.src)
		toks := allTokens(l)
		require.NoError(t, l.Errs())
		require.Len(t, toks, len(tt.want)+1)
		for i, w := range tt.want {
			assert.Equal(t, w, toks[i].Lexeme)
		}
	}
}

func TestLexer_IdentifiersAndKeywords(t *testing.T) {
	l := lexer.New("", "foo and class _bar1")
	toks := allTokens(l)
	require.NoError(t, l.Errs())
	require.Len(t, toks, 5)
	assert.Equal(t, token.Ident, toks[0].Type)
	assert.Equal(t, token.And, toks[1].Type)
	assert.Equal(t, token.Class, toks[2].Type)
	assert.Equal(t, token.Ident, toks[3].Type)
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	l := lexer.New("", "@")
	toks := allTokens(l)
	require.Error(t, l.Errs())
	assert.Equal(t, token.Illegal, toks[0].Type)
}

func TestLexer_LineNumbersMonotonic(t *testing.T) {
	l := lexer.New("", "1\n2\n\n3")
	toks := allTokens(l)
	require.NoError(t, l.Errs())
	lastLine := 0
	for _, tok := range toks {
		assert.GreaterOrEqual(t, tok.Start.Line, lastLine)
		lastLine = tok.Start.Line
	}
}

func TestLexer_EndsWithEOF(t *testing.T) {
	l := lexer.New("", "var a = 1;")
	toks := allTokens(l)
	require.NoError(t, l.Errs())
	assert.Equal(t, token.EOF, toks[len(toks)-1].Type)
}
