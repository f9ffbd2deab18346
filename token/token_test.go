package token_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jpeters-dev/golox/token"
)

func TestType_String(t *testing.T) {
	assert.Equal(t, "(", token.LeftParen.String())
	assert.Equal(t, "and", token.And.String())
	assert.Equal(t, "EOF", token.EOF.String())
}

func TestType_FormatM(t *testing.T) {
	got := fmt.Sprintf("%m", token.Class)
	assert.Equal(t, "'class'", got)
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, token.Class, token.Keywords["class"])
	assert.Equal(t, token.While, token.Keywords["while"])
	_, ok := token.Keywords["notakeyword"]
	assert.False(t, ok)
}

func TestPosition_String(t *testing.T) {
	p := token.Position{File: "foo.lox", Line: 3, Column: 4}
	assert.Equal(t, "foo.lox:3:5", p.String())
}

func TestPosition_Compare(t *testing.T) {
	a := token.Position{Line: 1, Column: 0}
	b := token.Position{Line: 2, Column: 0}
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(a))
}

func TestToken_IsZero(t *testing.T) {
	var zero token.Token
	assert.True(t, zero.IsZero())

	tok := token.Token{Type: token.Ident, Lexeme: "x"}
	assert.False(t, tok.IsZero())
}

func TestToken_Width(t *testing.T) {
	tok := token.Token{Type: token.Ident, Lexeme: "foo"}
	assert.Equal(t, 3, tok.Width())

	eof := token.Token{Type: token.EOF}
	assert.Equal(t, 1, eof.Width())
}
