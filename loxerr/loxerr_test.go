package loxerr_test

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpeters-dev/golox/loxerr"
	"github.com/jpeters-dev/golox/token"
)

func tok(lexeme string, col int) token.Token {
	return token.Token{
		Lexeme:   lexeme,
		Start:    token.Position{File: "f.lox", Line: 1, Column: col},
		End:      token.Position{File: "f.lox", Line: 1, Column: col + len(lexeme)},
		LineText: "var " + lexeme + " = 1;",
	}
}

func TestError_MessageContainsPositionAndText(t *testing.T) {
	err := loxerr.FromToken(tok("x", 4), "undefined variable %m", "x")
	msg := err.Error()
	assert.Contains(t, msg, "f.lox:1:5")
	assert.Contains(t, msg, "undefined variable 'x'")
	assert.Contains(t, msg, "var x = 1;")
}

func TestList_EmptyHasNilErr(t *testing.T) {
	var l loxerr.List
	assert.Nil(t, l.Err())
	assert.Equal(t, 0, l.Len())
}

func TestList_SortsByPosition(t *testing.T) {
	var l loxerr.List
	l.AddFromToken(tok("b", 10), "second problem")
	l.AddFromToken(tok("a", 2), "first problem")
	require.Equal(t, 2, l.Len())

	err := l.Err()
	require.Error(t, err)

	var multi *multierror.Error
	require.True(t, errors.As(err, &multi))
	require.Len(t, multi.Errors, 2)
	firstErr := multi.Errors[0].(*loxerr.Error)
	assert.Equal(t, 2, firstErr.Start.Column)
}
