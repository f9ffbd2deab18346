package ast_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpeters-dev/golox/ast"
	"github.com/jpeters-dev/golox/parser"
	"github.com/jpeters-dev/golox/token"
)

func TestPrint_BinaryExpression(t *testing.T) {
	program, err := parser.Parse("", "print 1 + 2;")
	require.NoError(t, err)

	var buf bytes.Buffer
	ast.Print(&buf, program)
	assert.Equal(t, "(print (+ 1 2))\n", buf.String())
}

func TestPrint_VarDeclWithoutInitializer(t *testing.T) {
	program, err := parser.Parse("", "var x;")
	require.NoError(t, err)

	var buf bytes.Buffer
	ast.Print(&buf, program)
	assert.Equal(t, "(var x)\n", buf.String())
}

func TestVar_StartsAtGlobalHops(t *testing.T) {
	v := ast.NewVariable(token.Token{Type: token.Ident, Lexeme: "a"})
	assert.Equal(t, ast.GlobalHops, v.Var.Hops)
}
