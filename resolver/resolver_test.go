package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpeters-dev/golox/ast"
	"github.com/jpeters-dev/golox/parser"
	"github.com/jpeters-dev/golox/resolver"
)

func resolveSrc(t *testing.T, src string) (*ast.Program, error) {
	t.Helper()
	program, err := parser.Parse("", src)
	require.NoError(t, err)
	return program, resolver.Resolve(program)
}

func TestResolve_GlobalVariableHasGlobalHops(t *testing.T) {
	program, err := resolveSrc(t, "var a = 1; print a;")
	require.NoError(t, err)
	printStmt := program.Stmts[1].(*ast.PrintStmt)
	v := printStmt.X.(*ast.Variable)
	assert.Equal(t, ast.GlobalHops, v.Var.Hops)
}

func TestResolve_LocalVariableHopsMatchNesting(t *testing.T) {
	program, err := resolveSrc(t, "{ var a = 1; { print a; } }")
	require.NoError(t, err)
	outer := program.Stmts[0].(*ast.Block)
	inner := outer.Stmts[1].(*ast.Block)
	printStmt := inner.Stmts[0].(*ast.PrintStmt)
	v := printStmt.X.(*ast.Variable)
	assert.Equal(t, 1, v.Var.Hops)
}

func TestResolve_SelfReferentialInitializerIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "{ var a = a; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't read local variable in its own initializer")
}

func TestResolve_RedeclarationInSameScopeIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "{ var a = 1; var a = 2; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already a variable with this name in this scope")
}

func TestResolve_ReturnOutsideFunctionIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "return 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't return from top-level code")
}

func TestResolve_ReturnValueFromInitializerIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "class C { init() { return 1; } }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't return a value from an initializer")
}

func TestResolve_BreakOutsideLoopIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "break;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't use 'break' outside of a loop")
}

func TestResolve_ContinueOutsideLoopIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "continue;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't use 'continue' outside of a loop")
}

func TestResolve_ThisOutsideClassIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "print this;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't use 'this' outside of a class")
}

func TestResolve_SuperOutsideClassIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "print super.x;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't use 'super' outside of a class")
}

func TestResolve_SuperWithoutSuperclassIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "class C { m() { super.m(); } }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't use 'super' in a class with no superclass")
}

func TestResolve_ClassInheritingItselfIsAnError(t *testing.T) {
	_, err := resolveSrc(t, "class C < C {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a class can't inherit from itself")
}

func TestResolve_ValidSubclassUsingSuperAndThis(t *testing.T) {
	_, err := resolveSrc(t, `
		class Base { greet() { print "base"; } }
		class Derived < Base { greet() { super.greet(); print this; } }
	`)
	require.NoError(t, err)
}

func TestResolve_LoopDepthNestingTracksBreakAcrossFunctions(t *testing.T) {
	_, err := resolveSrc(t, `
		while (true) {
			fun f() { break; }
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't use 'break' outside of a loop")
}
