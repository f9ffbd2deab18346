package interpreter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpeters-dev/golox/interpreter"
	"github.com/jpeters-dev/golox/parser"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	program, err := parser.Parse("", src)
	require.NoError(t, err)
	var out bytes.Buffer
	interp := interpreter.New(&out)
	err = interp.Interpret(program)
	return out.String(), err
}

func TestInterpret_ArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpret_StringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestInterpret_NumberFormattingHasNoTrailingZero(t *testing.T) {
	out, err := run(t, `print 6 / 2;`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestInterpret_Modulo(t *testing.T) {
	out, err := run(t, `print 7 % 2;`)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestInterpret_Ternary(t *testing.T) {
	out, err := run(t, `print true ? "yes" : "no";`)
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)
}

func TestInterpret_Closures(t *testing.T) {
	src := `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
		var counter = makeCounter();
		print counter();
		print counter();
	`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestInterpret_ClassesAndMethods(t *testing.T) {
	src := `
		class Greeter {
			init(name) {
				this.name = name;
			}
			greet() {
				print "hello " + this.name;
			}
		}
		var g = Greeter("world");
		g.greet();
	`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestInterpret_InheritanceAndSuper(t *testing.T) {
	src := `
		class Animal {
			speak() {
				print "...";
			}
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "woof";
			}
		}
		Dog().speak();
	`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "...\nwoof\n", out)
}

func TestInterpret_BreakAndContinue(t *testing.T) {
	src := `
		var i = 0;
		while (i < 5) {
			i = i + 1;
			if (i == 2) continue;
			if (i == 4) break;
			print i;
		}
	`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "1\n3\n", out)
}

func TestInterpret_ForLoop(t *testing.T) {
	out, err := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterpret_ForLoopContinueStillRunsUpdate(t *testing.T) {
	src := `
		for (var i = 0; i < 5; i = i + 1) {
			if (i == 1) continue;
			print i;
		}
	`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "0\n2\n3\n4\n", out)
}

func TestInterpret_ForLoopBreak(t *testing.T) {
	src := `for (var i = 0; i < 5; i = i + 1) { if (i == 2) break; print i; }`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n", out)
}

func TestInterpret_AnonymousFunction(t *testing.T) {
	src := `
		var add = fun (a, b) { return a + b; };
		print add(2, 3);
	`
	out, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestInterpret_DivisionByZeroYieldsIEEE754Infinity(t *testing.T) {
	out, err := run(t, `print 1 / 0;`)
	require.NoError(t, err)
	assert.Equal(t, "+Inf\n", out)

	out, err = run(t, `print -1 / 0;`)
	require.NoError(t, err)
	assert.Equal(t, "-Inf\n", out)
}

func TestInterpret_UndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print notDefined;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable")
}

func TestInterpret_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can only call functions and classes")
}

func TestInterpret_WrongArityIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a) { return a; } f(1, 2);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 arguments but got 2")
}

func TestInterpret_StackOverflowIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun loop() { return loop(); } loop();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack overflow")
}

func TestInterpret_REPLModePrintsExpressionStatements(t *testing.T) {
	program, err := parser.Parse("", `1 + 1;`)
	require.NoError(t, err)
	var out bytes.Buffer
	interp := interpreter.New(&out, interpreter.REPLMode())
	require.NoError(t, interp.Interpret(program))
	assert.Equal(t, "2\n", out.String())
}

func TestInterpret_StackTraceAfterRuntimeError(t *testing.T) {
	program, err := parser.Parse("", `fun f() { return 1 % 0; } f();`)
	require.NoError(t, err)
	var out bytes.Buffer
	interp := interpreter.New(&out)
	runErr := interp.Interpret(program)
	require.Error(t, runErr)
	trace := interp.StackTrace(program.EOF)
	assert.True(t, strings.Contains(trace, "f"))
}

func TestInterpret_Clock(t *testing.T) {
	_, err := run(t, `print clock();`)
	require.NoError(t, err)
}
