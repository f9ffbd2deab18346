// Package interpreter implements the tree-walking evaluator: it executes a
// resolved *ast.Program against a lexically-scoped environment chain.
package interpreter

import (
	"fmt"
	"io"

	"github.com/jpeters-dev/golox/ast"
	"github.com/jpeters-dev/golox/resolver"
	"github.com/jpeters-dev/golox/token"
)

const maxCallDepth = 1024

// Interpreter executes Lox programs. Its zero value is not usable; use New.
type Interpreter struct {
	globals   *Environment
	out       io.Writer
	callStack *callStack
	replMode  bool
}

// Option configures an Interpreter constructed with New.
type Option func(*Interpreter)

// REPLMode makes the interpreter print the value of bare expression
// statements, the way a REPL echoes results.
func REPLMode() Option {
	return func(i *Interpreter) { i.replMode = true }
}

// New constructs an Interpreter which writes Print output to out.
func New(out io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{
		globals:   NewGlobal(),
		out:       out,
		callStack: newCallStack(),
	}
	registerBuiltins(i.globals)
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret resolves and evaluates program, returning an error if resolution
// or evaluation failed. Interpret may be called repeatedly against the same
// Interpreter (e.g. in a REPL); global state persists between calls.
func (i *Interpreter) Interpret(program *ast.Program) (err error) {
	if resolveErr := resolver.Resolve(program); resolveErr != nil {
		return resolveErr
	}

	// A prior call may have left frames behind (on a panic) for the caller
	// to read via StackTrace before this one starts.
	i.callStack.reset()

	defer func() {
		if r := recover(); r != nil {
			if runtimeErr, ok := r.(error); ok {
				err = runtimeErr
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range program.Stmts {
		i.execStmt(i.globals, stmt)
	}
	return nil
}

// stmtResult is the non-local control-flow signal produced by executing a
// statement: normal completion, break, continue or return-with-value. It
// is distinct from the error channel, per spec §7: a Return/break/continue
// must never be mistaken for a runtime error.
type stmtResult interface{ stmtResult() }

type stmtNone struct{}

func (stmtNone) stmtResult() {}

type stmtBreak struct{}

func (stmtBreak) stmtResult() {}

type stmtContinue struct{}

func (stmtContinue) stmtResult() {}

type stmtReturn struct{ value Object }

func (stmtReturn) stmtResult() {}

func (i *Interpreter) execStmt(env *Environment, stmt ast.Stmt) stmtResult {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		value := i.evalExpr(env, stmt.X)
		if i.replMode {
			fmt.Fprintln(i.out, value.String())
		}
	case *ast.PrintStmt:
		value := i.evalExpr(env, stmt.X)
		fmt.Fprintln(i.out, value.String())
	case *ast.VarDecl:
		var value Object = loxNil{}
		if stmt.Initializer != nil {
			value = i.evalExpr(env, stmt.Initializer)
		}
		env.Define(stmt.Name.Lexeme, value)
	case *ast.Block:
		return i.execBlock(env.Child(), stmt.Stmts)
	case *ast.If:
		if isTruthy(i.evalExpr(env, stmt.Cond)) {
			return i.execStmt(env, stmt.Then)
		} else if stmt.Else != nil {
			return i.execStmt(env, stmt.Else)
		}
	case *ast.While:
		for isTruthy(i.evalExpr(env, stmt.Cond)) {
			result := i.execStmt(env, stmt.Body)
			switch result.(type) {
			case stmtBreak:
				return stmtNone{}
			case stmtReturn:
				return result
			}
		}
	case *ast.ForStmt:
		return i.execFor(env, stmt)
	case *ast.FuncDecl:
		fn := newLoxFunction(stmt.Name.Lexeme, stmt.Params, stmt.Body, env, false)
		env.Define(stmt.Name.Lexeme, fn)
	case *ast.ReturnStmt:
		var value Object = loxNil{}
		if stmt.Value != nil {
			value = i.evalExpr(env, stmt.Value)
		}
		return stmtReturn{value: value}
	case *ast.BreakStmt:
		return stmtBreak{}
	case *ast.ContinueStmt:
		return stmtContinue{}
	case *ast.ClassDecl:
		i.execClassDecl(env, stmt)
	default:
		panic(fmt.Sprintf("interpreter: unexpected statement type %T", stmt))
	}
	return stmtNone{}
}

// execBlock executes stmts in env, stopping early and propagating a
// break/continue/return signal if one occurs. The pushed frame is env
// itself; callers pass a fresh child environment.
func (i *Interpreter) execBlock(env *Environment, stmts []ast.Stmt) stmtResult {
	for _, stmt := range stmts {
		result := i.execStmt(env, stmt)
		if _, ok := result.(stmtNone); !ok {
			return result
		}
	}
	return stmtNone{}
}

// execFor runs a C-style for loop. Unlike execStmt's While case, a
// stmtContinue result falls through to Update instead of stopping the
// iteration, so "continue" still advances the loop the way a real for
// loop does.
func (i *Interpreter) execFor(env *Environment, stmt *ast.ForStmt) stmtResult {
	loopEnv := env.Child()
	if stmt.Init != nil {
		i.execStmt(loopEnv, stmt.Init)
	}

	for stmt.Cond == nil || isTruthy(i.evalExpr(loopEnv, stmt.Cond)) {
		result := i.execStmt(loopEnv, stmt.Body)
		switch result.(type) {
		case stmtBreak:
			return stmtNone{}
		case stmtReturn:
			return result
		}
		if stmt.Update != nil {
			i.evalExpr(loopEnv, stmt.Update)
		}
	}
	return stmtNone{}
}

func (i *Interpreter) execClassDecl(env *Environment, stmt *ast.ClassDecl) {
	var superclass *LoxClass
	if stmt.Superclass != nil {
		superVal := i.evalExpr(env, stmt.Superclass)
		var ok bool
		superclass, ok = superVal.(*LoxClass)
		if !ok {
			panic(runtimeErrorf(stmt.Superclass.Var.Name, "superclass must be a class"))
		}
	}

	env.Define(stmt.Name.Lexeme, loxNil{})

	methodEnv := env
	if superclass != nil {
		methodEnv = env.Child()
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction, len(stmt.Methods))
	for _, methodDecl := range stmt.Methods {
		isInit := methodDecl.Name.Lexeme == "init"
		methods[methodDecl.Name.Lexeme] = newLoxFunction(methodDecl.Name.Lexeme, methodDecl.Params, methodDecl.Body, methodEnv, isInit)
	}

	class := newLoxClass(stmt.Name.Lexeme, superclass, methods)
	env.AssignAt(0, stmt.Name.Lexeme, class)
}

func (i *Interpreter) evalExpr(env *Environment, expr ast.Expr) Object {
	switch expr := expr.(type) {
	case *ast.Literal:
		return literalObject(expr.Value)
	case *ast.Grouping:
		return i.evalExpr(env, expr.Expr)
	case *ast.Unary:
		return i.evalUnary(env, expr)
	case *ast.Binary:
		left := i.evalExpr(env, expr.Left)
		right := i.evalExpr(env, expr.Right)
		return evalBinaryOp(expr.Op, left, right)
	case *ast.Logical:
		left := i.evalExpr(env, expr.Left)
		switch expr.Op.Type {
		case token.Or:
			if isTruthy(left) {
				return left
			}
		default: // And
			if !isTruthy(left) {
				return left
			}
		}
		return i.evalExpr(env, expr.Right)
	case *ast.Ternary:
		if isTruthy(i.evalExpr(env, expr.Cond)) {
			return i.evalExpr(env, expr.Then)
		}
		return i.evalExpr(env, expr.Else)
	case *ast.Variable:
		return i.lookupVar(env, expr.Var)
	case *ast.Assign:
		value := i.evalExpr(env, expr.Value)
		i.assignVar(env, expr.Var, value)
		return value
	case *ast.Call:
		return i.evalCall(env, expr)
	case *ast.Get:
		object := i.evalExpr(env, expr.Object)
		instance, ok := object.(*LoxInstance)
		if !ok {
			panic(runtimeErrorf(expr.Name, "only instances have properties"))
		}
		return instance.get(expr.Name)
	case *ast.Set:
		object := i.evalExpr(env, expr.Object)
		instance, ok := object.(*LoxInstance)
		if !ok {
			panic(runtimeErrorf(expr.Name, "only instances have fields"))
		}
		value := i.evalExpr(env, expr.Value)
		instance.set(expr.Name, value)
		return value
	case *ast.This:
		return i.lookupVar(env, expr.Var)
	case *ast.Super:
		return i.evalSuper(env, expr)
	case *ast.FunctionLiteral:
		return newLoxFunction("", expr.Params, expr.Body, env, false)
	default:
		panic(fmt.Sprintf("interpreter: unexpected expression type %T", expr))
	}
}

func literalObject(value any) Object {
	switch value := value.(type) {
	case nil:
		return loxNil{}
	case bool:
		return loxBool(value)
	case float64:
		return loxNumber(value)
	case string:
		return loxString(value)
	default:
		panic(fmt.Sprintf("interpreter: unexpected literal value %#v", value))
	}
}

func (i *Interpreter) evalUnary(env *Environment, expr *ast.Unary) Object {
	operand := i.evalExpr(env, expr.Operand)
	switch expr.Op.Type {
	case token.Minus:
		return -numberOperand(expr.Op, operand)
	case token.Bang:
		return loxBool(!isTruthy(operand))
	default:
		panic(fmt.Sprintf("interpreter: unexpected unary operator %s", expr.Op.Type))
	}
}

func (i *Interpreter) lookupVar(env *Environment, v *ast.Var) Object {
	if v.Hops == ast.GlobalHops {
		return i.globals.GetGlobal(v.Name)
	}
	return env.GetAt(v.Hops, v.Name.Lexeme)
}

func (i *Interpreter) assignVar(env *Environment, v *ast.Var, value Object) {
	if v.Hops == ast.GlobalHops {
		i.globals.AssignGlobal(v.Name, value)
		return
	}
	env.AssignAt(v.Hops, v.Name.Lexeme, value)
}

func (i *Interpreter) evalCall(env *Environment, expr *ast.Call) Object {
	callee := i.evalExpr(env, expr.Callee)
	args := make([]Object, len(expr.Args))
	for idx, argExpr := range expr.Args {
		args[idx] = i.evalExpr(env, argExpr)
	}

	callable, ok := callee.(loxCallable)
	if !ok {
		panic(runtimeErrorf(tokenOf(expr.Callee, expr.LeftParen), "can only call functions and classes"))
	}

	if callable.arity() != len(args) {
		panic(runtimeErrorf(expr.RightParen, "expected %d arguments but got %d", callable.arity(), len(args)))
	}

	if i.callStack.depth() >= maxCallDepth {
		panic(runtimeErrorf(expr.LeftParen, "stack overflow"))
	}

	name := callableName(callee)
	i.callStack.push(name, expr.LeftParen)
	// On a runtime-error panic, leave the frame in place instead of popping
	// it: the panic unwinds through every enclosing evalCall before
	// Interpret's top-level recover runs, and the trace it reports needs
	// the full chain of frames still there at that point. The next call to
	// Interpret clears the stack, after the caller has read it via
	// StackTrace.
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		}
		i.callStack.pop()
	}()

	return callable.call(i, expr.LeftParen, args)
}

func callableName(obj Object) string {
	switch obj := obj.(type) {
	case *LoxFunction:
		return obj.name
	case *LoxClass:
		return obj.name
	case *loxBuiltin:
		return obj.name
	default:
		return ""
	}
}

// tokenOf returns a token to attribute a "not callable" error to: the
// callee's own token if it's a simple variable reference, otherwise the
// call's opening parenthesis.
func tokenOf(expr ast.Expr, fallback token.Token) token.Token {
	if v, ok := expr.(*ast.Variable); ok {
		return v.Var.Name
	}
	return fallback
}

func (i *Interpreter) evalSuper(env *Environment, expr *ast.Super) Object {
	distance := expr.Var.Hops
	superclass := env.GetAt(distance, "super").(*LoxClass)
	instance := env.GetAt(distance-1, "this").(*LoxInstance)

	method, ok := superclass.findMethod(expr.Method.Lexeme)
	if !ok {
		panic(runtimeErrorf(expr.Method, "undefined property %m", expr.Method.Lexeme))
	}
	return method.Bind(instance)
}

// StackTrace renders the call stack left behind by the last runtime error,
// for CLI diagnostics, with atTok's position as the innermost line. It
// returns "" if there is no active call (a top-level error).
func (i *Interpreter) StackTrace(atTok token.Token) string {
	return i.callStack.trace(atTok)
}
