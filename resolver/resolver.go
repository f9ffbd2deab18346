// Package resolver implements the static resolution pass: for every
// variable reference in a program, it computes the number of lexical
// scopes between the reference and its declaration, storing the result on
// the AST node itself (ast.Var.Hops).
package resolver

import (
	"github.com/jpeters-dev/golox/ast"
	"github.com/jpeters-dev/golox/loxerr"
	"github.com/jpeters-dev/golox/token"
)

type identStatus int

const (
	declared identStatus = iota
	defined
)

type funcKind int

const (
	funcKindNone funcKind = iota
	funcKindFunction
	funcKindMethod
	funcKindInitializer
)

type classKind int

const (
	classKindNone classKind = iota
	classKindClass
	classKindSubclass
)

// Resolve walks program, filling in Hops on every Variable, Assign, This
// and Super node. It returns an error describing every static error found
// (shadowing, misplaced this/super/return/break/continue, self-referential
// initializers, class-inherits-itself); evaluation must not proceed if a
// non-nil error is returned.
func Resolve(program *ast.Program) error {
	r := &resolver{}
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
	return r.errs.Err()
}

type scope map[string]identStatus

type resolver struct {
	scopes      []scope
	currentFunc funcKind
	currentClass classKind
	loopDepth   int
	errs        loxerr.List
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(tok token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, ok := top[tok.Lexeme]; ok {
		r.errs.AddFromToken(tok, "already a variable with this name in this scope")
	}
	top[tok.Lexeme] = declared
}

func (r *resolver) define(tok token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][tok.Lexeme] = defined
}

func (r *resolver) defineName(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = defined
}

// resolveLocal scans the scope stack from innermost outward, setting v.Hops
// to the depth at which name is found, or leaving it as ast.GlobalHops.
func (r *resolver) resolveLocal(v *ast.Var) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][v.Name.Lexeme]; ok {
			v.Hops = len(r.scopes) - 1 - i
			return
		}
	}
	v.Hops = ast.GlobalHops
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		r.resolveExpr(stmt.X)
	case *ast.PrintStmt:
		r.resolveExpr(stmt.X)
	case *ast.VarDecl:
		r.declare(stmt.Name)
		if stmt.Initializer != nil {
			r.resolveExpr(stmt.Initializer)
		}
		r.define(stmt.Name)
	case *ast.Block:
		r.beginScope()
		for _, s := range stmt.Stmts {
			r.resolveStmt(s)
		}
		r.endScope()
	case *ast.If:
		r.resolveExpr(stmt.Cond)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}
	case *ast.While:
		r.resolveExpr(stmt.Cond)
		r.loopDepth++
		r.resolveStmt(stmt.Body)
		r.loopDepth--
	case *ast.ForStmt:
		r.beginScope()
		if stmt.Init != nil {
			r.resolveStmt(stmt.Init)
		}
		if stmt.Cond != nil {
			r.resolveExpr(stmt.Cond)
		}
		if stmt.Update != nil {
			r.resolveExpr(stmt.Update)
		}
		r.loopDepth++
		r.resolveStmt(stmt.Body)
		r.loopDepth--
		r.endScope()
	case *ast.FuncDecl:
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.resolveFunction(stmt.Params, stmt.Body, funcKindFunction)
	case *ast.ReturnStmt:
		if r.currentFunc == funcKindNone {
			r.errs.AddFromToken(stmt.Return, "can't return from top-level code")
		}
		if stmt.Value != nil {
			if r.currentFunc == funcKindInitializer {
				r.errs.AddFromToken(stmt.Return, "can't return a value from an initializer")
			}
			r.resolveExpr(stmt.Value)
		}
	case *ast.BreakStmt:
		if r.loopDepth == 0 {
			r.errs.AddFromToken(stmt.Break, "can't use 'break' outside of a loop")
		}
	case *ast.ContinueStmt:
		if r.loopDepth == 0 {
			r.errs.AddFromToken(stmt.Continue, "can't use 'continue' outside of a loop")
		}
	case *ast.ClassDecl:
		r.resolveClassDecl(stmt)
	default:
		panic("resolver: unexpected statement type")
	}
}

func (r *resolver) resolveFunction(params []token.Token, body []ast.Stmt, kind funcKind) {
	enclosingFunc := r.currentFunc
	r.currentFunc = kind
	defer func() { r.currentFunc = enclosingFunc }()

	// break/continue never cross a function boundary, so a loop enclosing
	// this function declaration doesn't count towards loopDepth here.
	enclosingLoopDepth := r.loopDepth
	r.loopDepth = 0
	defer func() { r.loopDepth = enclosingLoopDepth }()

	r.beginScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	for _, stmt := range body {
		r.resolveStmt(stmt)
	}
	r.endScope()
}

func (r *resolver) resolveClassDecl(stmt *ast.ClassDecl) {
	enclosingClass := r.currentClass
	r.currentClass = classKindClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Var.Name.Lexeme == stmt.Name.Lexeme {
			r.errs.AddFromToken(stmt.Superclass.Var.Name, "a class can't inherit from itself")
		}
		r.currentClass = classKindSubclass
		r.resolveExpr(stmt.Superclass)

		r.beginScope()
		r.defineName("super")
		defer r.endScope()
	}

	r.beginScope()
	r.defineName("this")
	defer r.endScope()

	for _, method := range stmt.Methods {
		kind := funcKindMethod
		if method.Name.Lexeme == "init" {
			kind = funcKindInitializer
		}
		r.resolveFunction(method.Params, method.Body, kind)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.Literal:
	case *ast.Grouping:
		r.resolveExpr(expr.Expr)
	case *ast.Unary:
		r.resolveExpr(expr.Operand)
	case *ast.Binary:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Logical:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Ternary:
		r.resolveExpr(expr.Cond)
		r.resolveExpr(expr.Then)
		r.resolveExpr(expr.Else)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if status, ok := r.scopes[len(r.scopes)-1][expr.Var.Name.Lexeme]; ok && status == declared {
				r.errs.AddFromToken(expr.Var.Name, "can't read local variable in its own initializer")
			}
		}
		r.resolveLocal(expr.Var)
	case *ast.Assign:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr.Var)
	case *ast.Call:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(expr.Object)
	case *ast.Set:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	case *ast.This:
		if r.currentClass == classKindNone {
			r.errs.AddFromToken(expr.Var.Name, "can't use 'this' outside of a class")
		}
		r.resolveLocal(expr.Var)
	case *ast.Super:
		if r.currentClass == classKindNone {
			r.errs.AddFromToken(expr.Var.Name, "can't use 'super' outside of a class")
		} else if r.currentClass != classKindSubclass {
			r.errs.AddFromToken(expr.Var.Name, "can't use 'super' in a class with no superclass")
		}
		r.resolveLocal(expr.Var)
	case *ast.FunctionLiteral:
		r.resolveFunction(expr.Params, expr.Body, funcKindFunction)
	default:
		panic("resolver: unexpected expression type")
	}
}
