// Package parser implements a recursive-descent parser producing an
// *ast.Program from Lox source text.
package parser

import (
	"strconv"

	"github.com/jpeters-dev/golox/ast"
	"github.com/jpeters-dev/golox/lexer"
	"github.com/jpeters-dev/golox/loxerr"
	"github.com/jpeters-dev/golox/token"
)

const maxArgs = 255

// parseError is panicked to unwind to the nearest synchronize point. It is
// never allowed to escape Parse.
type parseError struct{}

type parser struct {
	lex       *lexer.Lexer
	cur, prev token.Token
	errs      loxerr.List
}

// Parse parses src (attributed to filename in diagnostics) into a program.
// If any syntax errors were encountered, the returned error describes all of
// them; the returned *ast.Program is still populated as far as parsing
// could recover, which callers should discard rather than evaluate.
func Parse(filename, src string) (*ast.Program, error) {
	l := lexer.New(filename, src)
	p := &parser{lex: l}
	p.advance()

	var stmts []ast.Stmt
	for p.cur.Type != token.EOF {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	program := &ast.Program{Stmts: stmts, EOF: p.cur}

	if lexErr := l.Errs(); lexErr != nil {
		if parseErr := p.errs.Err(); parseErr != nil {
			return program, combineErrs(lexErr, parseErr)
		}
		return program, lexErr
	}
	return program, p.errs.Err()
}

func combineErrs(a, b error) error {
	// Both a and b are already-joined loxerr errors; present them together,
	// lexical errors first since they were produced earlier in the pipeline.
	return joinedErr{a, b}
}

type joinedErr struct {
	a, b error
}

func (j joinedErr) Error() string { return j.a.Error() + "\n\n" + j.b.Error() }
func (j joinedErr) Unwrap() []error { return []error{j.a, j.b} }

func (p *parser) advance() {
	p.prev = p.cur
	for {
		p.cur = p.lex.Next()
		if p.cur.Type != token.Illegal {
			return
		}
	}
}

func (p *parser) check(t token.Type) bool {
	return p.cur.Type == t
}

func (p *parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(t token.Type, format string, args ...any) token.Token {
	if p.check(t) {
		tok := p.cur
		p.advance()
		return tok
	}
	p.errorAtCur(format, args...)
	panic(parseError{})
}

func (p *parser) errorAtCur(format string, args ...any) {
	p.errs.AddFromToken(p.cur, format, args...)
}

// synchronize discards tokens until it reaches a likely statement boundary,
// per spec: a consumed semicolon or a statement-starter keyword next.
func (p *parser) synchronize() {
	for p.cur.Type != token.EOF {
		if p.prev.Type == token.Semicolon {
			return
		}
		if token.StatementBoundary[p.cur.Type] {
			return
		}
		p.advance()
	}
}

// declaration parses one top-level or block-level declaration/statement. If
// a parse error occurs, it synchronizes and returns nil; the caller simply
// omits the nil from the statement list.
func (p *parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.check(token.Class):
		return p.classDecl()
	case p.check(token.Fun):
		// At statement position, "fun" always starts a named declaration
		// (funDecl → "fun" function). Anonymous function literals are only
		// reachable from expression position, in primary.
		p.advance()
		return p.funDecl("function")
	case p.check(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *parser) classDecl() ast.Stmt {
	classTok := p.expect(token.Class, "expected 'class'")
	name := p.expect(token.Ident, "expected class name")

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName := p.expect(token.Ident, "expected superclass name")
		superclass = ast.NewVariable(superName)
	}

	p.expect(token.LeftBrace, "expected '{' before class body")
	var methods []*ast.FuncDecl
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		methods = append(methods, p.funDecl("method").(*ast.FuncDecl))
	}
	rightBrace := p.expect(token.RightBrace, "expected '}' after class body")

	return &ast.ClassDecl{
		Class:      classTok,
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
		RightBrace: rightBrace,
	}
}

func (p *parser) funDecl(kind string) ast.Stmt {
	funTok := p.prev
	name := p.expect(token.Ident, "expected %s name", kind)
	params, body, endPos := p.functionRest(kind)
	return &ast.FuncDecl{Fun: funTok, Name: name, Params: params, Body: body, EndPos: endPos}
}

// functionRest parses "(" params? ")" block, shared by named functions,
// methods and anonymous function literals.
func (p *parser) functionRest(kind string) (params []token.Token, body []ast.Stmt, endPos token.Position) {
	p.expect(token.LeftParen, "expected '(' after %s name", kind)
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAtCur("can't have more than %d parameters", maxArgs)
			}
			params = append(params, p.expect(token.Ident, "expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen, "expected ')' after parameters")
	block := p.block()
	return params, block.Stmts, block.RightBrace.End
}

func (p *parser) varDecl() ast.Stmt {
	varTok := p.expect(token.Var, "expected 'var'")
	name := p.expect(token.Ident, "expected variable name")
	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	semi := p.expect(token.Semicolon, "expected ';' after variable declaration")
	return &ast.VarDecl{Var: varTok, Name: name, Initializer: init, Semicolon: semi}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.check(token.Print):
		return p.printStmt()
	case p.check(token.LeftBrace):
		return p.block()
	case p.check(token.If):
		return p.ifStmt()
	case p.check(token.While):
		return p.whileStmt()
	case p.check(token.For):
		return p.forStmt()
	case p.check(token.Return):
		return p.returnStmt()
	case p.check(token.Break):
		return p.breakStmt()
	case p.check(token.Continue):
		return p.continueStmt()
	default:
		return p.exprStmt()
	}
}

func (p *parser) printStmt() ast.Stmt {
	printTok := p.expect(token.Print, "expected 'print'")
	x := p.expression()
	semi := p.expect(token.Semicolon, "expected ';' after value")
	return &ast.PrintStmt{Print: printTok, X: x, Semicolon: semi}
}

func (p *parser) exprStmt() ast.Stmt {
	x := p.expression()
	semi := p.expect(token.Semicolon, "expected ';' after expression")
	return &ast.ExprStmt{X: x, Semicolon: semi}
}

func (p *parser) block() *ast.Block {
	leftBrace := p.expect(token.LeftBrace, "expected '{'")
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.check(token.EOF) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	rightBrace := p.expect(token.RightBrace, "expected '}' after block")
	return &ast.Block{LeftBrace: leftBrace, Stmts: stmts, RightBrace: rightBrace}
}

func (p *parser) ifStmt() ast.Stmt {
	ifTok := p.expect(token.If, "expected 'if'")
	p.expect(token.LeftParen, "expected '(' after 'if'")
	cond := p.expression()
	p.expect(token.RightParen, "expected ')' after condition")
	then := p.statement()
	var elseStmt ast.Stmt
	if p.match(token.Else) {
		elseStmt = p.statement()
	}
	return &ast.If{If: ifTok, Cond: cond, Then: then, Else: elseStmt}
}

func (p *parser) whileStmt() ast.Stmt {
	whileTok := p.expect(token.While, "expected 'while'")
	p.expect(token.LeftParen, "expected '(' after 'while'")
	cond := p.expression()
	p.expect(token.RightParen, "expected ')' after condition")
	body := p.statement()
	return &ast.While{While: whileTok, Cond: cond, Body: body}
}

// forStmt parses a C-style for loop into its own ast.ForStmt, rather than
// desugaring into a Block+While: a synthesized "run update after body"
// block would run the update only when the body completes normally, never
// when it "continue"s.
func (p *parser) forStmt() ast.Stmt {
	forTok := p.expect(token.For, "expected 'for'")
	p.expect(token.LeftParen, "expected '(' after 'for'")

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
		init = nil
	case p.check(token.Var):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.expect(token.Semicolon, "expected ';' after loop condition")

	var update ast.Expr
	if !p.check(token.RightParen) {
		update = p.expression()
	}
	p.expect(token.RightParen, "expected ')' after for clauses")

	body := p.statement()

	return &ast.ForStmt{For: forTok, Init: init, Cond: cond, Update: update, Body: body}
}

func (p *parser) returnStmt() ast.Stmt {
	returnTok := p.expect(token.Return, "expected 'return'")
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	semi := p.expect(token.Semicolon, "expected ';' after return value")
	return &ast.ReturnStmt{Return: returnTok, Value: value, Semicolon: semi}
}

func (p *parser) breakStmt() ast.Stmt {
	breakTok := p.expect(token.Break, "expected 'break'")
	semi := p.expect(token.Semicolon, "expected ';' after 'break'")
	return &ast.BreakStmt{Break: breakTok, Semicolon: semi}
}

func (p *parser) continueStmt() ast.Stmt {
	continueTok := p.expect(token.Continue, "expected 'continue'")
	semi := p.expect(token.Semicolon, "expected ';' after 'continue'")
	return &ast.ContinueStmt{Continue: continueTok, Semicolon: semi}
}

// --- Expressions, lowest to highest precedence ---

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

func (p *parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.check(token.Equal) {
		equals := p.cur
		p.advance()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Var: target.Var, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errs.AddFromToken(equals, "invalid assignment target")
			return expr
		}
	}

	return expr
}

func (p *parser) ternary() ast.Expr {
	cond := p.or()
	if p.match(token.Question) {
		then := p.assignment()
		p.expect(token.Colon, "expected ':' in conditional expression")
		elseExpr := p.ternary()
		return &ast.Ternary{Cond: cond, Then: then, Else: elseExpr}
	}
	return cond
}

func (p *parser) or() ast.Expr {
	expr := p.and()
	for p.check(token.Or) {
		op := p.cur
		p.advance()
		right := p.and()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) and() ast.Expr {
	expr := p.equality()
	for p.check(token.And) {
		op := p.cur
		p.advance()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.check(token.BangEqual) || p.check(token.EqualEqual) {
		op := p.cur
		p.advance()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.check(token.Greater) || p.check(token.GreaterEqual) || p.check(token.Less) || p.check(token.LessEqual) {
		op := p.cur
		p.advance()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.check(token.Plus) || p.check(token.Minus) {
		op := p.cur
		p.advance()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.check(token.Star) || p.check(token.Slash) || p.check(token.Percent) {
		op := p.cur
		p.advance()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.check(token.Bang) || p.check(token.Minus) {
		op := p.cur
		p.advance()
		operand := p.unary()
		return &ast.Unary{Op: op, Operand: operand}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.check(token.LeftParen):
			expr = p.finishCall(expr)
		case p.check(token.Dot):
			p.advance()
			name := p.expect(token.Ident, "expected property name after '.'")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	leftParen := p.expect(token.LeftParen, "expected '('")
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAtCur("can't have more than %d arguments", maxArgs)
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	rightParen := p.expect(token.RightParen, "expected ')' after arguments")
	return &ast.Call{Callee: callee, LeftParen: leftParen, Args: args, RightParen: rightParen}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.check(token.False):
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Value: false}
	case p.check(token.True):
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Value: true}
	case p.check(token.Nil):
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Value: nil}
	case p.check(token.Number):
		tok := p.cur
		p.advance()
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errs.AddFromToken(tok, "invalid number literal %q", tok.Lexeme)
			value = 0
		}
		return &ast.Literal{Token: tok, Value: value}
	case p.check(token.String):
		tok := p.cur
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Lexeme}
	case p.check(token.This):
		tok := p.cur
		p.advance()
		return ast.NewThis(tok)
	case p.check(token.Super):
		superTok := p.cur
		p.advance()
		p.expect(token.Dot, "expected '.' after 'super'")
		method := p.expect(token.Ident, "expected superclass method name")
		return ast.NewSuper(superTok, method)
	case p.check(token.Ident):
		tok := p.cur
		p.advance()
		return ast.NewVariable(tok)
	case p.check(token.LeftParen):
		leftParen := p.cur
		p.advance()
		expr := p.expression()
		rightParen := p.expect(token.RightParen, "expected ')' after expression")
		return &ast.Grouping{LeftParen: leftParen, Expr: expr, RightParen: rightParen}
	case p.check(token.Fun):
		funTok := p.cur
		p.advance()
		params, body, endPos := p.functionRest("function")
		return &ast.FunctionLiteral{Fun: funTok, Params: params, Body: body, EndPos: endPos}
	default:
		p.errorAtCur("expected expression")
		panic(parseError{})
	}
}
