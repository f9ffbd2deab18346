package ast

import (
	"fmt"
	"io"
	"strings"
)

// Print writes an s-expression representation of the program to w, for use
// with the -ast debug flag. It never fails on a well-formed tree; malformed
// nodes (nil children left behind by a parse error) are rendered as "<nil>".
func Print(w io.Writer, program *Program) {
	p := &printer{w: w}
	for _, stmt := range program.Stmts {
		p.stmt(stmt)
		fmt.Fprintln(w)
	}
}

type printer struct {
	w     io.Writer
	depth int
}

func (p *printer) indent() string {
	return strings.Repeat("  ", p.depth)
}

func (p *printer) stmt(s Stmt) {
	if s == nil {
		fmt.Fprint(p.w, "<nil>")
		return
	}
	switch s := s.(type) {
	case *ExprStmt:
		p.sexpr("exprStmt", func() { p.expr(s.X) })
	case *PrintStmt:
		p.sexpr("print", func() { p.expr(s.X) })
	case *VarDecl:
		p.sexpr("var", func() {
			fmt.Fprint(p.w, s.Name.Lexeme)
			if s.Initializer != nil {
				fmt.Fprint(p.w, " ")
				p.expr(s.Initializer)
			}
		})
	case *Block:
		p.sexpr("block", func() {
			for _, stmt := range s.Stmts {
				fmt.Fprint(p.w, "\n", p.indent(), "  ")
				p.stmt(stmt)
			}
		})
	case *If:
		p.sexpr("if", func() {
			p.expr(s.Cond)
			fmt.Fprint(p.w, " ")
			p.stmt(s.Then)
			if s.Else != nil {
				fmt.Fprint(p.w, " ")
				p.stmt(s.Else)
			}
		})
	case *While:
		p.sexpr("while", func() {
			p.expr(s.Cond)
			fmt.Fprint(p.w, " ")
			p.stmt(s.Body)
		})
	case *ForStmt:
		p.sexpr("for", func() {
			if s.Init != nil {
				p.stmt(s.Init)
			} else {
				fmt.Fprint(p.w, "<nil>")
			}
			fmt.Fprint(p.w, " ")
			if s.Cond != nil {
				p.expr(s.Cond)
			} else {
				fmt.Fprint(p.w, "<nil>")
			}
			fmt.Fprint(p.w, " ")
			if s.Update != nil {
				p.expr(s.Update)
			} else {
				fmt.Fprint(p.w, "<nil>")
			}
			fmt.Fprint(p.w, " ")
			p.stmt(s.Body)
		})
	case *FuncDecl:
		p.sexpr("fun", func() {
			fmt.Fprint(p.w, s.Name.Lexeme, "(")
			for i, param := range s.Params {
				if i > 0 {
					fmt.Fprint(p.w, " ")
				}
				fmt.Fprint(p.w, param.Lexeme)
			}
			fmt.Fprint(p.w, ")")
			for _, stmt := range s.Body {
				fmt.Fprint(p.w, "\n", p.indent(), "  ")
				p.stmt(stmt)
			}
		})
	case *ReturnStmt:
		p.sexpr("return", func() {
			if s.Value != nil {
				p.expr(s.Value)
			}
		})
	case *BreakStmt:
		fmt.Fprint(p.w, "(break)")
	case *ContinueStmt:
		fmt.Fprint(p.w, "(continue)")
	case *ClassDecl:
		p.sexpr("class", func() {
			fmt.Fprint(p.w, s.Name.Lexeme)
			if s.Superclass != nil {
				fmt.Fprint(p.w, " < ", s.Superclass.Var.Name.Lexeme)
			}
			for _, m := range s.Methods {
				fmt.Fprint(p.w, "\n", p.indent(), "  ")
				p.stmt(m)
			}
		})
	default:
		fmt.Fprintf(p.w, "<unknown stmt %T>", s)
	}
}

func (p *printer) sexpr(name string, body func()) {
	fmt.Fprint(p.w, "(", name, " ")
	p.depth++
	body()
	p.depth--
	fmt.Fprint(p.w, ")")
}

func (p *printer) expr(e Expr) {
	if e == nil {
		fmt.Fprint(p.w, "<nil>")
		return
	}
	switch e := e.(type) {
	case *Literal:
		fmt.Fprintf(p.w, "%v", e.Value)
	case *Grouping:
		p.sexpr("group", func() { p.expr(e.Expr) })
	case *Unary:
		p.sexpr(e.Op.Lexeme, func() { p.expr(e.Operand) })
	case *Binary:
		p.sexpr(e.Op.Lexeme, func() { p.expr(e.Left); fmt.Fprint(p.w, " "); p.expr(e.Right) })
	case *Logical:
		p.sexpr(e.Op.Lexeme, func() { p.expr(e.Left); fmt.Fprint(p.w, " "); p.expr(e.Right) })
	case *Ternary:
		p.sexpr("?:", func() {
			p.expr(e.Cond)
			fmt.Fprint(p.w, " ")
			p.expr(e.Then)
			fmt.Fprint(p.w, " ")
			p.expr(e.Else)
		})
	case *Variable:
		fmt.Fprint(p.w, e.Var.Name.Lexeme)
	case *Assign:
		p.sexpr("=", func() { fmt.Fprint(p.w, e.Var.Name.Lexeme, " "); p.expr(e.Value) })
	case *Call:
		p.sexpr("call", func() {
			p.expr(e.Callee)
			for _, arg := range e.Args {
				fmt.Fprint(p.w, " ")
				p.expr(arg)
			}
		})
	case *Get:
		p.sexpr(".", func() { p.expr(e.Object); fmt.Fprint(p.w, " ", e.Name.Lexeme) })
	case *Set:
		p.sexpr("=", func() {
			fmt.Fprint(p.w, ".", e.Name.Lexeme, " ")
			p.expr(e.Object)
			fmt.Fprint(p.w, " ")
			p.expr(e.Value)
		})
	case *This:
		fmt.Fprint(p.w, "this")
	case *Super:
		fmt.Fprint(p.w, "(super ", e.Method.Lexeme, ")")
	case *FunctionLiteral:
		fmt.Fprint(p.w, "(fun)")
	default:
		fmt.Fprintf(p.w, "<unknown expr %T>", e)
	}
}
