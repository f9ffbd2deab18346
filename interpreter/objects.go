package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jpeters-dev/golox/ast"
	"github.com/jpeters-dev/golox/loxerr"
	"github.com/jpeters-dev/golox/token"
)

// Object is the value domain of the interpreter, per spec: Nil, Boolean,
// Number, String, Callable, Class, Instance.
type Object interface {
	String() string
	typeName() string
}

func runtimeErrorf(tok token.Token, format string, args ...any) error {
	return loxerr.FromToken(tok, format, args...)
}

// loxNil is the Nil variant.
type loxNil struct{}

func (loxNil) String() string   { return "nil" }
func (loxNil) typeName() string { return "nil" }

// loxBool is the Boolean variant.
type loxBool bool

func (b loxBool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (loxBool) typeName() string { return "bool" }

// loxNumber is the Number variant: an IEEE-754 double.
type loxNumber float64

func (n loxNumber) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
func (loxNumber) typeName() string { return "number" }

// loxString is the String variant.
type loxString string

func (s loxString) String() string   { return string(s) }
func (loxString) typeName() string   { return "string" }

// isTruthy implements Lox truthiness: nil and false are falsy, everything
// else is truthy.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case loxNil:
		return false
	case loxBool:
		return bool(obj)
	default:
		return true
	}
}

// equals implements Lox equality: structural within a variant, always
// false across variants. NaN != NaN, the standard IEEE-754 behaviour.
func equals(a, b Object) bool {
	switch a := a.(type) {
	case loxNil:
		_, ok := b.(loxNil)
		return ok
	case loxBool:
		bb, ok := b.(loxBool)
		return ok && a == bb
	case loxNumber:
		bb, ok := b.(loxNumber)
		return ok && a == bb
	case loxString:
		bb, ok := b.(loxString)
		return ok && a == bb
	case *LoxInstance:
		return a == b
	case *LoxClass:
		bb, ok := b.(*LoxClass)
		return ok && a == bb
	case *LoxFunction:
		bb, ok := b.(*LoxFunction)
		return ok && a == bb
	case *loxBuiltin:
		bb, ok := b.(*loxBuiltin)
		return ok && a == bb
	default:
		return false
	}
}

// loxCallable is implemented by every Object which can appear as the callee
// of a Call expression: functions, builtins and classes.
type loxCallable interface {
	Object
	arity() int
	call(i *Interpreter, callTok token.Token, args []Object) Object
}

// loxBuiltin wraps a native Go function as a Lox callable, e.g. clock().
type loxBuiltin struct {
	name string
	n    int
	fn   func(args []Object) Object
}

func (b *loxBuiltin) String() string   { return fmt.Sprintf("<native fn %s>", b.name) }
func (*loxBuiltin) typeName() string   { return "function" }
func (b *loxBuiltin) arity() int       { return b.n }
func (b *loxBuiltin) call(_ *Interpreter, _ token.Token, args []Object) Object {
	return b.fn(args)
}

// LoxFunction is a Lox function or method: a name, parameter list, body and
// closure environment, per spec §3. It is immutable once created; Bind
// produces a new *LoxFunction sharing the same code but a different
// closure.
type LoxFunction struct {
	name          string
	params        []token.Token
	body          []ast.Stmt
	closure       *Environment
	isInitializer bool
}

func newLoxFunction(name string, params []token.Token, body []ast.Stmt, closure *Environment, isInit bool) *LoxFunction {
	return &LoxFunction{name: name, params: params, body: body, closure: closure, isInitializer: isInit}
}

func (f *LoxFunction) String() string {
	if f.name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", f.name)
}
func (*LoxFunction) typeName() string { return "function" }
func (f *LoxFunction) arity() int     { return len(f.params) }

func (f *LoxFunction) call(i *Interpreter, callTok token.Token, args []Object) Object {
	env := f.closure.Child()
	for idx, param := range f.params {
		env.Define(param.Lexeme, args[idx])
	}

	result := i.execBlock(env, f.body)

	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}
	if ret, ok := result.(stmtReturn); ok {
		return ret.value
	}
	return loxNil{}
}

// Bind returns a new *LoxFunction whose closure is a fresh frame binding
// "this" to instance, parented on f's original closure, per spec §3.
func (f *LoxFunction) Bind(instance *LoxInstance) *LoxFunction {
	env := f.closure.Child()
	env.Define("this", instance)
	bound := *f
	bound.closure = env
	return &bound
}

// LoxClass is a Lox class: a name, optional superclass and method table.
type LoxClass struct {
	name       string
	superclass *LoxClass
	methods    map[string]*LoxFunction
}

func newLoxClass(name string, superclass *LoxClass, methods map[string]*LoxFunction) *LoxClass {
	return &LoxClass{name: name, superclass: superclass, methods: methods}
}

func (c *LoxClass) String() string   { return c.name }
func (*LoxClass) typeName() string   { return "class" }

// findMethod searches this class, then its superclass chain, per spec §3.
func (c *LoxClass) findMethod(name string) (*LoxFunction, bool) {
	if m, ok := c.methods[name]; ok {
		return m, true
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil, false
}

func (c *LoxClass) arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.arity()
	}
	return 0
}

func (c *LoxClass) call(i *Interpreter, callTok token.Token, args []Object) Object {
	instance := &LoxInstance{class: c, fields: map[string]Object{}}
	if init, ok := c.findMethod("init"); ok {
		init.Bind(instance).call(i, callTok, args)
	}
	return instance
}

// LoxInstance is an instance of a LoxClass: shared mutable field state,
// per spec §3. Equality is identity.
type LoxInstance struct {
	class  *LoxClass
	fields map[string]Object
}

func (inst *LoxInstance) String() string { return inst.class.name + " instance" }
func (*LoxInstance) typeName() string    { return "instance" }

func (inst *LoxInstance) get(name token.Token) Object {
	if v, ok := inst.fields[name.Lexeme]; ok {
		return v
	}
	if method, ok := inst.class.findMethod(name.Lexeme); ok {
		return method.Bind(inst)
	}
	panic(runtimeErrorf(name, "undefined property %m", name.Lexeme))
}

func (inst *LoxInstance) set(name token.Token, value Object) {
	inst.fields[name.Lexeme] = value
}

// numberOperand requires obj to be a Number, panicking a runtime error
// attributed to op otherwise.
func numberOperand(op token.Token, obj Object) loxNumber {
	n, ok := obj.(loxNumber)
	if !ok {
		panic(runtimeErrorf(op, "operand must be a number"))
	}
	return n
}

func numberOperands(op token.Token, left, right Object) (loxNumber, loxNumber) {
	l, lok := left.(loxNumber)
	r, rok := right.(loxNumber)
	if !lok || !rok {
		panic(runtimeErrorf(op, "operands must be numbers"))
	}
	return l, r
}

// evalBinaryOp implements the typing rules of spec §4.4's Binary semantics.
func evalBinaryOp(op token.Token, left, right Object) Object {
	switch op.Type {
	case token.Plus:
		if l, ok := left.(loxNumber); ok {
			if r, ok := right.(loxNumber); ok {
				return l + r
			}
		}
		if l, ok := left.(loxString); ok {
			if r, ok := right.(loxString); ok {
				return l + r
			}
		}
		panic(runtimeErrorf(op, "operands must be two numbers or two strings"))
	case token.Minus:
		l, r := numberOperands(op, left, right)
		return l - r
	case token.Star:
		l, r := numberOperands(op, left, right)
		return l * r
	case token.Slash:
		l, r := numberOperands(op, left, right)
		return l / r
	case token.Percent:
		l, r := numberOperands(op, left, right)
		if r == 0 {
			panic(runtimeErrorf(op, "modulo by zero"))
		}
		return loxNumber(math.Mod(float64(l), float64(r)))
	case token.Greater:
		l, r := numberOperands(op, left, right)
		return loxBool(l > r)
	case token.GreaterEqual:
		l, r := numberOperands(op, left, right)
		return loxBool(l >= r)
	case token.Less:
		l, r := numberOperands(op, left, right)
		return loxBool(l < r)
	case token.LessEqual:
		l, r := numberOperands(op, left, right)
		return loxBool(l <= r)
	case token.EqualEqual:
		return loxBool(equals(left, right))
	case token.BangEqual:
		return loxBool(!equals(left, right))
	default:
		panic(fmt.Sprintf("interpreter: unexpected binary operator %s", op.Type))
	}
}
