package interpreter

import "github.com/jpeters-dev/golox/token"

// Environment is one lexical scope's variable bindings plus a link to its
// parent frame, per spec §3. Frames are shared by reference: closures hold
// a pointer to the frame active at their creation, so writes performed
// through one alias are visible through every other.
type Environment struct {
	parent *Environment
	values map[string]Object
}

// NewGlobal constructs the root environment of a run.
func NewGlobal() *Environment {
	return &Environment{values: map[string]Object{}}
}

// Child creates a new environment whose parent is e.
func (e *Environment) Child() *Environment {
	return &Environment{parent: e, values: map[string]Object{}}
}

// Define binds name to value in this environment, overwriting any existing
// binding. Used for variable declarations, function parameters and "this"/
// "super" frames, none of which the resolver treats as re-declaration
// errors at this point (those are caught statically, before evaluation).
func (e *Environment) Define(name string, value Object) {
	e.values[name] = value
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for range distance {
		env = env.parent
	}
	return env
}

// GetAt reads name from the environment distance frames up the parent
// chain, per the (name, hops) lookup rule in spec §4.4.
func (e *Environment) GetAt(distance int, name string) Object {
	env := e.ancestor(distance)
	v, ok := env.values[name]
	if !ok {
		panic("interpreter: resolver produced an incorrect hop distance for " + name)
	}
	return v
}

// AssignAt writes value to name in the environment distance frames up the
// parent chain.
func (e *Environment) AssignAt(distance int, name string, value Object) {
	e.ancestor(distance).values[name] = value
}

// GetGlobal reads name directly from this environment (expected to be the
// global frame), failing with a runtime error attributed to tok if it has
// not been declared, per spec §4.4.
func (e *Environment) GetGlobal(tok token.Token) Object {
	if v, ok := e.values[tok.Lexeme]; ok {
		return v
	}
	panic(runtimeErrorf(tok, "undefined variable %m", tok.Lexeme))
}

// AssignGlobal writes value to name directly in this environment, failing
// with a runtime error attributed to tok if the name has not been declared.
func (e *Environment) AssignGlobal(tok token.Token, value Object) {
	if _, ok := e.values[tok.Lexeme]; !ok {
		panic(runtimeErrorf(tok, "undefined variable %m", tok.Lexeme))
	}
	e.values[tok.Lexeme] = value
}
