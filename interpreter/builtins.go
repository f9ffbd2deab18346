package interpreter

import "time"

// registerBuiltins defines the global native functions available to every
// Lox program, per spec §1: a single built-in, clock().
func registerBuiltins(globals *Environment) {
	globals.Define("clock", &loxBuiltin{
		name: "clock",
		n:    0,
		fn: func(args []Object) Object {
			return loxNumber(float64(time.Now().UnixNano()) / float64(time.Second))
		},
	})
}
