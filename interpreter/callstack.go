package interpreter

import (
	"fmt"
	"strings"

	"github.com/jpeters-dev/golox/loxerr"
	"github.com/jpeters-dev/golox/token"
)

// callStack tracks the chain of active function calls so that a runtime
// error can be reported with a stack trace: each frame remembers which
// function is executing and where it was called from.
type callStack struct {
	frames []stackFrame
}

type stackFrame struct {
	function string // name of the function now executing
	callSite token.Token
}

func newCallStack() *callStack {
	return &callStack{}
}

func (cs *callStack) push(function string, callSite token.Token) {
	cs.frames = append(cs.frames, stackFrame{function: function, callSite: callSite})
}

func (cs *callStack) pop() {
	cs.frames = cs.frames[:len(cs.frames)-1]
}

func (cs *callStack) depth() int {
	return len(cs.frames)
}

func (cs *callStack) reset() {
	cs.frames = nil
}

// trace renders a "most recent call first" stack trace for a runtime error
// raised at tok.
func (cs *callStack) trace(tok token.Token) string {
	if len(cs.frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(loxerr.Bold("stack trace (most recent call first):"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n", tok.Start)
	for i := len(cs.frames) - 1; i >= 0; i-- {
		frame := cs.frames[i]
		function := frame.function
		if function == "" {
			function = "anonymous function"
		}
		fmt.Fprintf(&b, "  %s in %s\n", frame.callSite.Start, function)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
