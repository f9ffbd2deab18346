// Command golox runs a Lox script, or without one starts an interactive
// read-eval-print loop.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"github.com/chzyer/readline"
	"github.com/hashicorp/go-multierror"

	"github.com/jpeters-dev/golox/ast"
	"github.com/jpeters-dev/golox/interpreter"
	"github.com/jpeters-dev/golox/loxerr"
	"github.com/jpeters-dev/golox/parser"
	"github.com/jpeters-dev/golox/token"
)

// Exit codes follow the sysexits.h convention: 64 for a CLI usage error, 65
// for a source error (lex/parse/resolve), 70 for a runtime failure.
const (
	exitUsage = 64 // EX_USAGE
	exitData  = 65 // EX_DATAERR: lex/parse/resolve error
	exitRun   = 70 // EX_SOFTWARE: runtime error
)

var (
	cmd    = flag.String("c", "", "program passed in as a string")
	astTxt = flag.Bool("ast", false, "print the parsed AST instead of running it")
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: golox [options] [script]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if *cmd != "" {
		out := bufio.NewWriter(os.Stdout)
		interp := interpreter.New(out)
		err := run("<command-line>", *cmd, interp, out)
		out.Flush()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCode(err))
		}
		return
	}

	switch len(flag.Args()) {
	case 0:
		if err := runREPL(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitRun)
		}
	case 1:
		if err := runFile(flag.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitCode(err))
		}
	default:
		flag.Usage()
		os.Exit(exitUsage)
	}
}

// run parses src (attributed to name in diagnostics) and, unless -ast was
// given, evaluates it with interp, flushing printed output to out.
func run(name, src string, interp *interpreter.Interpreter, out *bufio.Writer) error {
	defer out.Flush()
	program, err := parser.Parse(name, src)
	if *astTxt {
		ast.Print(os.Stdout, program)
		return err
	}
	if err != nil {
		return err
	}
	if err := interp.Interpret(program); err != nil {
		atTok := program.EOF
		var runtimeErr *loxerr.Error
		if errors.As(err, &runtimeErr) {
			atTok = token.Token{Start: runtimeErr.Start}
		}
		if trace := interp.StackTrace(atTok); trace != "" {
			return fmt.Errorf("%w\n\n%s", err, trace)
		}
		return err
	}
	return nil
}

// exitCode distinguishes a lex/parse/resolve error (always a collected,
// multi-error value, even when only one diagnostic was recorded) from a
// runtime error (always a single *loxerr.Error raised directly by a panic
// in the evaluator).
func exitCode(err error) int {
	var multi *multierror.Error
	if errors.As(err, &multi) {
		return exitData
	}
	if je, ok := err.(interface{ Unwrap() []error }); ok {
		for _, sub := range je.Unwrap() {
			if errors.As(sub, &multi) {
				return exitData
			}
		}
	}
	return exitRun
}

func runREPL() error {
	cfg := &readline.Config{Prompt: ">>> "}
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = path.Join(homeDir, ".lox_history")
	} else {
		fmt.Fprintf(os.Stderr, "can't get current user's home directory (%s); history will not be saved\n", err)
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("starting REPL: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(os.Stderr, "Welcome to Lox!")

	out := bufio.NewWriter(os.Stdout)
	interp := interpreter.New(out, interpreter.REPLMode())
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := run("<stdin>", line, interp, out); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		out.Flush()
	}
}

func runFile(name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(os.Stdout)
	interp := interpreter.New(out)
	runErr := run(name, string(data), interp, out)
	out.Flush()
	return runErr
}
