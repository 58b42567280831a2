/*
Exprrepl starts an interactive exprscript session.

It evaluates one expression per line of input against a single shared
Environment, so variable assignments and macro definitions persist from one
line to the next. The interpreter prints the result of each expression to
stdout and reads input from stdin until end of input.

Usage:

	exprrepl [flags]

The flags are:

	-v, --version
		Give the current version of exprscript and then exit.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty.

	-c, --command EXPRESSION
		Evaluate the given expression immediately and exit, without starting
		an interactive session.

	-l, --library FILE
		Preload the macro library in the given TOML file (with "name" and
		"source" keys) into the environment before the first prompt.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lucaspiller/exprscript"
	"github.com/lucaspiller/exprscript/internal/repl"
	"github.com/lucaspiller/exprscript/internal/version"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitEvalError
	ExitInitError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of using GNU readline")
	flagCommand = pflag.StringP("command", "c", "", "Evaluate the given expression immediately and exit")
	flagLibrary = pflag.StringP("library", "l", "", "Preload the macro library in the given TOML file")
)

type libraryFile struct {
	Name   string `toml:"name"`
	Source string `toml:"source"`
}

func main() {
	returnCode := ExitSuccess
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	env := exprscript.NewEnvironment(nil)
	defer env.Destroy()

	var preamble string
	if *flagLibrary != "" {
		var lib libraryFile
		if _, err := toml.DecodeFile(*flagLibrary, &lib); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not read library file: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		preamble = lib.Source
	}

	if *flagCommand != "" {
		text := *flagCommand
		if preamble != "" {
			text = preamble + ", " + text
		}
		if err := evalAndPrint(env, text); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitEvalError
		}
		return
	}

	if preamble != "" {
		if err := evalAndPrint(env, preamble); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not load library: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	runInteractive(env, &returnCode)
}

func runInteractive(env *exprscript.Environment, returnCode *int) {
	var reader repl.LineReader
	useReadline := !*flagDirect

	if useReadline {
		ilr, err := repl.NewInteractiveReader("expr> ")
		if err != nil {
			reader = repl.NewDirectReader(os.Stdin)
		} else {
			reader = ilr
		}
	} else {
		reader = repl.NewDirectReader(os.Stdin)
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			*returnCode = ExitEvalError
			return
		}

		if err := evalAndPrint(env, line); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		}
	}
}

func evalAndPrint(env *exprscript.Environment, text string) error {
	expr, perr := exprscript.CreateWithDiagnostics(text, env, nil)
	if perr != nil {
		return fmt.Errorf("%s", perr.FullMessage())
	}
	defer expr.Destroy()

	fmt.Printf("%v\n", expr.Eval())
	return nil
}
