// Command sorth is the CLI host for the interpreter: run/compile/
// tokens/words/version subcommands over the pkg/interp,
// pkg/compiler, pkg/builtins, pkg/ffi, and pkg/iowords packages.
package main

import (
	"fmt"
	"os"

	"github.com/sorth-lang/sorth/cmd/sorth/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
