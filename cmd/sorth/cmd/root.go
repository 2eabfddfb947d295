// Package cmd implements the sorth CLI's subcommand tree, grounded on
// CWBudde-go-dws/cmd/dwscript/cmd's root/run/compile/lex/version split.
package cmd

import (
	"fmt"

	"github.com/sorth-lang/sorth/pkg/builtins"
	"github.com/sorth-lang/sorth/pkg/ffi"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/iowords"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = builtins.Version
	GitCommit = "unknown"
	BuildDate = "unknown"

	verbose     bool
	searchPaths []string
)

var rootCmd = &cobra.Command{
	Use:   "sorth",
	Short: "A stack-based scripting language interpreter",
	Long: `sorth is a concatenative, stack-based scripting language runtime:
tokenizer, bytecode compiler, and interpreter for Forth-like source,
with an FFI engine for binding native shared-library functions as
ordinary dictionary words.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringSliceVar(&searchPaths, "search-path", nil,
		"additional directories to search for included source files")
}

// newInterpreter builds an interpreter with the full base vocabulary,
// the FFI engine, and the I/O/terminal/env word sets installed, the
// same startup sequence every subcommand shares.
func newInterpreter() *interp.Interpreter {
	i := interp.New()
	i.SearchPaths = append(i.SearchPaths, searchPaths...)
	builtins.RegisterAll(i)
	ffi.RegisterWords(i)
	iowords.RegisterAll(i)
	return i
}
