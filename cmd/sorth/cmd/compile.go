package cmd

import (
	"fmt"
	"os"

	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/compiler"
	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a sorth source file and print its resolved bytecode",
	Long: `Tokenize and compile a sorth source file without executing it,
then print the resolved top-level bytecode.

Examples:
  sorth compile script.f`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	i := newInterpreter()

	resolved, err := i.FindFile(filename)
	if err != nil {
		return err
	}

	text, err := readFile(resolved)
	if err != nil {
		return err
	}

	tokens, err := source.Tokenize(resolved, text)
	if err != nil {
		return err
	}

	i.ContextNew(tokens)
	for {
		ctx, err := i.Context()
		if err != nil {
			_ = i.ContextDrop()
			return err
		}

		tok, ok := ctx.NextToken()
		if !ok {
			break
		}

		if err := compiler.ProcessToken(i, tok); err != nil {
			_ = i.ContextDrop()
			return err
		}
	}

	ctx, err := i.Context()
	if err != nil {
		_ = i.ContextDrop()
		return err
	}

	top, err := ctx.Top()
	if err != nil {
		_ = i.ContextDrop()
		return err
	}

	if err := top.ResolveJumps(); err != nil {
		_ = i.ContextDrop()
		return err
	}

	body := top.Code
	if err := i.ContextDrop(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s\n", code.PrettyPrint(body))
	return nil
}
