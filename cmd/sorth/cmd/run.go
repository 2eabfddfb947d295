package cmd

import (
	"fmt"
	"os"

	"github.com/sorth-lang/sorth/pkg/compiler"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a sorth source file",
	Long: `Compile and execute a sorth source file.

Examples:
  sorth run script.f
  sorth run --search-path lib script.f`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	i := newInterpreter()

	if verbose {
		fmt.Fprintf(os.Stderr, "Running %s\n", filename)
	}

	if err := compiler.ProcessSourceFile(i, filename, readFile); err != nil {
		return err
	}

	return nil
}

func readFile(path string) (string, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(text), nil
}
