package cmd

import (
	"fmt"
	"os"

	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Tokenize a sorth source file and print the resulting tokens",
	Long: `Tokenize a sorth source file and print each token's kind, text,
and source location, useful for debugging the tokenizer.

Examples:
  sorth tokens script.f`,
	Args: cobra.ExactArgs(1),
	RunE: tokensScript,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func tokensScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	text, err := readFile(filename)
	if err != nil {
		return err
	}

	tokens, err := source.Tokenize(filename, text)
	if err != nil {
		return err
	}

	for _, tok := range tokens {
		fmt.Fprintf(os.Stdout, "%-8s %-20q %s\n", tok.Kind, tok.Text, tok.Location)
	}

	return nil
}
