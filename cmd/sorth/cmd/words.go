package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List the interpreter's word dictionary",
	Long: `Print every word installed by the base vocabulary, the FFI
engine, and the I/O/terminal/env word sets, grounded on the
Dictionary's Display-equivalent String method.`,
	RunE: listWords,
}

func init() {
	rootCmd.AddCommand(wordsCmd)
}

func listWords(_ *cobra.Command, _ []string) error {
	i := newInterpreter()
	fmt.Println(i.Dictionary.String())
	return nil
}
