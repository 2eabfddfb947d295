package iowords

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
	"golang.org/x/term"
)

// rawState holds the terminal's state prior to entering raw mode, so
// term.raw_mode can toggle it back off; nil when the terminal is in
// its normal cooked mode, grounded on terminal_words/unix.rs's
// word_term_raw_mode pairing termios save/restore with a bool.
var rawState *term.State

// RegisterTerminalWords installs term.* words grounded on
// terminal_words/mod.rs, with raw-mode toggling and size query backed
// by golang.org/x/term rather than the original's hand-rolled
// termios/Windows console API bindings.
func RegisterTerminalWords(i *interp.Interpreter) {
	word(i, "term.raw_mode", "Enter or leave the terminal's 'raw' mode.", "bool -- ",
		func(i *interp.Interpreter) error {
			enable, err := i.PopAsBool()
			if err != nil {
				return err
			}
			fd := int(os.Stdin.Fd())
			if enable {
				if rawState != nil {
					return nil
				}
				state, err := term.MakeRaw(fd)
				if err != nil {
					return i.Errorf("Could not enter raw mode: %s.", err)
				}
				rawState = state
				return nil
			}
			if rawState == nil {
				return nil
			}
			err = term.Restore(fd, rawState)
			rawState = nil
			if err != nil {
				return i.Errorf("Could not leave raw mode: %s.", err)
			}
			return nil
		})

	word(i, "term.size@", "Return the number of characters in the rows and columns of the terminal.",
		" -- width height",
		func(i *interp.Interpreter) error {
			width, height, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				return i.Errorf("Could not get terminal size: %s.", err)
			}
			i.Push(value.NewInt(int64(width)))
			i.Push(value.NewInt(int64(height)))
			return nil
		})

	word(i, "term.key", "Read a keypress from the terminal.", " -- character",
		func(i *interp.Interpreter) error {
			buf := make([]byte, 1)
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				i.Push(value.NewString(""))
				return nil
			}
			i.Push(value.NewString(string(buf[:n])))
			return nil
		})

	word(i, "term.flush", "Flush the terminal buffers.", " -- ",
		func(i *interp.Interpreter) error {
			return os.Stdout.Sync()
		})

	word(i, "term.readline", "Read a line of text from the terminal.", " -- string",
		func(i *interp.Interpreter) error {
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				i.Push(value.NewString(""))
				return nil
			}
			i.Push(value.NewString(strings.TrimRight(line, "\r\n")))
			return nil
		})

	word(i, "term.!", "Write a value to the console.", "value -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			fmt.Print(v.String())
			return nil
		})

	word(i, "term.is_printable?", "Is the given character printable?", "character -- bool",
		func(i *interp.Interpreter) error {
			s, err := i.PopAsString()
			if err != nil {
				return err
			}
			runes := []rune(s)
			if len(runes) != 1 {
				return i.Errorf("Expected a single character.")
			}
			r := runes[0]
			printable := unicode.IsGraphic(r) || r == ' ' || r == '\t' || r == '\n'
			i.Push(value.NewBool(printable))
			return nil
		})
}
