// Package builtins registers every native word the interpreter ships
// with, split by concern the way rsorth's runtime/built_ins/base_words
// modules are: one register function per file, all gathered by
// RegisterAll.
package builtins

import (
	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// word is a shorthand for registering a normal, visible, native word —
// grounded on the reference's add_native_word! macro.
func word(i *interp.Interpreter, name string, description, signature string, handler interp.Handler) {
	i.AddWord(i.Here(), name, handler, description, signature,
		dictionary.Normal, dictionary.Visible, dictionary.Native)
}

// immediate registers a compile-time word — grounded on
// add_native_immediate_word!.
func immediate(i *interp.Interpreter, name string, description, signature string, handler interp.Handler) {
	i.AddWord(i.Here(), name, handler, description, signature,
		dictionary.Immediate, dictionary.Visible, dictionary.Native)
}

// RegisterStackWords installs dup/drop/swap/over/rot/pick/push-to,
// grounded on base_words/stack_words.rs.
func RegisterStackWords(i *interp.Interpreter) {
	word(i, "dup", "Duplicate the top value on the data stack.", "value -- value value",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			i.Push(v)
			i.Push(v)
			return nil
		})

	word(i, "drop", "Discard the top value on the data stack.", "value -- ",
		func(i *interp.Interpreter) error {
			_, err := i.Pop()
			return err
		})

	word(i, "swap", "Swap the top 2 values on the data stack.", "a b -- b a",
		func(i *interp.Interpreter) error {
			a, err := i.Pop()
			if err != nil {
				return err
			}
			b, err := i.Pop()
			if err != nil {
				return err
			}
			i.Push(a)
			i.Push(b)
			return nil
		})

	word(i, "over", "Make a copy of the top value and place the copy under the second.", "a b -- b a b",
		func(i *interp.Interpreter) error {
			a, err := i.Pop()
			if err != nil {
				return err
			}
			b, err := i.Pop()
			if err != nil {
				return err
			}
			i.Push(a)
			i.Push(b)
			i.Push(a)
			return nil
		})

	word(i, "rot", "Rotate the top 3 values on the stack.", "a b c -- c a b",
		func(i *interp.Interpreter) error {
			c, err := i.Pop()
			if err != nil {
				return err
			}
			b, err := i.Pop()
			if err != nil {
				return err
			}
			a, err := i.Pop()
			if err != nil {
				return err
			}
			i.Push(c)
			i.Push(a)
			i.Push(b)
			return nil
		})

	word(i, "stack.depth", "Get the current depth of the stack.", " -- depth",
		func(i *interp.Interpreter) error {
			i.Push(value.NewInt(int64(i.Depth())))
			return nil
		})

	word(i, "pick", "Pick the value n locations down in the stack and push it on the top.", "n -- value",
		func(i *interp.Interpreter) error {
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			v, err := i.Pick(int(index))
			if err != nil {
				return err
			}
			i.Push(v)
			return nil
		})

	word(i, "push-to", "Pop the top value and push it back into the stack a position from the top.", "n -- ",
		func(i *interp.Interpreter) error {
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			return i.PushTo(int(index))
		})
}
