package builtins

import (
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// RegisterEqualityWords installs `<>`, the complement of `=` (already
// registered by RegisterMathLogicAndBitWords).
//
// base_words/equality_words.rs is named by mod.rs but is absent from
// the filtered original_source pack; `=` already lives in
// math_logic_and_bit_words.rs's filtered copy, so the one word this
// file can be grounded as owning is inequality.
func RegisterEqualityWords(i *interp.Interpreter) {
	word(i, "<>", "Are 2 values not equal?", "a b -- bool",
		func(i *interp.Interpreter) error {
			b, err := i.Pop()
			if err != nil {
				return err
			}
			a, err := i.Pop()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(!a.Equals(b)))
			return nil
		})
}
