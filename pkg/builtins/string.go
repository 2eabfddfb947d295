package builtins

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

var uniqueStrCounter uint64

// RegisterStringWords installs `hex` and `unique_str`, grounded on
// base_words/string_words.rs.
func RegisterStringWords(i *interp.Interpreter) {
	word(i, "hex", "Convert a number into a hex string.", "number -- hex_string",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}

			var number int64
			switch {
			case v.Kind == value.KindFloat:
				f, _ := v.AsFloat()
				number = int64(math.Float64bits(f))
			case v.IsNumeric():
				number, _ = v.AsInt()
			default:
				return i.Errorf("Value %s is not a number.", v.String())
			}

			i.Push(value.NewString(fmt.Sprintf("%x", number)))
			return nil
		})

	word(i, "unique_str", "Generate a unique string and push it onto the data stack.", " -- string",
		func(i *interp.Interpreter) error {
			index := atomic.AddUint64(&uniqueStrCounter, 1) - 1
			i.Push(value.NewString(fmt.Sprintf("unique-str-%08x", index)))
			return nil
		})
}
