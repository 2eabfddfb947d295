package builtins

import (
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// RegisterValueTypeWords installs type predicates and explicit
// coercions.
//
// base_words/value_type_words.rs is named by mod.rs but is absent from
// the filtered original_source pack (not in _INDEX.md), so these word
// names are not grounded on a specific source file; they follow the
// `<name>?` predicate and `>int`/`>float`/`>string` coercion
// conventions already established by this corpus's other word families
// (e.g. array_words.rs's `[].*`, hash_table_words.rs's `{}.*`).
func RegisterValueTypeWords(i *interp.Interpreter) {
	predicate := func(name, description string, test func(value.Value) bool) {
		word(i, name, description, "value -- bool", func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(test(v)))
			return nil
		})
	}

	predicate("int?", "Is the value an integer?", func(v value.Value) bool { return v.Kind == value.KindInt })
	predicate("float?", "Is the value a float?", func(v value.Value) bool { return v.Kind == value.KindFloat })
	predicate("number?", "Is the value numeric?", value.Value.IsNumeric)
	predicate("bool?", "Is the value a boolean?", func(v value.Value) bool { return v.Kind == value.KindBool })
	predicate("string?", "Is the value stringable?", value.Value.IsStringable)
	predicate("none?", "Is the value none?", value.Value.IsNone)
	predicate("array?", "Is the value an array?", func(v value.Value) bool { return v.Kind == value.KindArray })
	predicate("hash-table?", "Is the value a hash table?", func(v value.Value) bool { return v.Kind == value.KindHashMap })
	predicate("structure?", "Is the value a structure?", func(v value.Value) bool { return v.Kind == value.KindDataObject })
	predicate("buffer?", "Is the value a byte buffer?", func(v value.Value) bool { return v.Kind == value.KindByteBuffer })
	predicate("code?", "Is the value a code block?", func(v value.Value) bool { return v.Kind == value.KindCode })

	word(i, ">int", "Convert a value to an integer.", "value -- int",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			n, err := v.AsInt()
			if err != nil {
				return i.Errorf("%s", err.Error())
			}
			i.Push(value.NewInt(n))
			return nil
		})

	word(i, ">float", "Convert a value to a float.", "value -- float",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			f, err := v.AsFloat()
			if err != nil {
				return i.Errorf("%s", err.Error())
			}
			i.Push(value.NewFloat(f))
			return nil
		})

	word(i, ">string", "Convert a value to a string.", "value -- string",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			i.Push(value.NewString(v.String()))
			return nil
		})
}
