package builtins

import (
	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// defName reads the next token from the active constructor, as the
// variable/constant words do in the reference runtime: the name is a
// bare, unresolved word that must not itself be looked up.
func defName(i *interp.Interpreter) (string, error) {
	ctx, err := i.Context()
	if err != nil {
		return "", err
	}
	tok, ok := ctx.NextToken()
	if !ok {
		return "", i.Errorf("Expected a name, found end of input.")
	}
	return tok.Text, nil
}

// RegisterConstantWords installs `variable` and `constant`.
//
// base_words/constant_words.rs is named by mod.rs but is absent from
// the filtered original_source pack; the DefVariable/DefConstant ops
// these compile to are grounded on pkg/interp/exec.go's
// defineVariable/defineConstant (SPEC_FULL.md's §4.3 bytecode table).
func RegisterConstantWords(i *interp.Interpreter) {
	immediate(i, "variable", "Create a new variable.", "name -- ",
		func(i *interp.Interpreter) error {
			name, err := defName(i)
			if err != nil {
				return err
			}
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			loc := i.Here()
			return ctx.PushInstruction(code.NewInstruction(&loc, code.DefVariable, value.NewString(name)))
		})

	immediate(i, "constant", "Create a new constant.", "value name -- ",
		func(i *interp.Interpreter) error {
			name, err := defName(i)
			if err != nil {
				return err
			}
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			loc := i.Here()
			return ctx.PushInstruction(code.NewInstruction(&loc, code.DefConstant, value.NewString(name)))
		})

	// `@`/`!` are ordinary runtime words, the surface a script actually
	// uses to read and write a variable once it has its index on the
	// stack (`variable foo` installs a word pushing that index; `foo @`
	// / `value foo !` then drive the ReadVariable/WriteVariable
	// semantics §4.3 defines). op.read_variable/op.write_variable above
	// stay as the compile-time bytecode-insertion primitives they are
	// in the reference; these are the everyday counterparts a script
	// calls directly.
	word(i, "@", "Read the value a variable index refers to.", "variable_index -- value",
		func(i *interp.Interpreter) error {
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			v, ok := i.Variables.Get(int(index))
			if !ok {
				return i.Errorf("Read index %d out of range of variable set.", index)
			}
			i.Push(v)
			return nil
		})

	word(i, "!", "Write a value to the variable an index refers to.", "value variable_index -- ",
		func(i *interp.Interpreter) error {
			index, err := i.PopAsInt()
			if err != nil {
				return err
			}
			v, err := i.Pop()
			if err != nil {
				return err
			}
			if !i.Variables.Set(int(index), v) {
				return i.Errorf("Write index %d out of range of variable set.", index)
			}
			return nil
		})
}
