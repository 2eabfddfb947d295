package builtins

import (
	"strings"

	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/compiler"
	"github.com/sorth-lang/sorth/pkg/construct"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/sorth-lang/sorth/pkg/value"
)

// insertUserInstruction appends a (location-less) instruction to the
// currently active construction, grounded on bytecode_words.rs's
// insert_user_instruction.
func insertUserInstruction(i *interp.Interpreter, op code.Op, operand value.Value) error {
	ctx, err := i.Context()
	if err != nil {
		return err
	}
	return ctx.PushInstruction(code.NewInstruction(nil, op, operand))
}

// RegisterBytecodeWords installs the `op.*`/`code.*` primitives that let
// script code manipulate the active construction directly, grounded on
// base_words/bytecode_words.rs one-for-one. The higher-level control-
// flow words (RegisterControlWords) do not go through these words: rsorth
// builds its control words in a bootstrap script, which is not part of
// the filtered original_source pack, so RegisterControlWords implements
// them directly in Go rather than in the language itself.
func RegisterBytecodeWords(i *interp.Interpreter) {
	word(i, "op.def_variable", "Insert this instruction into the byte stream.", "new-name -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.DefVariable, v)
		})

	word(i, "op.def_constant", "Insert this instruction into the byte stream.", "new-name -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.DefConstant, v)
		})

	word(i, "op.read_variable", "Insert this instruction into the byte stream.", " -- ",
		func(i *interp.Interpreter) error {
			return insertUserInstruction(i, code.ReadVariable, value.None())
		})

	word(i, "op.write_variable", "Insert this instruction into the byte stream.", " -- ",
		func(i *interp.Interpreter) error {
			return insertUserInstruction(i, code.WriteVariable, value.None())
		})

	word(i, "op.execute", "Insert this instruction into the byte stream.", "index -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.Execute, v)
		})

	word(i, "op.push_constant_value", "Insert this instruction into the byte stream.", "value -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.PushConstantValue, v)
		})

	word(i, "op.mark_loop_exit", "Insert this instruction into the byte stream.", "identifier -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.MarkLoopExit, v)
		})

	word(i, "op.unmark_loop_exit", "Insert this instruction into the byte stream.", " -- ",
		func(i *interp.Interpreter) error {
			return insertUserInstruction(i, code.UnmarkLoopExit, value.None())
		})

	word(i, "op.mark_catch", "Insert this instruction into the byte stream.", "identifier -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.MarkCatch, v)
		})

	word(i, "op.unmark_catch", "Insert this instruction into the byte stream.", " -- ",
		func(i *interp.Interpreter) error {
			return insertUserInstruction(i, code.UnmarkCatch, value.None())
		})

	word(i, "op.jump", "Insert this instruction into the byte stream.", "identifier -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.Jump, v)
		})

	word(i, "op.jump_if_zero", "Insert this instruction into the byte stream.", "identifier -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.JumpIfZero, v)
		})

	word(i, "op.jump_if_not_zero", "Insert this instruction into the byte stream.", "identifier -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.JumpIfNotZero, v)
		})

	word(i, "op.jump_loop_start", "Insert this instruction into the byte stream.", " -- ",
		func(i *interp.Interpreter) error {
			return insertUserInstruction(i, code.JumpLoopStart, value.None())
		})

	word(i, "op.jump_loop_exit", "Insert this instruction into the byte stream.", " -- ",
		func(i *interp.Interpreter) error {
			return insertUserInstruction(i, code.JumpLoopExit, value.None())
		})

	word(i, "op.jump_target", "Insert this instruction into the byte stream.", "identifier -- ",
		func(i *interp.Interpreter) error {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			return insertUserInstruction(i, code.JumpTarget, v)
		})

	word(i, "code.new_block", "Create a new sub-block on the code generation stack.", " -- ",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			ctx.PushConstruction()
			return nil
		})

	word(i, "code.merge_stack_block", "Merge the top code block into the one below.", " -- ",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			return ctx.MergeConstruction()
		})

	word(i, "code.pop_stack_block", "Pop a code block off of the code stack and onto the data stack.", " -- code_block",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			top, err := ctx.PopConstruction()
			if err != nil {
				return err
			}
			i.Push(code.NewCode(top.Code))
			return nil
		})

	word(i, "code.push_stack_block", "Pop a block from the data stack and back onto the code stack.", "code_block -- ",
		func(i *interp.Interpreter) error {
			c, err := i.PopAsCode()
			if err != nil {
				return err
			}
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			ctx.PushConstructionWithCode(c)
			return nil
		})

	word(i, "code.stack_block_size@", "Read the size of the code block at the top of the stack.", " -- code_size",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			top, err := ctx.Top()
			if err != nil {
				return err
			}
			i.Push(value.NewInt(int64(len(top.Code))))
			return nil
		})

	word(i, "code.resolve_jumps", "Resolve all of the jumps in the top code block.", " -- ",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			top, err := ctx.Top()
			if err != nil {
				return err
			}
			return top.ResolveJumps()
		})

	word(i, "code.compile_until_words", "Compile words until one of the given words is found.", "words... word_count -- found_word",
		func(i *interp.Interpreter) error {
			count, err := i.PopAsInt()
			if err != nil {
				return err
			}
			words := make([]string, count)
			for n := int64(0); n < count; n++ {
				s, err := i.PopAsString()
				if err != nil {
					return err
				}
				words[count-1-n] = s
			}

			ctx, err := i.Context()
			if err != nil {
				return err
			}

			for {
				tok, ok := ctx.NextToken()
				if !ok {
					if len(words) == 1 {
						return i.Errorf("Could not find word %s.", words[0])
					}
					return i.Errorf("Could not find any of the words: %s.", strings.Join(words, ", "))
				}

				if tok.Kind == source.TokenWord {
					for _, w := range words {
						if tok.Text == w {
							i.Push(value.NewString(w))
							return nil
						}
					}
				}

				if err := compiler.ProcessToken(i, tok); err != nil {
					return err
				}
			}
		})

	word(i, "code.insert_at_front", "When true new instructions are added beginning of the block.", "bool -- ",
		func(i *interp.Interpreter) error {
			atFront, err := i.PopAsBool()
			if err != nil {
				return err
			}
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			if atFront {
				ctx.SetInsertion(construct.AtTop)
			} else {
				ctx.SetInsertion(construct.AtEnd)
			}
			return nil
		})

	word(i, "code.execute_source", "Interpret and execute a string like it is source code.", "string_to_execute -- ???",
		func(i *interp.Interpreter) error {
			src, err := i.PopAsString()
			if err != nil {
				return err
			}
			return compiler.ProcessSource(i, "<repl>", src)
		})
}
