package builtins

import (
	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// RegisterControlWords installs the surface control-flow vocabulary:
// conditionals, loops, exception handling, and first-class code-block
// literals. In the reference implementation these are script words
// bootstrapped from a standard-library source file on top of the
// op.*/code.* primitives RegisterBytecodeWords installs (that
// bootstrap file is not part of the filtered original_source pack — see
// _INDEX.md). Rather than inventing a surface syntax for a missing
// file, this reimplements the same primitives' intent directly as
// native Go immediate words, per spec.md §4.4's rationale and §9's
// "immediate words are not macros" design note: each one manipulates
// the active construction exactly the way the corresponding op.*
// sequence would.
//
// Every construct here emits fresh symbolic jump labels via
// i.NextLabel() and threads them through the compile-time data stack
// between the opening and closing words — the classic Forth technique
// of using the stack itself as the compiler's backpatch scratch space.
func RegisterControlWords(i *interp.Interpreter) {
	registerConditionals(i)
	registerLoops(i)
	registerExceptionWords(i)
	registerCodeBlockWords(i)
}

func emit(i *interp.Interpreter, op code.Op, operand value.Value) error {
	ctx, err := i.Context()
	if err != nil {
		return err
	}
	loc := i.Here()
	return ctx.PushInstruction(code.NewInstruction(&loc, op, operand))
}

func popLabel(i *interp.Interpreter) (value.Value, error) {
	v, err := i.Pop()
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind != value.KindString {
		return value.Value{}, i.Errorf("Expected a compile-time jump label, found %s.", v.Kind)
	}
	return v, nil
}

func label(i *interp.Interpreter) value.Value { return value.NewString(i.NextLabel()) }

// --- if / else / then --------------------------------------------------

func registerConditionals(i *interp.Interpreter) {
	immediate(i, "if", "Begin a conditional; branches past the body when the top of stack is false.", "bool -- ",
		func(i *interp.Interpreter) error {
			elseLabel := label(i)
			if err := emit(i, code.JumpIfZero, elseLabel); err != nil {
				return err
			}
			i.Push(elseLabel)
			return nil
		})

	immediate(i, "else", "Begin the alternate branch of an if.", " -- ",
		func(i *interp.Interpreter) error {
			elseLabel, err := popLabel(i)
			if err != nil {
				return err
			}
			endLabel := label(i)
			if err := emit(i, code.Jump, endLabel); err != nil {
				return err
			}
			if err := emit(i, code.JumpTarget, elseLabel); err != nil {
				return err
			}
			i.Push(endLabel)
			return nil
		})

	immediate(i, "then", "End an if/else.", " -- ",
		func(i *interp.Interpreter) error {
			pending, err := popLabel(i)
			if err != nil {
				return err
			}
			return emit(i, code.JumpTarget, pending)
		})
}

// --- loops ---------------------------------------------------------------

func registerLoops(i *interp.Interpreter) {
	// begin ... until: post-condition loop, runs the body at least once
	// and repeats while the top of stack is false.
	immediate(i, "begin", "Mark the start of a begin/until or begin/while/repeat loop.", " -- ",
		func(i *interp.Interpreter) error {
			startLabel := label(i)
			if err := emit(i, code.JumpTarget, startLabel); err != nil {
				return err
			}
			i.Push(startLabel)
			return nil
		})

	immediate(i, "until", "End a begin/until loop; repeats while the top of stack is false.", "bool -- ",
		func(i *interp.Interpreter) error {
			startLabel, err := popLabel(i)
			if err != nil {
				return err
			}
			return emit(i, code.JumpIfZero, startLabel)
		})

	immediate(i, "while", "Middle of a begin/while/repeat loop; exits when the top of stack is false.", "bool -- ",
		func(i *interp.Interpreter) error {
			startLabel, err := popLabel(i)
			if err != nil {
				return err
			}
			exitLabel := label(i)
			if err := emit(i, code.JumpIfZero, exitLabel); err != nil {
				return err
			}
			i.Push(startLabel)
			i.Push(exitLabel)
			return nil
		})

	immediate(i, "repeat", "End a begin/while/repeat loop.", " -- ",
		func(i *interp.Interpreter) error {
			exitLabel, err := popLabel(i)
			if err != nil {
				return err
			}
			startLabel, err := popLabel(i)
			if err != nil {
				return err
			}
			if err := emit(i, code.Jump, startLabel); err != nil {
				return err
			}
			return emit(i, code.JumpTarget, exitLabel)
		})

	// do ... loop: a counted loop over [start, limit), with `i` reading
	// the current index and `leave` breaking out early (spec.md §8
	// scenario 3). The index/limit bookkeeping rides on
	// i.LoopIndexStack rather than a dedicated opcode — §4.3's opcode
	// table is closed, so this convenience is layered on top of it
	// using the existing Mark/UnmarkLoopExit frame machinery for
	// `leave` to interoperate with.
	immediate(i, "do", "Begin a counted loop from start (inclusive) to limit (exclusive).", "limit start -- ",
		func(i *interp.Interpreter) error {
			startLabel := label(i)
			exitLabel := label(i)

			if err := emit(i, code.Execute, value.NewString("loop-index.enter")); err != nil {
				return err
			}
			if err := emit(i, code.MarkLoopExit, exitLabel); err != nil {
				return err
			}
			if err := emit(i, code.JumpTarget, startLabel); err != nil {
				return err
			}

			i.Push(startLabel)
			i.Push(exitLabel)
			return nil
		})

	immediate(i, "loop", "End a do/loop body: advances the index and branches back until the limit is reached.", " -- ",
		func(i *interp.Interpreter) error {
			exitLabel, err := popLabel(i)
			if err != nil {
				return err
			}
			startLabel, err := popLabel(i)
			if err != nil {
				return err
			}

			if err := emit(i, code.Execute, value.NewString("loop-index.advance")); err != nil {
				return err
			}
			if err := emit(i, code.JumpIfNotZero, startLabel); err != nil {
				return err
			}
			if err := emit(i, code.JumpTarget, exitLabel); err != nil {
				return err
			}
			if err := emit(i, code.UnmarkLoopExit, value.None()); err != nil {
				return err
			}
			return emit(i, code.Execute, value.NewString("loop-index.exit"))
		})

	// leave is the only early-exit word: it jumps to the loop's exit
	// target, the same point the normal fallthrough reaches once the
	// loop's JumpIfNotZero stops branching back to the start, so
	// loop-index.exit always runs exactly once regardless of which path
	// was taken. There is no "continue"/"again" companion: doing
	// that correctly would require JumpLoopStart to target the advance
	// step rather than the body's top, which the do/loop layout here
	// does not set up, so it is left unimplemented rather than shipped
	// half-right.
	immediate(i, "leave", "Break out of the innermost do/loop immediately.", " -- ",
		func(i *interp.Interpreter) error {
			return emit(i, code.JumpLoopExit, value.None())
		})

	word(i, "i", "Read the current do/loop index.", " -- index",
		func(i *interp.Interpreter) error {
			if len(i.LoopIndexStack) == 0 {
				return i.Errorf("'i' used outside of a do/loop.")
			}
			top := i.LoopIndexStack[len(i.LoopIndexStack)-1]
			i.Push(value.NewInt(top.Index))
			return nil
		})

	word(i, "loop-index.enter", "Push a new do/loop index frame.", "limit start -- ",
		func(i *interp.Interpreter) error {
			start, err := i.PopAsInt()
			if err != nil {
				return err
			}
			limit, err := i.PopAsInt()
			if err != nil {
				return err
			}
			i.LoopIndexStack = append(i.LoopIndexStack, interp.LoopIndexFrame{Index: start, Limit: limit})
			return nil
		})

	word(i, "loop-index.advance", "Advance the current do/loop index frame.", " -- continue?",
		func(i *interp.Interpreter) error {
			if len(i.LoopIndexStack) == 0 {
				return i.Errorf("No active do/loop index frame.")
			}
			top := &i.LoopIndexStack[len(i.LoopIndexStack)-1]
			top.Index++
			i.Push(value.NewBool(top.Index < top.Limit))
			return nil
		})

	word(i, "loop-index.exit", "Pop the current do/loop index frame.", " -- ",
		func(i *interp.Interpreter) error {
			if len(i.LoopIndexStack) == 0 {
				return i.Errorf("No active do/loop index frame.")
			}
			i.LoopIndexStack = i.LoopIndexStack[:len(i.LoopIndexStack)-1]
			return nil
		})
}

// --- try / catch ---------------------------------------------------------

func registerExceptionWords(i *interp.Interpreter) {
	immediate(i, "try", "Begin a block that catches errors raised within it.", " -- ",
		func(i *interp.Interpreter) error {
			handlerLabel := label(i)
			if err := emit(i, code.MarkCatch, handlerLabel); err != nil {
				return err
			}
			i.Push(handlerLabel)
			return nil
		})

	immediate(i, "catch", "Begin the error-handling block; the error message is on the stack.", " -- message",
		func(i *interp.Interpreter) error {
			handlerLabel, err := popLabel(i)
			if err != nil {
				return err
			}
			if err := emit(i, code.UnmarkCatch, value.None()); err != nil {
				return err
			}
			endLabel := label(i)
			if err := emit(i, code.Jump, endLabel); err != nil {
				return err
			}
			if err := emit(i, code.JumpTarget, handlerLabel); err != nil {
				return err
			}
			i.Push(endLabel)
			return nil
		})

	immediate(i, "endcatch", "End a try/catch block.", " -- ",
		func(i *interp.Interpreter) error {
			endLabel, err := popLabel(i)
			if err != nil {
				return err
			}
			return emit(i, code.JumpTarget, endLabel)
		})

	word(i, "throw", "Raise an error with the given message.", "message -- ",
		func(i *interp.Interpreter) error {
			msg, err := i.PopAsString()
			if err != nil {
				return err
			}
			return i.Errorf("%s", msg)
		})
}

// --- first-class code blocks ----------------------------------------------

func registerCodeBlockWords(i *interp.Interpreter) {
	immediate(i, "{", "Begin a first-class code block literal.", " -- ",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			ctx.PushConstruction()
			return nil
		})

	immediate(i, "}", "End a code block literal, leaving it as a runtime value.", " -- code_block",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			popped, err := ctx.PopConstruction()
			if err != nil {
				return err
			}
			if err := popped.ResolveJumps(); err != nil {
				return err
			}
			return emit(i, code.PushConstantValue, code.NewCode(popped.Code))
		})

	word(i, "call", "Execute a code block value in the current scope.", "code_block -- ",
		func(i *interp.Interpreter) error {
			c, err := i.PopAsCode()
			if err != nil {
				return err
			}
			return i.ExecuteCode("<block>", c)
		})
}
