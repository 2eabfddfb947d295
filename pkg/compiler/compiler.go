// Package compiler drives the token-to-bytecode compile loop described
// in spec.md §4.4: each token either dispatches an immediate word
// right away (for compile-time constructs like control flow and word
// definitions) or emits an Execute/PushConstantValue instruction into
// the current construction for later execution.
//
// These are free functions over *interp.Interpreter, not methods on
// it, so that pkg/interp never needs to import pkg/compiler — grounded
// on the reference's process_token/process_source_from_tokens in
// lang/compilation.rs, which are free functions over `&mut dyn
// Interpreter` for the same reason.
package compiler

import (
	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/sorth-lang/sorth/pkg/value"
)

// tokenWordName returns the name a Word or Number token would be
// looked up under in the dictionary (a Number token is only ever
// found when a script has defined a same-named constant/variable that
// shadows a literal, which in practice never happens, but the
// reference checks uniformly so we do too). String tokens can never
// name a word.
func tokenWordName(tok source.Token) (source.Location, string, bool) {
	switch tok.Kind {
	case source.TokenWord:
		return tok.Location, tok.Text, true
	case source.TokenNumber:
		return tok.Location, tok.Text, true
	default:
		return source.Location{}, "", false
	}
}

// ProcessToken compiles or immediately executes a single token against
// the interpreter's current top construction.
func ProcessToken(i *interp.Interpreter, tok source.Token) error {
	if loc, name, ok := tokenWordName(tok); ok {
		if word, found := i.FindWord(name); found {
			if word.Runtime == dictionary.Immediate {
				return i.ExecuteWord(&loc, word)
			}

			instr := code.NewInstruction(&loc, code.Execute, value.NewInt(int64(word.HandlerIndex)))
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			return ctx.PushInstruction(instr)
		}
	}

	ctx, err := i.Context()
	if err != nil {
		return err
	}

	switch tok.Kind {
	case source.TokenWord:
		instr := code.NewInstruction(&tok.Location, code.Execute, value.NewString(tok.Text))
		return ctx.PushInstruction(instr)

	case source.TokenNumber:
		operand := value.NewToken(tok)
		instr := code.NewInstruction(&tok.Location, code.PushConstantValue, operand)
		return ctx.PushInstruction(instr)

	case source.TokenString:
		instr := code.NewInstruction(&tok.Location, code.PushConstantValue, value.NewString(tok.Text))
		return ctx.PushInstruction(instr)

	default:
		return nil
	}
}

// ProcessSourceFromTokens compiles a flat token stream into a fresh
// construction, then immediately executes the resulting code block as
// the top level, per process_source_from_tokens.
func ProcessSourceFromTokens(i *interp.Interpreter, tokens []source.Token) error {
	i.ContextNew(tokens)

	for {
		ctx, err := i.Context()
		if err != nil {
			_ = i.ContextDrop()
			return err
		}

		tok, ok := ctx.NextToken()
		if !ok {
			break
		}

		if err := ProcessToken(i, tok); err != nil {
			_ = i.ContextDrop()
			return err
		}
	}

	ctx, err := i.Context()
	if err != nil {
		_ = i.ContextDrop()
		return err
	}

	if ctx.Depth() != 1 {
		_ = i.ContextDrop()
		return i.Errorf("Unbalanced construction at end of input.")
	}

	top, err := ctx.Top()
	if err != nil {
		_ = i.ContextDrop()
		return err
	}

	if err := top.ResolveJumps(); err != nil {
		_ = i.ContextDrop()
		return err
	}

	body := top.Code
	if err := i.ContextDrop(); err != nil {
		return err
	}

	return i.ExecuteCode("<toplevel>", body)
}

// ProcessSource tokenizes text (from path, used only for location
// tagging and relative-file resolution) and compiles+executes it.
func ProcessSource(i *interp.Interpreter, path, text string) error {
	tokens, err := source.Tokenize(path, text)
	if err != nil {
		return err
	}
	return ProcessSourceFromTokens(i, tokens)
}

// ProcessSourceFile resolves path against the interpreter's search
// path stack, reads it, and compiles+executes it with the containing
// directory pushed as a new search path for the duration (so relative
// `include` words inside it resolve against the including file's
// directory), per spec.md §6.
func ProcessSourceFile(i *interp.Interpreter, path string, readFile func(string) (string, error)) error {
	resolved, err := i.FindFile(path)
	if err != nil {
		return err
	}

	text, err := readFile(resolved)
	if err != nil {
		return err
	}

	if err := i.AddSearchPathForFile(resolved); err != nil {
		return err
	}
	defer i.DropSearchPath()

	return ProcessSource(i, resolved, text)
}
