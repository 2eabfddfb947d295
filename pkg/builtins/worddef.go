package builtins

import (
	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/source"
)

// nextNameToken reads the next raw token from the active construction's
// input and renders it as a word name: Word and Number tokens use their
// literal text, a String token is rejected (mirrors
// word_creation_words.rs's word_start_word match on Token).
func nextNameToken(i *interp.Interpreter) (source.Location, string, error) {
	ctx, err := i.Context()
	if err != nil {
		return source.Location{}, "", err
	}
	tok, ok := ctx.NextToken()
	if !ok {
		return source.Location{}, "", i.Errorf("Expected a word name, found end of input.")
	}
	if tok.Kind == source.TokenString {
		return source.Location{}, "", i.Errorf("Can not use a string as a word name.")
	}
	return tok.Location, tok.Text, nil
}

// nextStringToken reads the next token's literal text regardless of
// kind, for `description:`/`signature:`, grounded on
// next_token_string.
func nextStringToken(i *interp.Interpreter) (string, error) {
	ctx, err := i.Context()
	if err != nil {
		return "", err
	}
	tok, ok := ctx.NextToken()
	if !ok {
		return "", i.Errorf("Expected a token, found end of input.")
	}
	return tok.Text, nil
}

// RegisterWordCreationWords installs `:`, `;`, `immediate`, `hidden`,
// `description:` and `signature:`, grounded one-for-one on
// base_words/word_creation_words.rs. `:` opens a new construction on
// the active constructor; `;` pops it, resolves its jump labels, and
// installs a Scripted word whose handler marks a context, runs the
// compiled body, and releases the context — the Go closure equivalent
// of the reference's ScriptFunction.
func RegisterWordCreationWords(i *interp.Interpreter) {
	immediate(i, ":", "Start a new word definition.", " -- ",
		func(i *interp.Interpreter) error {
			loc, name, err := nextNameToken(i)
			if err != nil {
				return err
			}

			ctx, err := i.Context()
			if err != nil {
				return err
			}
			ctx.PushConstruction()

			top, err := ctx.Top()
			if err != nil {
				return err
			}
			top.Name = name
			top.Location = loc
			return nil
		})

	immediate(i, ";", "End the definition of the newly created word.", " -- ",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			construction, err := ctx.PopConstruction()
			if err != nil {
				return err
			}
			if err := construction.ResolveJumps(); err != nil {
				return err
			}

			body := construction.Code
			name := construction.Name

			handler := func(i *interp.Interpreter) error {
				i.MarkContext()
				err := i.ExecuteCode(name, body)
				i.ReleaseContext()
				return err
			}

			i.AddWord(construction.Location, name, handler,
				construction.Description, construction.Signature,
				construction.Runtime, construction.Visibility, dictionary.Scripted)
			return nil
		})

	immediate(i, "immediate", "Mark the new word as immediate.", " -- ",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			top, err := ctx.Top()
			if err != nil {
				return err
			}
			top.Runtime = dictionary.Immediate
			return nil
		})

	immediate(i, "hidden", "Mark the new word as hidden from the directory.", " -- ",
		func(i *interp.Interpreter) error {
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			top, err := ctx.Top()
			if err != nil {
				return err
			}
			top.Visibility = dictionary.Hidden
			return nil
		})

	immediate(i, "description:", "Give a description for the new word.", " -- ",
		func(i *interp.Interpreter) error {
			description, err := nextStringToken(i)
			if err != nil {
				return err
			}
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			top, err := ctx.Top()
			if err != nil {
				return err
			}
			top.Description = description
			return nil
		})

	immediate(i, "signature:", "Document the word's signature.", " -- ",
		func(i *interp.Interpreter) error {
			signature, err := nextStringToken(i)
			if err != nil {
				return err
			}
			ctx, err := i.Context()
			if err != nil {
				return err
			}
			top, err := ctx.Top()
			if err != nil {
				return err
			}
			top.Signature = signature
			return nil
		})
}
