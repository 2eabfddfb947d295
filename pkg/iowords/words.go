package iowords

import (
	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/interp"
)

// word registers a normal, visible, native word, matching the helper
// every pkg/builtins file defines.
func word(i *interp.Interpreter, name string, description, signature string, handler interp.Handler) {
	i.AddWord(i.Here(), name, handler, description, signature,
		dictionary.Normal, dictionary.Visible, dictionary.Native)
}

// RegisterAll installs the file, terminal, and user/environment word
// sets in one call, the external-collaborator counterpart to
// builtins.RegisterAll.
func RegisterAll(i *interp.Interpreter) {
	RegisterFileWords(i)
	RegisterTerminalWords(i)
	RegisterEnvWords(i)
}
