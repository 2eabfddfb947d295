package builtins

import "github.com/sorth-lang/sorth/pkg/interp"

// RegisterAll installs the full base vocabulary onto a fresh
// interpreter, the Go equivalent of the reference runtime's
// register_base_words: every Register*Words call below corresponds to
// one base_words/*.rs module. cmd/sorth calls this once at startup
// before compiling any user source.
func RegisterAll(i *interp.Interpreter) {
	RegisterStackWords(i)
	RegisterMathLogicAndBitWords(i)
	RegisterValueTypeWords(i)
	RegisterEqualityWords(i)
	RegisterStringWords(i)
	RegisterArrayWords(i)
	RegisterHashTableWords(i)
	RegisterByteBufferWords(i)
	RegisterDataStructureWords(i)
	RegisterConstantWords(i)
	RegisterWordCreationWords(i)
	RegisterBytecodeWords(i)
	RegisterControlWords(i)
	RegisterSorthWords(i)
}
