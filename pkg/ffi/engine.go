package ffi

import (
	"runtime"

	"github.com/ebitengine/purego"

	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/interp"
)

// Engine is the per-interpreter FFI state: loaded libraries keyed by
// alias, plus the type registry. It is stored on interp.Interpreter's
// untyped FFI field (see interp.go) to avoid an import cycle between
// pkg/interp and pkg/ffi.
type Engine struct {
	libs  map[string]uintptr
	types *Registry
}

func NewEngine() *Engine {
	return &Engine{libs: make(map[string]uintptr), types: NewRegistry()}
}

func (e *Engine) Reset() {
	e.libs = make(map[string]uintptr)
	e.types.Reset()
}

// Load opens a dynamic library and registers it under alias, grounded
// on word_ffi_load in ffi_words.rs. Re-registering an alias is an
// error (spec.md §4.6).
func (e *Engine) Load(alias, path string) error {
	if _, exists := e.libs[alias]; exists {
		return &Error{Message: "library alias " + alias + " is already registered"}
	}
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return &Error{Message: "could not load library " + path + ": " + err.Error()}
	}
	e.libs[alias] = handle
	return nil
}

// Error is a plain error carrying an FFI-specific message, so callers
// in pkg/builtins can wrap it with i.Errorf without string-sniffing.
type Error struct{ Message string }

func (e *Error) Error() string { return e.Message }

// Bind resolves symbolName in libAlias and installs a native word
// under localAlias on i whose handler marshals arguments right to
// left, invokes the symbol through purego.SyscallN, and pushes the
// demarshalled return value (unless the return type is ffi.void),
// grounded on word_ffi_fn in ffi_words.rs.
func (e *Engine) Bind(i *interp.Interpreter, libAlias, symbolName, localAlias string, paramTypes []string, returnType string) error {
	handle, ok := e.libs[libAlias]
	if !ok {
		return &Error{Message: "unknown library " + libAlias}
	}

	symbol, err := purego.Dlsym(handle, symbolName)
	if err != nil {
		return &Error{Message: "could not find symbol " + symbolName + ": " + err.Error()}
	}

	params := make([]*TypeInfo, len(paramTypes))
	for idx, name := range paramTypes {
		t, ok := e.types.Find(name)
		if !ok {
			return &Error{Message: "unknown ffi type " + name}
		}
		params[idx] = t
	}

	ret, ok := e.types.Find(returnType)
	if !ok {
		return &Error{Message: "unknown ffi type " + returnType}
	}

	signature := localAlias + " binding of " + libAlias + "::" + symbolName

	handler := func(i *interp.Interpreter) error {
		args := make([]uintptr, len(params))
		var pins [][]byte

		for idx := len(params) - 1; idx >= 0; idx-- {
			v, err := i.Pop()
			if err != nil {
				return err
			}
			word, pin, err := params[idx].MarshalIn(v)
			if err != nil {
				return err
			}
			args[idx] = word
			if pin != nil {
				pins = append(pins, pin)
			}
		}

		r1, _, _ := purego.SyscallN(symbol, args...)
		runtime.KeepAlive(pins) // kept alive until after the call completes

		if ret.Name == "ffi.void" {
			return nil
		}
		i.Push(ret.MarshalOut(r1))
		return nil
	}

	i.AddWord(i.Here(), localAlias, handler, "FFI-bound function.", signature,
		dictionary.Normal, dictionary.Visible, dictionary.Native)
	return nil
}

// RegisterWords installs ffi.load and ffi.fn on i, creating and
// storing a fresh Engine on i.FFI if one isn't already present.
func RegisterWords(i *interp.Interpreter) {
	engine, ok := i.FFI.(*Engine)
	if !ok {
		engine = NewEngine()
		i.FFI = engine
	}

	word(i, "ffi.load", "Load a dynamic library and give it an alias.", "library-alias library-path -- ",
		func(i *interp.Interpreter) error {
			path, err := i.PopAsString()
			if err != nil {
				return err
			}
			alias, err := i.PopAsString()
			if err != nil {
				return err
			}
			return engine.Load(alias, path)
		})

	word(i, "ffi.fn", "Bind a function from a loaded library as a new word.",
		"library-alias symbol-name word-alias param-types return-type -- ",
		func(i *interp.Interpreter) error {
			returnType, err := i.PopAsString()
			if err != nil {
				return err
			}
			paramsArray, err := i.PopAsArray()
			if err != nil {
				return err
			}
			params := make([]string, paramsArray.Len())
			for idx := 0; idx < paramsArray.Len(); idx++ {
				pv, _ := paramsArray.Get(idx)
				s, err := pv.AsString()
				if err != nil {
					return err
				}
				params[idx] = s
			}
			wordAlias, err := i.PopAsString()
			if err != nil {
				return err
			}
			symbolName, err := i.PopAsString()
			if err != nil {
				return err
			}
			libAlias, err := i.PopAsString()
			if err != nil {
				return err
			}
			return engine.Bind(i, libAlias, symbolName, wordAlias, params, returnType)
		})
}

func word(i *interp.Interpreter, name, description, signature string, handler interp.Handler) {
	i.AddWord(i.Here(), name, handler, description, signature, dictionary.Normal, dictionary.Visible, dictionary.Native)
}
