package iowords

import (
	"os"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// RegisterEnvWords installs env.*/os.name, a surface not present in
// rsorth but natural alongside file/terminal words, and the wiring
// target for the teacher's github.com/atotto/clipboard dependency.
func RegisterEnvWords(i *interp.Interpreter) {
	word(i, "env.get", "Get the value of an environment variable.", "name -- value found?",
		func(i *interp.Interpreter) error {
			name, err := i.PopAsString()
			if err != nil {
				return err
			}
			v, ok := os.LookupEnv(name)
			i.Push(value.NewString(v))
			i.Push(value.NewBool(ok))
			return nil
		})

	word(i, "env.set", "Set the value of an environment variable.", "name value -- ",
		func(i *interp.Interpreter) error {
			val, err := i.PopAsString()
			if err != nil {
				return err
			}
			name, err := i.PopAsString()
			if err != nil {
				return err
			}
			return os.Setenv(name, val)
		})

	word(i, "os.name", "Get the name of the host operating system.", " -- name",
		func(i *interp.Interpreter) error {
			i.Push(value.NewString(runtime.GOOS))
			return nil
		})

	word(i, "env.clipboard-read", "Read the contents of the system clipboard.", " -- text",
		func(i *interp.Interpreter) error {
			text, err := clipboard.ReadAll()
			if err != nil {
				return i.Errorf("Could not read clipboard: %s.", err)
			}
			i.Push(value.NewString(text))
			return nil
		})

	word(i, "env.clipboard-write", "Write text to the system clipboard.", "text -- ",
		func(i *interp.Interpreter) error {
			text, err := i.PopAsString()
			if err != nil {
				return err
			}
			if err := clipboard.WriteAll(text); err != nil {
				return i.Errorf("Could not write clipboard: %s.", err)
			}
			return nil
		})
}
