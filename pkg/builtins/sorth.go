package builtins

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sorth-lang/sorth/pkg/compiler"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/value"
)

// Version is the interpreter version string reported by sorth.version,
// grounded on word_sorth_version's behavior in the reference.
const Version = "0.1.0"

// readFile wraps os.ReadFile to the string-returning shape
// compiler.ProcessSourceFile expects.
func readFile(path string) (string, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// RegisterSorthWords installs the interpreter-management vocabulary
// grounded on base_words/sorth_words.rs: reset, source inclusion,
// introspection (.s/.w/.#), version/search-path/file-lookup queries,
// and the thread.* family. The Rust original backs word_sorth_memory
// with the sysinfo crate for the live process's working-set size; that
// crate has no counterpart anywhere in the example pack, so this uses
// runtime.ReadMemStats, the stdlib's own equivalent, instead of
// reaching for an unrelated library just to avoid the standard library.
func RegisterSorthWords(i *interp.Interpreter) {
	word(i, "reset", "Reset the interpreter to it's default state.", " -- ",
		func(i *interp.Interpreter) error {
			i.Reset()
			return nil
		})

	word(i, "include", "Include and execute another source file.", "source_path -- ",
		func(i *interp.Interpreter) error {
			path, err := i.PopAsString()
			if err != nil {
				return err
			}
			return compiler.ProcessSourceFile(i, path, readFile)
		})

	immediate(i, "[include]", "Include and execute another source file.", "[include] file/to/include.f",
		func(i *interp.Interpreter) error {
			path, err := nextStringToken(i)
			if err != nil {
				return err
			}
			return compiler.ProcessSourceFile(i, path, readFile)
		})

	word(i, ".s", "Print out the data stack without changing it.", " -- ",
		func(i *interp.Interpreter) error {
			for idx, v := range i.Stack {
				fmt.Printf("%4d: %s\n", idx, v.String())
			}
			return nil
		})

	word(i, ".w", "Print out the current word dictionary.", " -- ",
		func(i *interp.Interpreter) error {
			fmt.Println(i.Dictionary.String())
			return nil
		})

	word(i, ".#", "Print out the currently available data structures.", " -- ",
		func(i *interp.Interpreter) error {
			for idx := 0; idx < i.DataDefinitions.Len(); idx++ {
				def, ok := i.DataDefinitions.Get(idx)
				if !ok {
					continue
				}
				fmt.Printf("%s: %v\n", def.Name, def.FieldNames)
			}
			return nil
		})

	word(i, "sorth.version", "Get the current version of the interpreter.", " -- version_string",
		func(i *interp.Interpreter) error {
			i.Push(value.NewString(Version))
			return nil
		})

	word(i, "sorth.search-path", "Get the search path being used by the interpreter.", " -- search-paths",
		func(i *interp.Interpreter) error {
			array := value.NewArray(len(i.SearchPaths))
			for idx, path := range i.SearchPaths {
				_ = array.Set(idx, value.NewString(path))
			}
			i.Push(value.NewPtr(value.KindArray, array))
			return nil
		})

	word(i, "sorth.find-file", "Search for a file within the given search paths.", "file-name -- full-file-path",
		func(i *interp.Interpreter) error {
			name, err := i.PopAsString()
			if err != nil {
				return err
			}
			found, err := i.FindFile(name)
			if err != nil {
				return err
			}
			i.Push(value.NewString(found))
			return nil
		})

	word(i, "sorth.memory", "Get the size of the process's working set.", " -- memory-size",
		func(i *interp.Interpreter) error {
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			i.Push(value.NewInt(int64(stats.Sys)))
			return nil
		})

	registerThreadStubs(i)
}

// registerThreadStubs installs the .t/thread.* surface as errors, the
// same way word_thread_show and friends do in the reference: threads
// are named in the vocabulary but deliberately unimplemented (see
// DESIGN.md's Resolved Open Questions on thread words).
func registerThreadStubs(i *interp.Interpreter) {
	stub := func(name string) interp.Handler {
		return func(i *interp.Interpreter) error {
			return i.Errorf("Word %s not implemented yet.", name)
		}
	}

	word(i, ".t", "Print out the list of interpreter threads.", " -- ", stub(".t"))
	word(i, "thread.new", "Create a new thread and run the specified word and return the new thread id.",
		"word-index -- thread-id", stub("thread.new"))
	word(i, "thread.push-to", "Push the top value to another thread's input stack.",
		"value thread-id -- ", stub("thread.push-to"))
	word(i, "thread.pop-from", "Pop a value off of the threads input queue, block if there's nothing available.",
		"thread-id -- input-value", stub("thread.pop-from"))
	word(i, "thread.push", "Push the top value onto the thread's output queue.",
		"output-value -- ", stub("thread.push"))
	word(i, "thread.pop", "Pop from another thread's output stack and push onto the local data stack.",
		" -- value", stub("thread.pop"))
}
