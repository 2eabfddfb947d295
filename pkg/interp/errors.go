package interp

import (
	"fmt"
	"strings"

	"github.com/sorth-lang/sorth/pkg/source"
)

// CallItem is one frame of the call stack: the word being executed and
// the location it was called from.
type CallItem struct {
	Name     string
	Location source.Location
}

func (c CallItem) String() string {
	return fmt.Sprintf("%s: %s", c.Location, c.Name)
}

// ScriptError is the runtime error type every fallible interpreter
// operation returns: an optional source location, a message, and a
// snapshot of the call stack at the point of throw (spec.md §4.5
// "Error attachment").
type ScriptError struct {
	Location  *source.Location
	Message   string
	CallStack []CallItem
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	if e.Location != nil {
		fmt.Fprintf(&b, "%s: %s", *e.Location, e.Message)
	} else {
		b.WriteString(e.Message)
	}

	if len(e.CallStack) > 0 {
		b.WriteString("\n\nCall stack\n")
		for i := len(e.CallStack) - 1; i >= 0; i-- {
			fmt.Fprintf(&b, "  %s\n", e.CallStack[i])
		}
	}

	return b.String()
}

// Errorf builds a ScriptError stamped with the interpreter's current
// location and call stack, for use by word handlers outside this
// package (pkg/builtins, pkg/ffi, pkg/iowords).
func (i *Interpreter) Errorf(format string, args ...any) error {
	return i.newError(format, args...)
}

// newError builds a ScriptError stamped with the interpreter's current
// location and a snapshot of its call stack, the Go equivalent of the
// reference implementation's script_error/script_error_str helpers.
func (i *Interpreter) newError(format string, args ...any) error {
	var loc *source.Location
	if i.CurrentLocation != nil {
		l := *i.CurrentLocation
		loc = &l
	}

	stack := make([]CallItem, len(i.CallStack))
	copy(stack, i.CallStack)

	return &ScriptError{Location: loc, Message: fmt.Sprintf(format, args...), CallStack: stack}
}
