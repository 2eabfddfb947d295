// Package interp implements the interpreter core of spec.md §4.5: the
// value/call stacks, the contextual dictionary/variable/handler/data-
// definition scopes, the compilation-context stack, and the bytecode
// execution loop (see exec.go).
package interp

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/construct"
	"github.com/sorth-lang/sorth/pkg/contextual"
	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/sorth-lang/sorth/pkg/value"
)

// Handler is the Go closure form of a word's effect: native words
// supply one directly, scripted words get one that runs their compiled
// body through ExecuteCode, and FFI-bound words get one that marshals
// arguments and calls into a shared library.
type Handler func(i *Interpreter) error

// WordHandlerInfo is the handler-table counterpart to
// dictionary.WordInfo: the stable-indexed record of what actually
// executes when a word's handler index is dispatched.
type WordHandlerInfo struct {
	Name     string
	Location source.Location
	Handler  Handler
}

// Interpreter holds every piece of mutable runtime state described in
// spec.md §4.5: it is the single source of truth an interpreter
// instance owns; there is no process-wide global (§9 design notes).
type Interpreter struct {
	maxDepth int

	SearchPaths []string

	Stack []value.Value

	CurrentLocation *source.Location
	CallStack       []CallItem

	DataDefinitions *contextual.List[*value.DataObjectDefinition]

	Dictionary   *dictionary.Dictionary
	WordHandlers *contextual.List[WordHandlerInfo]

	Variables *contextual.List[value.Value]

	Constructors []*construct.Constructor

	// FFI holds whatever the FFI engine needs to persist across calls
	// (loaded libraries, bound-function state). Declared as `any` here
	// so this package doesn't import pkg/ffi (which itself needs
	// *Interpreter to install bound words) — set once at startup.
	FFI any

	// labelCounter hands out unique symbolic jump-label names to
	// immediate control-flow words (if/else/then, loops, try/catch)
	// while they build up a construction's code, per spec.md §4.3.
	labelCounter int

	// LoopIndexStack backs the counted `do ... loop` control word's `i`
	// index accessor: each `do` pushes a frame here at runtime and each
	// `loop` advances/pops it. This is a convenience surface built on
	// top of the fixed opcode set (§4.3), not an opcode itself.
	LoopIndexStack []LoopIndexFrame
}

// LoopIndexFrame is one live `do ... loop` invocation's counter state.
type LoopIndexFrame struct {
	Index, Limit int64
}

// NextLabel returns a fresh symbolic jump-label name, unique for the
// lifetime of this interpreter instance.
func (i *Interpreter) NextLabel() string {
	i.labelCounter++
	return fmt.Sprintf("L%d", i.labelCounter)
}

func New() *Interpreter {
	return &Interpreter{
		DataDefinitions: contextual.NewList[*value.DataObjectDefinition](),
		Dictionary:      dictionary.New(),
		WordHandlers:    contextual.NewList[WordHandlerInfo](),
		Variables:       contextual.NewList[value.Value](),
	}
}

// MarkContext opens a new nested scope across every contextual store
// at once — the dictionary, word-handler table, data-definition list,
// and variable list all move together, per spec.md §5.
func (i *Interpreter) MarkContext() {
	i.Dictionary.MarkContext()
	i.WordHandlers.MarkContext()
	i.DataDefinitions.MarkContext()
	i.Variables.MarkContext()
}

// ReleaseContext closes the innermost scope across the same four
// stores. Errors are deliberately swallowed here (mirroring the
// reference ContextualData::release_context, which panics instead of
// erroring) because by the time this is called defensively during
// error cleanup there is nothing more useful to do with the failure.
func (i *Interpreter) ReleaseContext() {
	_ = i.Dictionary.ReleaseContext()
	_ = i.WordHandlers.ReleaseContext()
	_ = i.DataDefinitions.ReleaseContext()
	_ = i.Variables.ReleaseContext()
}

func (i *Interpreter) Reset() {
	i.ReleaseContext()
	i.Stack = i.Stack[:0]
}

// --- value stack -----------------------------------------------------

func (i *Interpreter) Depth() int { return len(i.Stack) }

func (i *Interpreter) Push(v value.Value) {
	i.Stack = append(i.Stack, v)
	if len(i.Stack) > i.maxDepth {
		i.maxDepth = len(i.Stack)
	}
}

func (i *Interpreter) Pop() (value.Value, error) {
	if len(i.Stack) == 0 {
		return value.Value{}, i.newError("Stack underflow.")
	}
	top := i.Stack[len(i.Stack)-1]
	i.Stack = i.Stack[:len(i.Stack)-1]
	return top, nil
}

func (i *Interpreter) PopAsInt() (int64, error) {
	v, err := i.Pop()
	if err != nil {
		return 0, err
	}
	n, err := v.AsInt()
	if err != nil {
		return 0, i.newError("%s", err)
	}
	return n, nil
}

func (i *Interpreter) PopAsFloat() (float64, error) {
	v, err := i.Pop()
	if err != nil {
		return 0, err
	}
	f, err := v.AsFloat()
	if err != nil {
		return 0, i.newError("%s", err)
	}
	return f, nil
}

func (i *Interpreter) PopAsBool() (bool, error) {
	v, err := i.Pop()
	if err != nil {
		return false, err
	}
	b, err := v.AsBool()
	if err != nil {
		return false, i.newError("%s", err)
	}
	return b, nil
}

func (i *Interpreter) PopAsString() (string, error) {
	v, err := i.Pop()
	if err != nil {
		return "", err
	}
	s, err := v.AsString()
	if err != nil {
		return "", i.newError("%s", err)
	}
	return s, nil
}

func (i *Interpreter) PopAsArray() (*value.Array, error) {
	v, err := i.Pop()
	if err != nil {
		return nil, err
	}
	if v.Kind != value.KindArray {
		return nil, i.newError("Expected an array.")
	}
	return v.Ptr().(*value.Array), nil
}

func (i *Interpreter) PopAsHashMap() (*value.HashMap, error) {
	v, err := i.Pop()
	if err != nil {
		return nil, err
	}
	if v.Kind != value.KindHashMap {
		return nil, i.newError("Expected a hash map.")
	}
	return v.Ptr().(*value.HashMap), nil
}

func (i *Interpreter) PopAsDataObject() (*value.DataObject, error) {
	v, err := i.Pop()
	if err != nil {
		return nil, err
	}
	if v.Kind != value.KindDataObject {
		return nil, i.newError("Expected a data object.")
	}
	return v.Ptr().(*value.DataObject), nil
}

func (i *Interpreter) PopAsByteBuffer() (*value.ByteBuffer, error) {
	v, err := i.Pop()
	if err != nil {
		return nil, err
	}
	if v.Kind != value.KindByteBuffer {
		return nil, i.newError("Expected a byte buffer.")
	}
	return v.Ptr().(*value.ByteBuffer), nil
}

func (i *Interpreter) PopAsCode() (code.Code, error) {
	v, err := i.Pop()
	if err != nil {
		return nil, err
	}
	c, ok := code.AsCode(v)
	if !ok {
		return nil, i.newError("Expected a code block.")
	}
	return c, nil
}

// Pick removes and returns the value `index` slots below the top
// (index 0 is the top itself), shifting everything above it down.
func (i *Interpreter) Pick(index int) (value.Value, error) {
	pos := len(i.Stack) - 1 - index
	if pos < 0 || pos >= len(i.Stack) {
		return value.Value{}, i.newError("Pick index %d out of range.", index)
	}
	v := i.Stack[pos]
	i.Stack = append(i.Stack[:pos], i.Stack[pos+1:]...)
	return v, nil
}

// PushTo pops the top value and reinserts it `index` slots below the
// new top.
func (i *Interpreter) PushTo(index int) error {
	v, err := i.Pop()
	if err != nil {
		return err
	}
	pos := len(i.Stack) - index
	if pos < 0 || pos > len(i.Stack) {
		return i.newError("Push-to index %d out of range.", index)
	}
	i.Stack = append(i.Stack[:pos], append([]value.Value{v}, i.Stack[pos:]...)...)
	return nil
}

// --- search paths / file resolution -----------------------------------

func (i *Interpreter) AddSearchPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return i.newError("Could not append search path %s: %s.", path, err)
	}
	i.SearchPaths = append(i.SearchPaths, path)
	return nil
}

func (i *Interpreter) AddSearchPathForFile(filePath string) error {
	canonical, err := filepath.Abs(filePath)
	if err != nil {
		return i.newError("%s", err)
	}
	dir := filepath.Dir(canonical)
	if _, err := os.Stat(dir); err != nil {
		return i.newError("Path %s does not exist.", dir)
	}
	return i.AddSearchPath(dir)
}

func (i *Interpreter) DropSearchPath() error {
	if len(i.SearchPaths) == 0 {
		return i.newError("Search path stack underflow.")
	}
	i.SearchPaths = i.SearchPaths[:len(i.SearchPaths)-1]
	return nil
}

// FindFile resolves path as-is first, then scans the search-path stack
// most-recently-added first, per spec.md §6.
func (i *Interpreter) FindFile(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", i.newError("%s", err)
		}
		return abs, nil
	}

	for idx := len(i.SearchPaths) - 1; idx >= 0; idx-- {
		candidate := filepath.Join(i.SearchPaths[idx], path)
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", i.newError("%s", err)
			}
			return abs, nil
		}
	}

	return "", i.newError("File %s not found.", path)
}

// --- compilation-context stack -----------------------------------------

func (i *Interpreter) ContextNew(tokens []source.Token) {
	i.Constructors = append(i.Constructors, construct.NewConstructor(tokens))
}

func (i *Interpreter) ContextDrop() error {
	if len(i.Constructors) == 0 {
		return i.newError("Compile context stack underflow.")
	}
	i.Constructors = i.Constructors[:len(i.Constructors)-1]
	return nil
}

func (i *Interpreter) Context() (*construct.Constructor, error) {
	if len(i.Constructors) == 0 {
		return nil, fmt.Errorf("no compile context available")
	}
	return i.Constructors[len(i.Constructors)-1], nil
}

// --- word management ---------------------------------------------------

// AddWord installs a new word: a handler entry in the word-handler
// table, and a WordInfo entry in the dictionary pointing at it.
func (i *Interpreter) AddWord(
	loc source.Location,
	name string,
	handler Handler,
	description, signature string,
	runtime dictionary.Runtime,
	visibility dictionary.Visibility,
	wordType dictionary.Type,
) {
	index := i.WordHandlers.Insert(WordHandlerInfo{Name: name, Location: loc, Handler: handler})

	info := dictionary.NewWordInfo(name, index)
	info.Description = description
	info.Signature = signature
	info.Runtime = runtime
	info.Visibility = visibility
	info.Type = wordType

	i.Dictionary.Insert(info)
}

// Here returns the interpreter's current source location, or a
// placeholder if none is set yet (e.g. during native word
// registration at startup, before any script has been compiled).
func (i *Interpreter) Here() source.Location {
	return i.locationOrZero()
}

func (i *Interpreter) FindWord(name string) (dictionary.WordInfo, bool) {
	return i.Dictionary.Find(name)
}

func (i *Interpreter) WordHandlerInfoAt(index int) (WordHandlerInfo, bool) {
	return i.WordHandlers.Get(index)
}

func (i *Interpreter) CallStackPush(name string, loc source.Location) {
	i.CallStack = append(i.CallStack, CallItem{Name: name, Location: loc})
}

func (i *Interpreter) CallStackPop() error {
	if len(i.CallStack) == 0 {
		return i.newError("Call stack underflow.")
	}
	i.CallStack = i.CallStack[:len(i.CallStack)-1]
	return nil
}

// ExecuteWordHandler invokes a resolved handler directly: it sets the
// current location, pushes a call-stack frame, runs the handler, and
// pops the frame regardless of outcome.
func (i *Interpreter) ExecuteWordHandler(loc *source.Location, info WordHandlerInfo) error {
	i.CurrentLocation = loc

	frameLoc := source.Location{Path: "unspecified", Line: 1, Column: 1}
	if loc != nil {
		frameLoc = *loc
	}
	i.CallStack = append(i.CallStack, CallItem{Name: info.Name, Location: frameLoc})

	err := info.Handler(i)

	i.CallStack = i.CallStack[:len(i.CallStack)-1]
	return err
}

func (i *Interpreter) ExecuteWord(loc *source.Location, word dictionary.WordInfo) error {
	info, ok := i.WordHandlerInfoAt(word.HandlerIndex)
	if !ok {
		return i.newError("Handler for word %s, (%d) not found.", word.Name, word.HandlerIndex)
	}
	return i.ExecuteWordHandler(loc, info)
}

func (i *Interpreter) ExecuteWordNamed(loc *source.Location, name string) error {
	word, ok := i.FindWord(name)
	if !ok {
		return i.newError("Word %s not found.", name)
	}
	return i.ExecuteWord(loc, word)
}

func (i *Interpreter) ExecuteWordIndex(loc *source.Location, index int) error {
	info, ok := i.WordHandlerInfoAt(index)
	if !ok {
		return i.newError("Word handler index %d not found.", index)
	}
	return i.ExecuteWordHandler(loc, info)
}
