// Package dictionary implements the contextual name->word table
// described in spec.md §3/§4.2: a stack of sub-dictionaries where
// lookup walks top-down and outer scopes stay visible once an inner
// scope is pushed.
//
// Dictionary deliberately knows nothing about how a word's effect is
// implemented — it only stores WordInfo (flags plus a handler index).
// The handler itself (a Go closure over the interpreter) lives in the
// parallel table owned by package interp, per spec.md §3's
// WordInfo/WordHandlerInfo split.
package dictionary

import (
	"fmt"
	"sort"
	"strings"
)

// Runtime selects whether the compiler emits an Execute for a word or
// invokes it immediately at compile time.
type Runtime int

const (
	Normal Runtime = iota
	Immediate
)

// Type distinguishes words realized by a native Go handler from words
// whose body is user-defined script bytecode.
type Type int

const (
	Native Type = iota
	Scripted
)

// Visibility controls whether a word shows up in word listings/`words`.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

// WordInfo is everything the dictionary stores about a word, save for
// its handler (see package interp's WordHandlerInfo).
type WordInfo struct {
	Name         string
	HandlerIndex int
	Runtime      Runtime
	Type         Type
	Visibility   Visibility
	Description  string
	Signature    string
}

func NewWordInfo(name string, handlerIndex int) WordInfo {
	return WordInfo{Name: name, HandlerIndex: handlerIndex}
}

func (w WordInfo) IsImmediate() bool { return w.Runtime == Immediate }
func (w WordInfo) IsScripted() bool  { return w.Type == Scripted }
func (w WordInfo) IsHidden() bool    { return w.Visibility == Hidden }

type subDictionary map[string]WordInfo

// Dictionary is a stack of sub-dictionaries; Insert always targets the
// innermost one, Get/Find search from innermost to outermost.
type Dictionary struct {
	stack []subDictionary
}

func New() *Dictionary {
	d := &Dictionary{}
	d.MarkContext()
	return d
}

func (d *Dictionary) MarkContext() {
	d.stack = append(d.stack, subDictionary{})
}

func (d *Dictionary) ReleaseContext() error {
	if len(d.stack) == 0 {
		return fmt.Errorf("releasing an empty context")
	}
	if len(d.stack) == 1 {
		return fmt.Errorf("releasing last context")
	}
	d.stack = d.stack[:len(d.stack)-1]
	return nil
}

func (d *Dictionary) ContextDepth() int { return len(d.stack) }

// Insert installs or overwrites a word in the innermost scope.
func (d *Dictionary) Insert(info WordInfo) {
	d.stack[len(d.stack)-1][info.Name] = info
}

// Find looks a word up from the innermost scope outward.
func (d *Dictionary) Find(name string) (WordInfo, bool) {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if info, ok := d.stack[i][name]; ok {
			return info, true
		}
	}
	return WordInfo{}, false
}

// merged flattens every scope into one map, innermost scopes winning on
// name collisions — used only for listing/display.
func (d *Dictionary) merged() subDictionary {
	out := subDictionary{}
	for _, sub := range d.stack {
		for name, info := range sub {
			out[name] = info
		}
	}
	return out
}

// String renders the word list the way the reference Dictionary's
// Display impl does: visible-word count, then one line per visible
// word sorted by name.
func (d *Dictionary) String() string {
	merged := d.merged()

	maxSize := 0
	visible := 0
	for name, info := range merged {
		if len(name) > maxSize {
			maxSize = len(name)
		}
		if !info.IsHidden() {
			visible++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d words defined.\n\n", visible)

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		word := merged[name]
		if word.IsHidden() {
			continue
		}

		marker := "           "
		if word.IsImmediate() {
			marker = "  immediate"
		}

		fmt.Fprintf(&b, "%-*s  %-6d%s  --  %s\n", maxSize, name, word.HandlerIndex, marker, word.Description)
	}

	return b.String()
}
