// Package construct implements the compiler's per-compilation-unit
// construction stack (spec.md §4.3): the in-progress bytecode bodies
// immediate words manipulate while compiling, plus jump-label
// resolution.
package construct

import (
	"fmt"

	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/sorth-lang/sorth/pkg/value"
)

// Construction is one in-progress bytecode body: either the top-level
// program, or (while an immediate word like `:` is compiling a word
// definition) a new word's body under construction.
type Construction struct {
	Runtime     dictionary.Runtime
	Visibility  dictionary.Visibility
	Name        string
	Location    source.Location
	Description string
	Signature   string
	Code        code.Code
}

func NewConstruction() *Construction {
	return &Construction{}
}

func isJumpOp(op code.Op) bool {
	switch op {
	case code.Jump, code.JumpIfZero, code.JumpIfNotZero, code.MarkLoopExit, code.MarkCatch:
		return true
	default:
		return false
	}
}

// ResolveJumps walks the construction's code once, recording each
// JumpTarget's index by its label, then rewrites every jump-family
// instruction's symbolic label operand into a signed PC-relative
// offset. JumpTarget operands are cleared to None afterward, so a
// second call is a no-op (spec.md §8 idempotence property).
func (c *Construction) ResolveJumps() error {
	targets := map[string]int{}

	for i := range c.Code {
		instr := &c.Code[i]
		if instr.Op == code.JumpTarget {
			label, _ := instr.Operand.AsString()
			targets[label] = i
			instr.Operand = value.None()
		}
	}

	for i := range c.Code {
		instr := &c.Code[i]
		if !isJumpOp(instr.Op) {
			continue
		}
		if instr.Operand.Kind != value.KindString {
			// Already resolved to a relative offset by a prior call.
			continue
		}
		label, err := instr.Operand.AsString()
		if err != nil {
			continue
		}
		target, ok := targets[label]
		if !ok {
			return fmt.Errorf("unresolved jump label %q", label)
		}
		relative := int64(target - i)
		instr.Operand = value.NewInt(relative)
	}

	return nil
}

// InsertionLocation selects whether PushInstruction appends to the end
// of the active construction's code, or inserts at the front (used by
// the code.insert_at_front word to prepend code).
type InsertionLocation int

const (
	AtEnd InsertionLocation = iota
	AtTop
)

// Constructor owns the stack of in-progress Constructions for a single
// compilation call (one token stream). Nested word definitions push a
// new Construction; popping one returns it as data (e.g. to install as
// a word's body, or to wrap as a first-class Code value).
type Constructor struct {
	constructions []*Construction
	insertion     InsertionLocation
	input         []source.Token
	current       int
}

func NewConstructor(tokens []source.Token) *Constructor {
	return &Constructor{
		constructions: []*Construction{NewConstruction()},
		input:         tokens,
	}
}

// NextToken returns the next token in this constructor's input stream,
// or ok=false once exhausted.
func (c *Constructor) NextToken() (source.Token, bool) {
	if c.current >= len(c.input) {
		return source.Token{}, false
	}
	tok := c.input[c.current]
	c.current++
	return tok, true
}

func (c *Constructor) SetInsertion(loc InsertionLocation) { c.insertion = loc }
func (c *Constructor) Insertion() InsertionLocation        { return c.insertion }

// PushConstruction begins a new nested body (e.g. entering `:` ... `;`).
func (c *Constructor) PushConstruction() {
	c.constructions = append(c.constructions, NewConstruction())
}

// PushConstructionWithCode seeds a new nested body with existing code,
// used when an immediate word wants to keep compiling into a block it
// already built (e.g. re-opening a merged sub-block).
func (c *Constructor) PushConstructionWithCode(body code.Code) {
	cons := NewConstruction()
	cons.Code = body
	c.constructions = append(c.constructions, cons)
}

// PopConstruction removes and returns the innermost construction.
func (c *Constructor) PopConstruction() (*Construction, error) {
	if len(c.constructions) == 0 {
		return nil, fmt.Errorf("no construction to pop")
	}
	top := c.constructions[len(c.constructions)-1]
	c.constructions = c.constructions[:len(c.constructions)-1]
	return top, nil
}

// Top returns the innermost construction without popping it.
func (c *Constructor) Top() (*Construction, error) {
	if len(c.constructions) == 0 {
		return nil, fmt.Errorf("accessing an empty construction context")
	}
	return c.constructions[len(c.constructions)-1], nil
}

// MergeConstruction pops the innermost construction and appends its
// code onto the construction now exposed beneath it — used by the
// code.merge_stack_block word to splice a sub-block into the enclosing
// body.
func (c *Constructor) MergeConstruction() error {
	popped, err := c.PopConstruction()
	if err != nil {
		return err
	}
	parent, err := c.Top()
	if err != nil {
		return err
	}
	parent.Code = append(parent.Code, popped.Code...)
	return nil
}

// PushInstruction appends (or prepends, per the insertion mode) an
// instruction to the innermost construction's code.
func (c *Constructor) PushInstruction(instr code.Instruction) error {
	top, err := c.Top()
	if err != nil {
		return err
	}
	if c.insertion == AtEnd {
		top.Code = append(top.Code, instr)
	} else {
		top.Code = append([]code.Instruction{instr}, top.Code...)
	}
	return nil
}

// Depth reports how many nested constructions are open — used by the
// compiler to detect an unbalanced `:`/`;` (or similar) at end of input.
func (c *Constructor) Depth() int { return len(c.constructions) }
