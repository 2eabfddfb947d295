// Package code implements the bytecode data model: the Op enum and the
// Instruction/Code types the compiler emits and the interpreter runs.
package code

import (
	"fmt"
	"strings"

	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/sorth-lang/sorth/pkg/value"
)

// Op is the bytecode opcode, per spec.md §4.3.
type Op int

const (
	DefVariable Op = iota
	DefConstant
	ReadVariable
	WriteVariable
	Execute
	PushConstantValue
	Jump
	JumpIfZero
	JumpIfNotZero
	JumpTarget
	MarkLoopExit
	UnmarkLoopExit
	JumpLoopStart
	JumpLoopExit
	MarkCatch
	UnmarkCatch
	MarkContext
	ReleaseContext
)

func (op Op) String() string {
	switch op {
	case DefVariable:
		return "DefVariable"
	case DefConstant:
		return "DefConstant"
	case ReadVariable:
		return "ReadVariable"
	case WriteVariable:
		return "WriteVariable"
	case Execute:
		return "Execute"
	case PushConstantValue:
		return "PushConstantValue"
	case Jump:
		return "Jump"
	case JumpIfZero:
		return "JumpIfZero"
	case JumpIfNotZero:
		return "JumpIfNotZero"
	case JumpTarget:
		return "JumpTarget"
	case MarkLoopExit:
		return "MarkLoopExit"
	case UnmarkLoopExit:
		return "UnmarkLoopExit"
	case JumpLoopStart:
		return "JumpLoopStart"
	case JumpLoopExit:
		return "JumpLoopExit"
	case MarkCatch:
		return "MarkCatch"
	case UnmarkCatch:
		return "UnmarkCatch"
	case MarkContext:
		return "MarkContext"
	case ReleaseContext:
		return "ReleaseContext"
	default:
		return "Unknown"
	}
}

// Instruction is one bytecode step: an Op plus whatever operand it
// needs, carried as a runtime Value the same way the reference
// implementation's Op variants wrap a Value. Not every op has a
// meaningful operand; those leave Operand as value.None().
//
// Location is optional: only instructions that came from an actual
// source token carry one (§4.5 step 1 uses its presence to decide
// whether to push a call-stack frame for this instruction).
type Instruction struct {
	Op       Op
	Operand  value.Value
	Location *source.Location
}

func NewInstruction(loc *source.Location, op Op, operand value.Value) Instruction {
	return Instruction{Op: op, Operand: operand, Location: loc}
}

// Code is an ordered bytecode block, the unit a first-class
// value.Value of KindCode wraps and the interpreter's execution loop
// runs over.
type Code []Instruction

// NewCode and AsCode bridge package value's Code kind (which stores its
// payload as an opaque any to avoid value <-> code importing each
// other) to the concrete Code type.
func NewCode(c Code) value.Value {
	return value.NewPtr(value.KindCode, c)
}

func AsCode(v value.Value) (Code, bool) {
	if v.Kind != value.KindCode {
		return nil, false
	}
	c, ok := v.Ptr().(Code)
	return c, ok
}

// PrettyPrint renders a Code block as "index: OP operand" lines, for
// the CLI's `compile` subcommand and for test fixtures.
func PrettyPrint(c Code) string {
	var b strings.Builder
	for i, instr := range c {
		fmt.Fprintf(&b, "%4d: %s", i, instr.Op)
		if !instr.Operand.IsNone() {
			fmt.Fprintf(&b, " %s", displayOperand(instr.Op, instr.Operand))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func displayOperand(op Op, v value.Value) string {
	if op == PushConstantValue && v.Kind == value.KindString {
		return v.String()
	}
	return v.String()
}
