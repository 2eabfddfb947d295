package interp

import (
	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/dictionary"
	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/sorth-lang/sorth/pkg/value"
)

func (i *Interpreter) defineVariable(operand value.Value) error {
	if !operand.IsStringable() {
		return i.newError("Invalid variable name %s.", operand.String())
	}
	name, _ := operand.AsString()
	index := i.Variables.Insert(value.None())

	handler := func(interp *Interpreter) error {
		interp.Push(value.NewInt(int64(index)))
		return nil
	}

	i.AddWord(i.locationOrZero(), name, handler,
		"Access the index for variable "+name+".", " -- variable_index",
		dictionary.Normal, dictionary.Visible, dictionary.Native)
	return nil
}

func (i *Interpreter) defineConstant(operand value.Value) error {
	if !operand.IsStringable() {
		return i.newError("Invalid constant name %s.", operand.String())
	}
	name, _ := operand.AsString()

	constant, err := i.Pop()
	if err != nil {
		return err
	}

	handler := func(interp *Interpreter) error {
		interp.Push(constant.DeepClone())
		return nil
	}

	i.AddWord(i.locationOrZero(), name, handler,
		"Access value for constant "+name+".", " -- constant_value",
		dictionary.Normal, dictionary.Visible, dictionary.Native)
	return nil
}

func (i *Interpreter) locationOrZero() source.Location {
	if i.CurrentLocation != nil {
		return *i.CurrentLocation
	}
	return source.Location{Path: "unspecified", Line: 1, Column: 1}
}

func (i *Interpreter) readVariable() error {
	index, err := i.PopAsInt()
	if err != nil {
		return err
	}
	v, ok := i.Variables.Get(int(index))
	if !ok {
		return i.newError("Read index %d out of range of variable set.", index)
	}
	i.Push(v)
	return nil
}

func (i *Interpreter) writeVariable() error {
	index, err := i.PopAsInt()
	if err != nil {
		return err
	}
	v, err := i.Pop()
	if err != nil {
		return err
	}
	if !i.Variables.Set(int(index), v) {
		return i.newError("Write index %d out of range of variable set.", index)
	}
	return nil
}

// executeValue dispatches Op.Execute's operand: a word name (String or
// a Word token), or a resolved handler index (Int).
func (i *Interpreter) executeValue(operand value.Value) error {
	loc := i.CurrentLocation

	switch operand.Kind {
	case value.KindString:
		s, _ := operand.AsString()
		return i.ExecuteWordNamed(loc, s)

	case value.KindToken:
		tok, _ := operand.Token()
		if tok.Kind != source.TokenWord {
			return i.newError("Token %s is not executable.", tok.Text)
		}
		return i.ExecuteWordNamed(&tok.Location, tok.Text)

	case value.KindInt:
		idx, _ := operand.AsInt()
		return i.ExecuteWordIndex(loc, int(idx))

	default:
		return i.newError("Value %s is not executable.", operand.String())
	}
}

func (i *Interpreter) pushConstantValue(operand value.Value) error {
	i.Push(operand.DeepClone())
	return nil
}

// absoluteIndex resolves a jump-family instruction's signed
// PC-relative offset operand into an absolute bytecode index.
func (i *Interpreter) absoluteIndex(pc int, relative value.Value) (int, error) {
	if !relative.IsNumeric() {
		return 0, i.newError("Invalid loop exit index %s.", relative.String())
	}
	rel, _ := relative.AsInt()
	return pc + int(rel), nil
}

func (i *Interpreter) jumpIfMatch(pc *int, relative value.Value, test bool) error {
	found, err := i.PopAsBool()
	if err != nil {
		return err
	}
	absolute, err := i.absoluteIndex(*pc, relative)
	if err != nil {
		return err
	}
	if found == test {
		*pc = absolute - 1
	}
	return nil
}

type loopFrame struct {
	start, end int
}

// ExecuteCode runs a bytecode block to completion against this
// interpreter's current stacks and contexts, per spec.md §4.5's
// execution loop. name is the frame label pushed onto the call stack
// for instructions that carry a source location.
func (i *Interpreter) ExecuteCode(name string, c code.Code) error {
	contexts := 0
	var loopFrames []loopFrame
	var catchFrames []int

	cleanupContexts := func(reportError bool) error {
		for n := 0; n < contexts; n++ {
			i.ReleaseContext()
		}
		if reportError && contexts > 0 {
			return i.newError("Unbalanced context handling detected.")
		}
		return nil
	}

	pc := 0
	for pc < len(c) {
		instr := c[pc]
		callStackPushed := false

		if instr.Location != nil {
			i.CurrentLocation = instr.Location
			i.CallStackPush(name, *instr.Location)
			callStackPushed = true
		}

		var result error

		switch instr.Op {
		case code.DefVariable:
			result = i.defineVariable(instr.Operand)

		case code.DefConstant:
			result = i.defineConstant(instr.Operand)

		case code.ReadVariable:
			result = i.readVariable()

		case code.WriteVariable:
			result = i.writeVariable()

		case code.Execute:
			result = i.executeValue(instr.Operand)

		case code.PushConstantValue:
			result = i.pushConstantValue(instr.Operand)

		case code.MarkLoopExit:
			if absolute, err := i.absoluteIndex(pc, instr.Operand); err != nil {
				result = err
			} else {
				loopFrames = append(loopFrames, loopFrame{start: pc + 1, end: absolute})
			}

		case code.UnmarkLoopExit:
			if len(loopFrames) == 0 {
				result = i.newError("Unbalanced loop exit marker.")
			} else {
				loopFrames = loopFrames[:len(loopFrames)-1]
			}

		case code.MarkCatch:
			if absolute, err := i.absoluteIndex(pc, instr.Operand); err != nil {
				result = err
			} else {
				catchFrames = append(catchFrames, absolute)
			}

		case code.UnmarkCatch:
			if len(catchFrames) == 0 {
				result = i.newError("Unbalanced catch exit marker.")
			} else {
				catchFrames = catchFrames[:len(catchFrames)-1]
			}

		case code.MarkContext:
			i.MarkContext()
			contexts++

		case code.ReleaseContext:
			if contexts == 0 {
				result = i.newError("Unbalanced context release detected.")
			} else {
				i.ReleaseContext()
				contexts--
			}

		case code.Jump:
			if absolute, err := i.absoluteIndex(pc, instr.Operand); err != nil {
				result = err
			} else {
				pc = absolute - 1
			}

		case code.JumpIfZero:
			result = i.jumpIfMatch(&pc, instr.Operand, false)

		case code.JumpIfNotZero:
			result = i.jumpIfMatch(&pc, instr.Operand, true)

		case code.JumpLoopStart:
			if len(loopFrames) == 0 {
				result = i.newError("JumpLoopStart outside of loop.")
			} else {
				pc = loopFrames[len(loopFrames)-1].start - 1
			}

		case code.JumpLoopExit:
			if len(loopFrames) == 0 {
				result = i.newError("JumpLoopExit outside of loop.")
			} else {
				pc = loopFrames[len(loopFrames)-1].end - 1
			}

		case code.JumpTarget:
			// Landing pad only; nothing to execute.
		}

		if result != nil {
			if len(catchFrames) > 0 {
				catchIndex := catchFrames[len(catchFrames)-1]
				catchFrames = catchFrames[:len(catchFrames)-1]
				pc = catchIndex - 1
				i.Push(value.NewString(result.Error()))
			} else {
				if callStackPushed {
					_ = i.CallStackPop()
				}
				_ = cleanupContexts(false)
				return result
			}
		} else if callStackPushed {
			if err := i.CallStackPop(); err != nil {
				return err
			}
		}

		pc++
	}

	return cleanupContexts(true)
}
