package builtins

import (
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/sorth-lang/sorth/pkg/source"
	"github.com/sorth-lang/sorth/pkg/value"
)

func eitherIsString(a, b value.Value) bool {
	return a.Kind == value.KindString || b.Kind == value.KindString
}

func eitherIsFloat(a, b value.Value) bool {
	isFloat := func(v value.Value) bool {
		if v.Kind == value.KindFloat {
			return true
		}
		tok, ok := v.Token()
		return ok && tok.Kind == source.TokenNumber && tok.IsFloat
	}
	return isFloat(a) || isFloat(b)
}

// add implements spec.md §4.5's polymorphic `+`: string concatenation
// if either operand is stringable (and the pair isn't purely numeric),
// else float math if either is Float, else int math.
func add(i *interp.Interpreter, a, b value.Value) error {
	if eitherIsString(a, b) {
		as, err := a.AsString()
		if err != nil {
			return i.Errorf("Value incompatible with numeric op.")
		}
		bs, err := b.AsString()
		if err != nil {
			return i.Errorf("Value incompatible with numeric op.")
		}
		i.Push(value.NewString(as + bs))
		return nil
	}

	if eitherIsFloat(a, b) {
		af, erra := a.AsFloat()
		bf, errb := b.AsFloat()
		if erra != nil || errb != nil {
			return i.Errorf("Value incompatible with numeric op.")
		}
		i.Push(value.NewFloat(af + bf))
		return nil
	}

	ai, erra := a.AsInt()
	bi, errb := b.AsInt()
	if erra != nil || errb != nil {
		return i.Errorf("Value incompatible with numeric op.")
	}
	i.Push(value.NewInt(ai + bi))
	return nil
}

// mathOp implements the non-`+` numeric binary ops: Float math if
// either operand is Float, else Int math. iop reports an error instead
// of panicking so callers like `/` and `%` can reject a zero divisor
// as a catchable interpreter error rather than crashing the process.
func mathOp(i *interp.Interpreter, fop func(a, b float64) float64, iop func(a, b int64) (int64, error)) error {
	b, err := i.Pop()
	if err != nil {
		return err
	}
	a, err := i.Pop()
	if err != nil {
		return err
	}

	if eitherIsFloat(a, b) {
		af, erra := a.AsFloat()
		bf, errb := b.AsFloat()
		if erra != nil || errb != nil {
			return i.Errorf("Value incompatible with numeric op.")
		}
		i.Push(value.NewFloat(fop(af, bf)))
		return nil
	}

	ai, erra := a.AsInt()
	bi, errb := b.AsInt()
	if erra != nil || errb != nil {
		return i.Errorf("Value incompatible with numeric op.")
	}
	result, err := iop(ai, bi)
	if err != nil {
		return err
	}
	i.Push(value.NewInt(result))
	return nil
}

func logicBitOp(i *interp.Interpreter, bop func(a, b int64) int64) error {
	b, err := i.Pop()
	if err != nil {
		return err
	}
	a, err := i.Pop()
	if err != nil {
		return err
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return i.Errorf("Both bit logic operation values must be numeric.")
	}
	ai, _ := a.AsInt()
	bi, _ := b.AsInt()
	i.Push(value.NewInt(bop(ai, bi)))
	return nil
}

// compareOrdered implements the ordering comparisons (<, <=, >, >=):
// numeric widening if both operands are numeric, else lexical string
// comparison, per spec.md §4.5.
func compareOrdered(i *interp.Interpreter) (int, error) {
	b, err := i.Pop()
	if err != nil {
		return 0, err
	}
	a, err := i.Pop()
	if err != nil {
		return 0, err
	}

	if a.IsNumeric() && b.IsNumeric() {
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}

	as, erra := a.AsString()
	bs, errb := b.AsString()
	if erra != nil || errb != nil {
		return 0, i.Errorf("Value incompatible with comparison op.")
	}
	switch {
	case as < bs:
		return -1, nil
	case as > bs:
		return 1, nil
	default:
		return 0, nil
	}
}

// RegisterMathLogicAndBitWords installs arithmetic, logical, bitwise,
// and comparison words, grounded on base_words/math_logic_and_bit_words.rs.
func RegisterMathLogicAndBitWords(i *interp.Interpreter) {
	word(i, "+", "Add 2 numbers or strings together.", "a b -- result",
		func(i *interp.Interpreter) error {
			b, err := i.Pop()
			if err != nil {
				return err
			}
			a, err := i.Pop()
			if err != nil {
				return err
			}
			return add(i, a, b)
		})

	word(i, "-", "Subtract 2 numbers.", "a b -- result",
		func(i *interp.Interpreter) error {
			return mathOp(i, func(a, b float64) float64 { return a - b },
				func(a, b int64) (int64, error) { return a - b, nil })
		})

	word(i, "*", "Multiply 2 numbers.", "a b -- result",
		func(i *interp.Interpreter) error {
			return mathOp(i, func(a, b float64) float64 { return a * b },
				func(a, b int64) (int64, error) { return a * b, nil })
		})

	word(i, "/", "Divide 2 numbers.", "a b -- result",
		func(i *interp.Interpreter) error {
			return mathOp(i, func(a, b float64) float64 { return a / b },
				func(a, b int64) (int64, error) {
					if b == 0 {
						return 0, i.Errorf("Division by zero.")
					}
					return a / b, nil
				})
		})

	word(i, "%", "Mod 2 numbers.", "a b -- result",
		func(i *interp.Interpreter) error {
			return mathOp(i, func(a, b float64) float64 { return mod(a, b) },
				func(a, b int64) (int64, error) {
					if b == 0 {
						return 0, i.Errorf("Division by zero.")
					}
					return a % b, nil
				})
		})

	word(i, "&&", "Logically compare 2 values.", "a b -- bool",
		func(i *interp.Interpreter) error {
			b, err := i.PopAsBool()
			if err != nil {
				return err
			}
			a, err := i.PopAsBool()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(a && b))
			return nil
		})

	word(i, "||", "Logically compare 2 values.", "a b -- bool",
		func(i *interp.Interpreter) error {
			b, err := i.PopAsBool()
			if err != nil {
				return err
			}
			a, err := i.PopAsBool()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(a || b))
			return nil
		})

	word(i, "'", "Logically invert a boolean value.", "bool -- bool",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsBool()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(!a))
			return nil
		})

	word(i, "&", "Bitwise AND two numbers together.", "a b -- result",
		func(i *interp.Interpreter) error { return logicBitOp(i, func(a, b int64) int64 { return a & b }) })

	word(i, "|", "Bitwise OR two numbers together.", "a b -- result",
		func(i *interp.Interpreter) error { return logicBitOp(i, func(a, b int64) int64 { return a | b }) })

	word(i, "^", "Bitwise XOR two numbers together.", "a b -- result",
		func(i *interp.Interpreter) error { return logicBitOp(i, func(a, b int64) int64 { return a ^ b }) })

	word(i, "~", "Bitwise NOT a number.", "number -- result",
		func(i *interp.Interpreter) error {
			a, err := i.PopAsInt()
			if err != nil {
				return err
			}
			i.Push(value.NewInt(^a))
			return nil
		})

	word(i, "<<", "Shift a numbers bits to the left.", "value amount -- result",
		func(i *interp.Interpreter) error { return logicBitOp(i, func(a, b int64) int64 { return a << uint(b) }) })

	word(i, ">>", "Shift a numbers bits to the right.", "value amount -- result",
		func(i *interp.Interpreter) error { return logicBitOp(i, func(a, b int64) int64 { return a >> uint(b) }) })

	word(i, "=", "Are 2 values equal?", "a b -- bool",
		func(i *interp.Interpreter) error {
			b, err := i.Pop()
			if err != nil {
				return err
			}
			a, err := i.Pop()
			if err != nil {
				return err
			}
			i.Push(value.NewBool(a.Equals(b)))
			return nil
		})

	word(i, ">=", "Is one value greater or equal to another?", "a b -- bool",
		func(i *interp.Interpreter) error {
			c, err := compareOrdered(i)
			if err != nil {
				return err
			}
			i.Push(value.NewBool(c >= 0))
			return nil
		})

	word(i, "<=", "Is one value less than or equal to another?", "a b -- bool",
		func(i *interp.Interpreter) error {
			c, err := compareOrdered(i)
			if err != nil {
				return err
			}
			i.Push(value.NewBool(c <= 0))
			return nil
		})

	word(i, ">", "Is one value greater than another?", "a b -- bool",
		func(i *interp.Interpreter) error {
			c, err := compareOrdered(i)
			if err != nil {
				return err
			}
			i.Push(value.NewBool(c > 0))
			return nil
		})

	word(i, "<", "Is one value less than another?", "a b -- bool",
		func(i *interp.Interpreter) error {
			c, err := compareOrdered(i)
			if err != nil {
				return err
			}
			i.Push(value.NewBool(c < 0))
			return nil
		})
}

func mod(a, b float64) float64 {
	result := a - b*float64(int64(a/b))
	return result
}
