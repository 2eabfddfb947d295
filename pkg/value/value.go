// Package value implements the tagged runtime value model: the single
// Value type every stack slot, variable, and array/hash element holds.
package value

import (
	"fmt"
	"math"

	"github.com/sorth-lang/sorth/pkg/source"
)

// Kind tags which variant of Value is live.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindHashMap
	KindDataObject
	KindByteBuffer
	KindCode
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindHashMap:
		return "hash-table"
	case KindDataObject:
		return "data-object"
	case KindByteBuffer:
		return "byte-buffer"
	case KindCode:
		return "code"
	case KindToken:
		return "token"
	default:
		return "unknown"
	}
}

// Value is a closed tagged union. Scalars are stored inline; the Array,
// HashMap, DataObject, ByteBuffer, and Code kinds carry a pointer-ish
// payload in ptr so that copies of Value alias the same underlying
// container, the way rsorth's Rc<RefCell<...>> containers do.
//
// Code is kept out of this package's own field set on purpose: package
// code depends on package value (an Instruction's constant operand is a
// Value), so Value cannot name code.Code without an import cycle. Instead
// the Code kind stores its payload through ptr as an opaque any, and
// package code provides NewCode/AsCode to wrap and unwrap it.
type Value struct {
	Kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	tok  source.Token
	ptr  any
}

func None() Value { return Value{Kind: KindNone} }

func NewBool(b bool) Value { return Value{Kind: KindBool, b: b} }

func NewInt(i int64) Value { return Value{Kind: KindInt, i: i} }

func NewFloat(f float64) Value { return Value{Kind: KindFloat, f: f} }

func NewString(s string) Value { return Value{Kind: KindString, s: s} }

// NewToken wraps a raw compile-time Token as a first-class Value; the
// compiler uses it for the operand of a Number literal. Word and String tokens
// are stringable; Number tokens behave like their underlying Int/Float
// for numeric coercions (spec.md §3 invariant (b), §4.5 coercions).
func NewToken(t source.Token) Value { return Value{Kind: KindToken, tok: t} }

func (v Value) Token() (source.Token, bool) {
	if v.Kind != KindToken {
		return source.Token{}, false
	}
	return v.tok, true
}

// NewPtr constructs a Value of a pointer-backed kind. Used directly by
// this package for Array/HashMap/DataObject/ByteBuffer, and by package
// code for Code.
func NewPtr(kind Kind, ptr any) Value { return Value{Kind: kind, ptr: ptr} }

func (v Value) Ptr() any { return v.ptr }

func (v Value) IsNone() bool { return v.Kind == KindNone }

// IsNumeric reports whether the value is an Int/Float, or a Number
// token captured at compile time (tokens are interchangeable with
// their decoded value for numeric purposes).
func (v Value) IsNumeric() bool {
	if v.Kind == KindInt || v.Kind == KindFloat {
		return true
	}
	return v.Kind == KindToken && v.tok.Kind == source.TokenNumber
}

// IsStringable reports whether the value can be coerced to a display
// string without error: numbers, bools and strings qualify, as do Word
// and String tokens (spec.md §3 invariant (b)); containers do not
// (their Display form is for tracing, not coercion).
func (v Value) IsStringable() bool {
	switch v.Kind {
	case KindString, KindInt, KindFloat, KindBool:
		return true
	case KindToken:
		return v.tok.Kind == source.TokenWord || v.tok.Kind == source.TokenString
	default:
		return false
	}
}

func (v Value) AsBool() (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i != 0, nil
	case KindFloat:
		return v.f != 0, nil
	case KindNone:
		return false, nil
	case KindString:
		return v.s != "", nil
	default:
		return false, fmt.Errorf("expected a boolean, found %s", v.Kind)
	}
}

func (v Value) AsInt() (int64, error) {
	switch v.Kind {
	case KindInt:
		return v.i, nil
	case KindFloat:
		return int64(v.f), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindToken:
		if v.tok.Kind == source.TokenNumber {
			if v.tok.IsFloat {
				return int64(v.tok.Float), nil
			}
			return v.tok.Int, nil
		}
		return 0, fmt.Errorf("expected a number, found %s", v.Kind)
	default:
		return 0, fmt.Errorf("expected a number, found %s", v.Kind)
	}
}

func (v Value) AsFloat() (float64, error) {
	switch v.Kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindToken:
		if v.tok.Kind == source.TokenNumber {
			if v.tok.IsFloat {
				return v.tok.Float, nil
			}
			return float64(v.tok.Int), nil
		}
		return 0, fmt.Errorf("expected a number, found %s", v.Kind)
	default:
		return 0, fmt.Errorf("expected a number, found %s", v.Kind)
	}
}

// AsString coerces stringable values to their display text; it does not
// accept containers. Word and String tokens decode to their raw text
// (not a quoted/escaped display form); None decodes to the empty
// string, per spec.md §4.5 pop_as_string.
func (v Value) AsString() (string, error) {
	switch v.Kind {
	case KindString:
		return v.s, nil
	case KindNone:
		return "", nil
	case KindInt, KindFloat, KindBool:
		return v.String(), nil
	case KindToken:
		if v.tok.Kind == source.TokenWord || v.tok.Kind == source.TokenString {
			return v.tok.Text, nil
		}
		return "", fmt.Errorf("expected a string, found %s", v.Kind)
	default:
		return "", fmt.Errorf("expected a string, found %s", v.Kind)
	}
}

// RawString returns the underlying string field without coercion; callers
// must have already checked Kind == KindString.
func (v Value) RawString() string { return v.s }

// Numeric widening equality: Int and Float compare by numeric value, all
// other kinds require identical Kind. Containers compare structurally by
// delegating to their own equality (not identity).
func (v Value) Equals(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		af, _ := v.AsFloat()
		bf, _ := o.AsFloat()
		return af == bf
	}

	if v.Kind != o.Kind {
		return false
	}

	switch v.Kind {
	case KindNone:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindArray:
		return v.ptr.(*Array).Equals(o.ptr.(*Array))
	case KindHashMap:
		return v.ptr.(*HashMap).Equals(o.ptr.(*HashMap))
	case KindDataObject:
		return v.ptr.(*DataObject).Equals(o.ptr.(*DataObject))
	case KindByteBuffer:
		return v.ptr.(*ByteBuffer).Equals(o.ptr.(*ByteBuffer))
	case KindToken:
		return v.tok.Equal(o.tok)
	default:
		// Code values never compare equal, not even a block compared
		// with itself.
		return false
	}
}

// String renders the value's display form. HashMap also uses it as its
// bucket key, so keys hash by display form rather than through Hash.
func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		if math.IsInf(v.f, 1) {
			return "inf"
		}
		if math.IsInf(v.f, -1) {
			return "-inf"
		}
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return stringify(v.s)
	case KindArray:
		return v.ptr.(*Array).Display()
	case KindHashMap:
		return v.ptr.(*HashMap).Display()
	case KindDataObject:
		return v.ptr.(*DataObject).Display()
	case KindByteBuffer:
		return v.ptr.(*ByteBuffer).Display()
	case KindCode:
		return "<code>"
	case KindToken:
		return v.tok.Text
	default:
		return "<unknown>"
	}
}

// Hash returns a 64-bit hash consistent with Equals: numeric values
// widen to a shared float bit-pattern (so Int(1), Float(1.0), and
// Bool(true) all hash equal), and Float hashes by raw bit pattern so
// that NaN never equals itself but identical bit patterns collide, per
// spec.md §3 invariant (d).
func (v Value) Hash() uint64 {
	if v.IsNumeric() || v.Kind == KindBool {
		f, _ := v.AsFloat()
		return fnvCombine(fnvHash(uint64(KindFloat)), math.Float64bits(f))
	}

	h := fnvHash(uint64(v.Kind))

	switch v.Kind {
	case KindNone:
		return h
	case KindString:
		return fnvCombine(h, fnvString(v.s))
	case KindToken:
		return fnvCombine(h, fnvString(v.tok.Text))
	default:
		// Containers and Code hash by display form; they are mutable so a
		// structural hash would go stale, and these kinds are rarely used
		// as hash-map keys.
		return fnvCombine(h, fnvString(v.String()))
	}
}

func fnvHash(seed uint64) uint64 {
	const offset uint64 = 14695981039346656037
	return fnvCombine(offset, seed)
}

func fnvCombine(h, x uint64) uint64 {
	const prime uint64 = 1099511628211
	for shift := 0; shift < 64; shift += 8 {
		h ^= (x >> shift) & 0xff
		h *= prime
	}
	return h
}

func fnvString(s string) uint64 {
	const offset uint64 = 14695981039346656037
	const prime uint64 = 1099511628211
	h := offset
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

// stringify escapes a raw string the way the interpreter prints a
// KindString value back out: backslash, quote, newline, tab and NUL are
// escaped, everything else passes through verbatim.
func stringify(raw string) string {
	out := make([]byte, 0, len(raw)+2)
	out = append(out, '"')
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '\\':
			out = append(out, '\\', '\\')
		case '"':
			out = append(out, '\\', '"')
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		case 0:
			out = append(out, '\\', '0')
		default:
			out = append(out, c)
		}
	}
	out = append(out, '"')
	return string(out)
}

// DeepClone produces an independent copy: scalars copy trivially, the
// pointer-backed kinds recursively clone their payload so mutating the
// clone never affects the original. This is the Go counterpart of
// rsorth's explicit DeepClone trait, kept as a distinct operation from a
// plain Go value copy (which would alias the container).
func (v Value) DeepClone() Value {
	switch v.Kind {
	case KindArray:
		return NewPtr(KindArray, v.ptr.(*Array).Clone())
	case KindHashMap:
		return NewPtr(KindHashMap, v.ptr.(*HashMap).Clone())
	case KindDataObject:
		return NewPtr(KindDataObject, v.ptr.(*DataObject).Clone())
	case KindByteBuffer:
		return NewPtr(KindByteBuffer, v.ptr.(*ByteBuffer).Clone())
	default:
		return v
	}
}
