// Package ffi implements the foreign-function interface engine of
// spec.md §4.6: a name→TypeInfo registry and the ffi.load/ffi.fn words
// that bind native shared-library symbols as ordinary dictionary
// words.
//
// Grounded on original_source/src/runtime/built_ins/ffi_words.rs's
// FfiInterface/TypeInfo shape, adapted from libffi+libloading to
// github.com/ebitengine/purego — the cgo-free dynamic-loading library
// the wider example pack's game/graphics stack already depends on
// transitively (see DESIGN.md). purego.SyscallN takes and returns
// uintptr-width words, so every TypeInfo here marshals to and from a
// single uintptr slot rather than libffi's arbitrary-width cif
// buffers; this covers every scalar C type spec.md names, at the cost
// of not supporting aggregates (structs) passed by value, which
// neither spec.md nor any scenario in §8 requires.
package ffi

import (
	"math"
	"unsafe"

	"github.com/sorth-lang/sorth/pkg/value"
)

// TypeInfo describes one FFI-visible type: how to marshal a Value into
// a call argument word, how to demarshal a return word back into a
// Value, and the C type's size in bytes (needed only for documentation
// purposes here, since every slot is uintptr-width on the call ABI
// purego exposes).
type TypeInfo struct {
	Name string
	Size int

	// MarshalIn converts a Value to the uintptr word SyscallN expects.
	// For ffi.string it also returns the NUL-terminated byte slice the
	// word points at; the caller keeps it alive until the call returns.
	MarshalIn func(v value.Value) (uintptr, []byte, error)

	// MarshalOut converts a SyscallN return word back to a Value.
	MarshalOut func(r uintptr) value.Value
}

// Registry is a name -> TypeInfo table, seeded with the default
// scalar types and reset alongside the rest of the FFI engine.
type Registry struct {
	types map[string]*TypeInfo
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

func (r *Registry) Reset() {
	r.types = defaultTypes()
}

func (r *Registry) Find(name string) (*TypeInfo, bool) {
	t, ok := r.types[name]
	return t, ok
}

func intMarshalIn() func(value.Value) (uintptr, []byte, error) {
	return func(v value.Value) (uintptr, []byte, error) {
		n, err := v.AsInt()
		if err != nil {
			return 0, nil, err
		}
		return uintptr(n), nil, nil
	}
}

func intMarshalOut(signed bool, bits int) func(uintptr) value.Value {
	return func(r uintptr) value.Value {
		if !signed {
			switch bits {
			case 8:
				return value.NewInt(int64(uint8(r)))
			case 16:
				return value.NewInt(int64(uint16(r)))
			case 32:
				return value.NewInt(int64(uint32(r)))
			default:
				return value.NewInt(int64(uint64(r)))
			}
		}
		switch bits {
		case 8:
			return value.NewInt(int64(int8(r)))
		case 16:
			return value.NewInt(int64(int16(r)))
		case 32:
			return value.NewInt(int64(int32(r)))
		default:
			return value.NewInt(int64(r))
		}
	}
}

func defaultTypes() map[string]*TypeInfo {
	types := map[string]*TypeInfo{
		"ffi.void": {
			Name: "ffi.void", Size: 0,
			MarshalIn:  func(value.Value) (uintptr, []byte, error) { return 0, nil, nil },
			MarshalOut: func(uintptr) value.Value { return value.None() },
		},
		"ffi.bool": {
			Name: "ffi.bool", Size: 1,
			MarshalIn: func(v value.Value) (uintptr, []byte, error) {
				b, err := v.AsBool()
				if err != nil {
					return 0, nil, err
				}
				if b {
					return 1, nil, nil
				}
				return 0, nil, nil
			},
			MarshalOut: func(r uintptr) value.Value { return value.NewBool(r != 0) },
		},
		"ffi.i8":  {Name: "ffi.i8", Size: 1, MarshalIn: intMarshalIn(), MarshalOut: intMarshalOut(true, 8)},
		"ffi.u8":  {Name: "ffi.u8", Size: 1, MarshalIn: intMarshalIn(), MarshalOut: intMarshalOut(false, 8)},
		"ffi.i16": {Name: "ffi.i16", Size: 2, MarshalIn: intMarshalIn(), MarshalOut: intMarshalOut(true, 16)},
		"ffi.u16": {Name: "ffi.u16", Size: 2, MarshalIn: intMarshalIn(), MarshalOut: intMarshalOut(false, 16)},
		"ffi.i32": {Name: "ffi.i32", Size: 4, MarshalIn: intMarshalIn(), MarshalOut: intMarshalOut(true, 32)},
		"ffi.u32": {Name: "ffi.u32", Size: 4, MarshalIn: intMarshalIn(), MarshalOut: intMarshalOut(false, 32)},
		"ffi.i64": {Name: "ffi.i64", Size: 8, MarshalIn: intMarshalIn(), MarshalOut: intMarshalOut(true, 64)},
		"ffi.u64": {Name: "ffi.u64", Size: 8, MarshalIn: intMarshalIn(), MarshalOut: intMarshalOut(false, 64)},
		"ffi.f32": {
			Name: "ffi.f32", Size: 4,
			MarshalIn: func(v value.Value) (uintptr, []byte, error) {
				f, err := v.AsFloat()
				if err != nil {
					return 0, nil, err
				}
				return uintptr(math.Float32bits(float32(f))), nil, nil
			},
			MarshalOut: func(r uintptr) value.Value {
				return value.NewFloat(float64(math.Float32frombits(uint32(r))))
			},
		},
		"ffi.f64": {
			Name: "ffi.f64", Size: 8,
			MarshalIn: func(v value.Value) (uintptr, []byte, error) {
				f, err := v.AsFloat()
				if err != nil {
					return 0, nil, err
				}
				return uintptr(math.Float64bits(f)), nil, nil
			},
			MarshalOut: func(r uintptr) value.Value {
				return value.NewFloat(math.Float64frombits(uint64(r)))
			},
		},
		"ffi.string": {
			Name: "ffi.string", Size: int(unsafe.Sizeof(uintptr(0))),
			MarshalIn: func(v value.Value) (uintptr, []byte, error) {
				s, err := v.AsString()
				if err != nil {
					return 0, nil, err
				}
				buf := make([]byte, len(s)+1)
				copy(buf, s)
				return uintptr(unsafe.Pointer(&buf[0])), buf, nil
			},
			MarshalOut: func(r uintptr) value.Value {
				if r == 0 {
					return value.NewString("")
				}
				return value.NewString(cString(r))
			},
		},
	}
	return types
}

// cString reads a NUL-terminated C string starting at the given
// address, grounded on the conversion_to closure for ffi.string in
// ffi_words.rs (read-until-NUL, lossy UTF-8 conversion).
func cString(addr uintptr) string {
	var out []byte
	for p := addr; ; p++ {
		b := *(*byte)(unsafe.Pointer(p))
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}
