// Package value implements the runtime value representation the
// evaluator pushes, stores in frames, and prints.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rickyang/rick/internal/types"
)

// Kind tags a Value's variant.
type Kind int

const (
	NoneKind Kind = iota
	IntegerKind
	FloatKind
	BooleanKind
	StringKind
	ArrayKind
)

// Value is the runtime value variant: Integer | Float | Boolean |
// String | Array | None. None is the uninitialized-slot filler.
type Value struct {
	kind Kind
	i    int32
	f    float32
	b    bool
	s    string
	arr  []Value
}

// None is the uninitialized-slot filler value.
var None = Value{kind: NoneKind}

// Integer builds an Integer value.
func Integer(i int32) Value { return Value{kind: IntegerKind, i: i} }

// Float builds a Float value.
func Float(f float32) Value { return Value{kind: FloatKind, f: f} }

// Boolean builds a Boolean value.
func Boolean(b bool) Value { return Value{kind: BooleanKind, b: b} }

// String builds a String value.
func String(s string) Value { return Value{kind: StringKind, s: s} }

// Array builds an Array value from n None elements.
func Array(n int32) Value {
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = None
	}
	return Value{kind: ArrayKind, arr: elems}
}

// ArrayOf wraps an existing slice of elements as an Array value,
// e.g. for seeding argv as Array(String).
func ArrayOf(elems []Value) Value { return Value{kind: ArrayKind, arr: elems} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Int() int32     { return v.i }
func (v Value) Float32() float32 { return v.f }
func (v Value) Bool() bool     { return v.b }
func (v Value) Str() string    { return v.s }

// Elem returns element i of an Array value.
func (v Value) Elem(i int32) Value { return v.arr[i] }

// SetElem mutates element i of an Array value in place. Safe only on a
// Value this binding owns outright: every Array crosses a binding
// boundary through Clone first, so no two slots ever share a backing
// array.
func (v Value) SetElem(i int32, elem Value) { v.arr[i] = elem }

// Clone returns a deep copy of v: scalars are copied by value already,
// and an Array gets a fresh backing slice with each element cloned in
// turn. Every read that hands a Value to a new binding — a variable
// read, an argument passed into a call, an assignment — must go through
// Clone so arrays are duplicated on use rather than aliased, matching
// spec.md §1's Non-Goals ("no garbage collector: all values are
// trees/arrays duplicated on use").
func (v Value) Clone() Value {
	if v.kind != ArrayKind {
		return v
	}
	elems := make([]Value, len(v.arr))
	for i, e := range v.arr {
		elems[i] = e.Clone()
	}
	return Value{kind: ArrayKind, arr: elems}
}

// Len returns the number of elements in an Array value.
func (v Value) Len() int32 { return int32(len(v.arr)) }

// TypeCode returns the bitset type code of this value's shape. None has
// no observable type code and is never reachable from a well-typed
// program's expressions; callers that need it return types.None.
func (v Value) TypeCode() types.Code {
	switch v.kind {
	case IntegerKind:
		return types.IntegerBit
	case FloatKind:
		return types.FloatBit
	case BooleanKind:
		return types.BooleanBit
	case StringKind:
		return types.StringBit
	case ArrayKind:
		if len(v.arr) > 0 {
			return v.arr[0].TypeCode() | types.ArrayBit
		}
		return types.ArrayBit
	}
	return types.None
}

// String renders the value's Display-form, exactly what `print` writes
// to stdout: no quoting for strings, Go's default float/int formatting
// otherwise.
func (v Value) String() string {
	switch v.kind {
	case IntegerKind:
		return strconv.FormatInt(int64(v.i), 10)
	case FloatKind:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case BooleanKind:
		if v.b {
			return "true"
		}
		return "false"
	case StringKind:
		return v.s
	case ArrayKind:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// Truthy implements spec.md §4.4's truthiness contract: Boolean yields
// its payload; numerics are runtime-tolerated as != 0 even though the
// type checker never admits them into a condition.
func (v Value) Truthy() bool {
	switch v.kind {
	case BooleanKind:
		return v.b
	case IntegerKind:
		return v.i != 0
	case FloatKind:
		return v.f != 0
	default:
		return false
	}
}

// ParseInto coerces a line of input text (as read by the `read`
// primitive) into a Value of the given scalar type. err is non-nil on
// coercion failure, which the evaluator reports as a fatal runtime
// fault.
func ParseInto(text string, scalar types.Code) (Value, error) {
	switch scalar {
	case types.BooleanBit:
		switch text {
		case "true":
			return Boolean(true), nil
		case "false":
			return Boolean(false), nil
		default:
			return None, fmt.Errorf("cannot parse %q as boolean", text)
		}
	case types.IntegerBit:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return None, fmt.Errorf("cannot parse %q as integer: %w", text, err)
		}
		return Integer(int32(n)), nil
	case types.FloatBit:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return None, fmt.Errorf("cannot parse %q as float: %w", text, err)
		}
		return Float(float32(f)), nil
	case types.StringBit:
		return String(text), nil
	default:
		return None, fmt.Errorf("cannot read into non-scalar type %s", scalar)
	}
}
