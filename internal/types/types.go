// Package types implements the source language's type bitset and the
// per-name Properties records the parser attaches to functions and
// locals.
package types

import "strings"

// Code is a small bitset type code. A value type is exactly one scalar
// bit optionally or-ed with Array. A callable descriptor or-s Func with
// the scalar return bits (and Array if it returns an array); a
// procedure is bare Func.
type Code uint8

const None Code = 0

// Bit assignment per spec.md §3, kept as literal constants rather than
// iota shifting so the values match the bitset contract exactly.
const (
	BooleanBit Code = 1
	IntegerBit Code = 2
	FloatBit   Code = 4
	StringBit  Code = 8
	ArrayBit   Code = 16
	FuncBit    Code = 32

	scalarMask = BooleanBit | IntegerBit | FloatBit | StringBit
)

// Has reports whether c has every bit in mask set.
func (c Code) Has(mask Code) bool { return c&mask == mask }

// Scalar strips the Array and Func bits, returning the underlying
// scalar kind.
func (c Code) Scalar() Code { return c & scalarMask }

// IsArray reports whether c carries the Array bit.
func (c Code) IsArray() bool { return c.Has(ArrayBit) }

// IsFunc reports whether c carries the Func bit.
func (c Code) IsFunc() bool { return c.Has(FuncBit) }

// WithoutArray clears the Array bit — used when indexing strips one
// array dimension, and when evaluating a `let x[i] = ...` target type.
func (c Code) WithoutArray() Code { return c &^ ArrayBit }

// WithoutFunc clears the Func bit — used when a Call node's result type
// is derived from its callee's descriptor.
func (c Code) WithoutFunc() Code { return c &^ FuncBit }

// IsNumeric reports whether c's scalar kind is Integer or Float, with
// no Array/Func bits set.
func (c Code) IsNumeric() bool {
	return c == IntegerBit || c == FloatBit
}

// String renders a Code for diagnostics, e.g. "integer array" or
// "func boolean". Parameter types are not part of a Code and are not
// rendered.
func (c Code) String() string {
	if c == None {
		return "none"
	}
	var parts []string
	if c.IsFunc() {
		parts = append(parts, "func")
		c = c.WithoutFunc()
	}
	switch c.Scalar() {
	case BooleanBit:
		parts = append(parts, "boolean")
	case IntegerBit:
		parts = append(parts, "integer")
	case FloatBit:
		parts = append(parts, "float")
	case StringBit:
		parts = append(parts, "string")
	}
	if c.Has(ArrayBit) {
		parts = append(parts, "array")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Param is one formal parameter: its declared name and type.
type Param struct {
	Name string
	Type Code
}

// Properties is the per-name record shared by symboltable (functions)
// and local_table (locals/params) entries.
//
// For functions: Offset is unset (-1), Params lists formals in order.
// For locals: Offset is the slot index in the current frame; Params is
// nil.
type Properties struct {
	Type   Code
	Offset int // -1 when not applicable (functions)
	Params []Param
}

// NoOffset marks a Properties record that has no frame slot (functions).
const NoOffset = -1

// SymbolTable is the global, function-only name space. It is populated
// entirely by the parser's pass 1 and is read-only during pass 2.
type SymbolTable struct {
	funcs map[string]Properties
	order []string
}

// NewSymbolTable returns an empty global function table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{funcs: make(map[string]Properties)}
}

// Define inserts name's Properties, returning false if name is already
// defined (duplicate function definition).
func (t *SymbolTable) Define(name string, p Properties) bool {
	if _, exists := t.funcs[name]; exists {
		return false
	}
	t.funcs[name] = p
	t.order = append(t.order, name)
	return true
}

// Lookup returns name's Properties and whether it was found.
func (t *SymbolTable) Lookup(name string) (Properties, bool) {
	p, ok := t.funcs[name]
	return p, ok
}

// Names returns every defined function name, in declaration order. Used
// for fuzzy "did you mean" suggestions on unresolved calls.
func (t *SymbolTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// LocalTable is a single function's local name space: parameters plus
// `var`-declared locals, each bound to a monotonically increasing frame
// offset. Block exit truncates it back to a saved length to enforce
// lexical scoping.
type LocalTable struct {
	entries []localEntry
}

type localEntry struct {
	name string
	Properties
}

// NewLocalTable returns an empty local table.
func NewLocalTable() *LocalTable { return &LocalTable{} }

// Reset clears the table — called at each function entry.
func (t *LocalTable) Reset() { t.entries = t.entries[:0] }

// Len returns the current number of bound names — used to snapshot the
// table before a block and truncate after it.
func (t *LocalTable) Len() int { return len(t.entries) }

// Truncate drops every entry bound after snapshot n, implementing block
// scoping. Offsets already handed out to evaluated nodes remain valid
// for the lifetime of the frame; Truncate only narrows what later
// lookups in the same lexical region can see.
func (t *LocalTable) Truncate(n int) { t.entries = t.entries[:n] }

// Bind inserts name at the next offset with the given type and returns
// that offset. Returns false (and no insertion) if name is already
// bound in the current lexical region.
func (t *LocalTable) Bind(name string, typ Code) (int, bool) {
	if _, ok := t.lookup(name); ok {
		return 0, false
	}
	offset := len(t.entries)
	t.entries = append(t.entries, localEntry{name: name, Properties: Properties{Type: typ, Offset: offset}})
	return offset, true
}

func (t *LocalTable) lookup(name string) (Properties, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].name == name {
			return t.entries[i].Properties, true
		}
	}
	return Properties{}, false
}

// Lookup returns name's Properties and whether it is currently bound.
func (t *LocalTable) Lookup(name string) (Properties, bool) { return t.lookup(name) }

// Names returns every name currently bound, most-recently-bound first —
// used for fuzzy "did you mean" suggestions on unresolved identifiers.
func (t *LocalTable) Names() []string {
	out := make([]string, 0, len(t.entries))
	for i := len(t.entries) - 1; i >= 0; i-- {
		out = append(out, t.entries[i].name)
	}
	return out
}
