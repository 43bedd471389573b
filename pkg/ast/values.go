package ast

import (
	"slices"
	"strconv"
	"strings"
)

// Value is a value expression. The set of implementations is closed:
// IntValue, BoolValue, StringValue, PointerValue, TupleValue and SetValue.
type Value interface {
	Kind() Kind
	// String renders the value in the flattened form used by exporters.
	String() string
	isValue()
}

// IntValue is a signed or unsigned 64-bit integer literal.
type IntValue struct {
	signed bool
	bits   uint64
}

// BoolValue is a boolean literal.
type BoolValue struct{ v bool }

// StringValue is a string literal.
type StringValue struct{ v string }

// PointerValue references a value registered under the pointer type's target
// tag.
type PointerValue struct{ target Value }

// TupleValue is an ordered sequence of values.
type TupleValue struct{ elems []Value }

// SetValue is a duplicate-free collection of values, kept sorted by
// [Compare].
type SetValue struct{ elems []Value }

// Int returns a signed integer value.
func Int(n int64) IntValue { return IntValue{signed: true, bits: uint64(n)} }

// Uint returns an unsigned integer value.
func Uint(n uint64) IntValue { return IntValue{bits: n} }

// Bool returns a boolean value.
func Bool(b bool) BoolValue { return BoolValue{v: b} }

// String returns a string value.
func String(s string) StringValue { return StringValue{v: s} }

// Pointer returns a pointer to target.
func Pointer(target Value) PointerValue { return PointerValue{target: target} }

// Tuple returns a tuple of the given values. The argument slice is copied.
func Tuple(elems ...Value) TupleValue { return TupleValue{elems: slices.Clone(elems)} }

// Set returns a set of the given values, sorted by [Compare] with duplicates
// removed.
func Set(elems ...Value) SetValue {
	sorted := slices.Clone(elems)
	slices.SortFunc(sorted, Compare)
	sorted = slices.CompactFunc(sorted, Equal)
	return SetValue{elems: sorted}
}

func (IntValue) Kind() Kind     { return KindInt }
func (BoolValue) Kind() Kind    { return KindBool }
func (StringValue) Kind() Kind  { return KindString }
func (PointerValue) Kind() Kind { return KindPointer }
func (TupleValue) Kind() Kind   { return KindTuple }
func (SetValue) Kind() Kind     { return KindSet }

func (IntValue) isValue()     {}
func (BoolValue) isValue()    {}
func (StringValue) isValue()  {}
func (PointerValue) isValue() {}
func (TupleValue) isValue()   {}
func (SetValue) isValue()     {}

// Signed reports whether the integer is signed.
func (v IntValue) Signed() bool { return v.signed }

// Int64 returns the integer as int64. Unsigned values above MaxInt64 wrap.
func (v IntValue) Int64() int64 { return int64(v.bits) }

// Uint64 returns the integer as uint64. Negative signed values wrap.
func (v IntValue) Uint64() uint64 { return v.bits }

// Bool returns the boolean literal.
func (v BoolValue) Bool() bool { return v.v }

// Text returns the raw string literal.
func (v StringValue) Text() string { return v.v }

// Target returns the referenced value.
func (v PointerValue) Target() Value { return v.target }

// Len returns the number of children.
func (v TupleValue) Len() int { return len(v.elems) }

// At returns the i-th child.
func (v TupleValue) At(i int) Value { return v.elems[i] }

// Elems returns a copy of the children.
func (v TupleValue) Elems() []Value { return slices.Clone(v.elems) }

// Len returns the number of elements.
func (v SetValue) Len() int { return len(v.elems) }

// At returns the i-th element in canonical order.
func (v SetValue) At(i int) Value { return v.elems[i] }

// Elems returns a copy of the elements in canonical order.
func (v SetValue) Elems() []Value { return slices.Clone(v.elems) }

// Contains reports whether x is an element of the set.
func (v SetValue) Contains(x Value) bool {
	_, found := slices.BinarySearchFunc(v.elems, x, Compare)
	return found
}

func (v IntValue) String() string {
	if v.signed {
		return strconv.FormatInt(int64(v.bits), 10)
	}
	return strconv.FormatUint(v.bits, 10)
}

func (v BoolValue) String() string   { return strconv.FormatBool(v.v) }
func (v StringValue) String() string { return strconv.Quote(v.v) }

func (v PointerValue) String() string { return "&" + Format(v.target) }

func (v TupleValue) String() string { return "(" + joinValues(v.elems) + ")" }
func (v SetValue) String() string   { return "{" + joinValues(v.elems) + "}" }

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Format(v)
	}
	return strings.Join(parts, ", ")
}

// Format renders v in flattened text form. A nil value renders as "<nil>".
func Format(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}
