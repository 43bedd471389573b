package ast

import (
	"slices"
	"strings"
)

// Kind identifies the variant of a type or value expression.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
	KindPointer
	KindTuple
	KindSet
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindInt:     "int",
	KindString:  "string",
	KindPointer: "pointer",
	KindTuple:   "tuple",
	KindSet:     "set",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Type is a type expression. The set of implementations is closed: IntType,
// BoolType, StringType, PointerType, TupleType and SetType.
//
// Every type carries an optional descriptive name. Names are documentation
// only and are ignored by [TypeEqual] and [TypeCheck].
type Type interface {
	Kind() Kind
	Name() string
	String() string
	isType()
}

// IntType is the type of signed or unsigned 64-bit integers.
type IntType struct {
	name   string
	signed bool
}

// BoolType is the type of booleans.
type BoolType struct{ name string }

// StringType is the type of strings.
type StringType struct{ name string }

// PointerType is the type of references to values registered under another
// schema tag.
type PointerType struct {
	name   string
	target string
}

// TupleType is an ordered, fixed-arity product of child types.
type TupleType struct {
	name     string
	children []Type
}

// SetType is the type of unordered collections of a single element type.
type SetType struct {
	name string
	elem Type
}

// MakeInt returns an integer type.
func MakeInt(name string, signed bool) IntType { return IntType{name: name, signed: signed} }

// MakeBool returns the boolean type.
func MakeBool(name string) BoolType { return BoolType{name: name} }

// MakeString returns the string type.
func MakeString(name string) StringType { return StringType{name: name} }

// MakePointer returns a pointer type referencing values of the given tag.
func MakePointer(name, target string) PointerType {
	return PointerType{name: name, target: target}
}

// MakeTuple returns a tuple type. The children slice is copied.
func MakeTuple(name string, children ...Type) TupleType {
	return TupleType{name: name, children: slices.Clone(children)}
}

// MakeSet returns a set type over elem.
func MakeSet(name string, elem Type) SetType { return SetType{name: name, elem: elem} }

func (IntType) Kind() Kind     { return KindInt }
func (BoolType) Kind() Kind    { return KindBool }
func (StringType) Kind() Kind  { return KindString }
func (PointerType) Kind() Kind { return KindPointer }
func (TupleType) Kind() Kind   { return KindTuple }
func (SetType) Kind() Kind     { return KindSet }

func (t IntType) Name() string     { return t.name }
func (t BoolType) Name() string    { return t.name }
func (t StringType) Name() string  { return t.name }
func (t PointerType) Name() string { return t.name }
func (t TupleType) Name() string   { return t.name }
func (t SetType) Name() string     { return t.name }

func (IntType) isType()     {}
func (BoolType) isType()    {}
func (StringType) isType()  {}
func (PointerType) isType() {}
func (TupleType) isType()   {}
func (SetType) isType()     {}

// Signed reports whether the integer type is signed.
func (t IntType) Signed() bool { return t.signed }

// Target returns the schema tag the pointer refers to.
func (t PointerType) Target() string { return t.target }

// Len returns the arity of the tuple.
func (t TupleType) Len() int { return len(t.children) }

// At returns the i-th child type.
func (t TupleType) At(i int) Type { return t.children[i] }

// Children returns a copy of the child types.
func (t TupleType) Children() []Type { return slices.Clone(t.children) }

// Elem returns the element type of the set.
func (t SetType) Elem() Type { return t.elem }

func (t IntType) String() string {
	if t.signed {
		return "int"
	}
	return "uint"
}

func (BoolType) String() string   { return "bool" }
func (StringType) String() string { return "string" }

func (t PointerType) String() string { return "ptr<" + t.target + ">" }

func (t TupleType) String() string {
	parts := make([]string, len(t.children))
	for i, c := range t.children {
		parts[i] = typeString(c)
	}
	return "tuple(" + strings.Join(parts, ", ") + ")"
}

func (t SetType) String() string { return "set<" + typeString(t.elem) + ">" }

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// TypeEqual reports whether two types are structurally equal. Names are
// ignored. Two nil types are equal.
func TypeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case IntType:
		return at.signed == b.(IntType).signed
	case BoolType, StringType:
		return true
	case PointerType:
		return at.target == b.(PointerType).target
	case TupleType:
		bt := b.(TupleType)
		return slices.EqualFunc(at.children, bt.children, TypeEqual)
	case SetType:
		return TypeEqual(at.elem, b.(SetType).elem)
	default:
		panic("ast: unknown type " + a.Kind().String())
	}
}
