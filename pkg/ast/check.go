package ast

// Resolver looks up the type registered for a schema tag. Pointer values are
// checked against the type their target tag resolves to.
type Resolver interface {
	ResolveTag(tag string) (Type, bool)
}

// TypeMap is a Resolver backed by a map from tag to type.
type TypeMap map[string]Type

// ResolveTag implements Resolver.
func (m TypeMap) ResolveTag(tag string) (Type, bool) {
	t, ok := m[tag]
	return t, ok
}

// TypeCheck reports whether v conforms to t:
//
//   - primitive kinds match exactly, including integer signedness
//   - tuples have the same arity and conform positionally
//   - every set element conforms to the element type
//   - a pointer's target conforms to the type r resolves for the pointer's
//     target tag
//
// A nil type or value never conforms. With a nil resolver, pointer values
// never conform.
func TypeCheck(t Type, v Value, r Resolver) bool {
	if t == nil || v == nil || t.Kind() != v.Kind() {
		return false
	}
	switch tt := t.(type) {
	case IntType:
		return tt.signed == v.(IntValue).signed
	case BoolType, StringType:
		return true
	case PointerType:
		if r == nil {
			return false
		}
		target, ok := r.ResolveTag(tt.target)
		if !ok {
			return false
		}
		return TypeCheck(target, v.(PointerValue).target, r)
	case TupleType:
		tv := v.(TupleValue)
		if len(tt.children) != len(tv.elems) {
			return false
		}
		for i, c := range tt.children {
			if !TypeCheck(c, tv.elems[i], r) {
				return false
			}
		}
		return true
	case SetType:
		for _, e := range v.(SetValue).elems {
			if !TypeCheck(tt.elem, e, r) {
				return false
			}
		}
		return true
	default:
		panic("ast: unknown type " + t.Kind().String())
	}
}
