package ast

import (
	"cmp"
	"strconv"
	"strings"
)

// Compare returns -1, 0 or +1 ordering a before, equal to, or after b in the
// canonical order described in the package documentation. A nil value sorts
// before every non-nil value.
func Compare(a, b Value) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}
	switch av := a.(type) {
	case BoolValue:
		bv := b.(BoolValue)
		switch {
		case av.v == bv.v:
			return 0
		case !av.v:
			return -1
		default:
			return 1
		}
	case IntValue:
		return compareInts(av, b.(IntValue))
	case StringValue:
		return strings.Compare(av.v, b.(StringValue).v)
	case PointerValue:
		return Compare(av.target, b.(PointerValue).target)
	case TupleValue:
		return compareSeq(av.elems, b.(TupleValue).elems)
	case SetValue:
		return compareSeq(av.elems, b.(SetValue).elems)
	default:
		panic("ast: unknown value " + a.Kind().String())
	}
}

func compareInts(a, b IntValue) int {
	if a.signed != b.signed {
		if !a.signed {
			return -1
		}
		return 1
	}
	if a.signed {
		return cmp.Compare(int64(a.bits), int64(b.bits))
	}
	return cmp.Compare(a.bits, b.bits)
}

func compareSeq(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// Equal reports whether two values are structurally equal. Sets compare
// independently of the order their elements were supplied in.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

// Key returns a canonical string encoding of v. Two values have the same key
// if and only if they are [Equal].
func Key(v Value) string {
	var b strings.Builder
	writeKey(&b, v)
	return b.String()
}

func writeKey(b *strings.Builder, v Value) {
	if v == nil {
		b.WriteByte('n')
		return
	}
	switch tv := v.(type) {
	case BoolValue:
		if tv.v {
			b.WriteString("b1")
		} else {
			b.WriteString("b0")
		}
	case IntValue:
		if tv.signed {
			b.WriteByte('i')
			b.WriteString(strconv.FormatInt(int64(tv.bits), 10))
		} else {
			b.WriteByte('u')
			b.WriteString(strconv.FormatUint(tv.bits, 10))
		}
		b.WriteByte(';')
	case StringValue:
		b.WriteByte('s')
		b.WriteString(strconv.Itoa(len(tv.v)))
		b.WriteByte(':')
		b.WriteString(tv.v)
	case PointerValue:
		b.WriteByte('p')
		writeKey(b, tv.target)
	case TupleValue:
		writeSeqKey(b, 't', tv.elems)
	case SetValue:
		writeSeqKey(b, 'S', tv.elems)
	default:
		panic("ast: unknown value " + v.Kind().String())
	}
}

func writeSeqKey(b *strings.Builder, tag byte, elems []Value) {
	b.WriteByte(tag)
	b.WriteString(strconv.Itoa(len(elems)))
	b.WriteByte('(')
	for _, e := range elems {
		writeKey(b, e)
	}
	b.WriteByte(')')
}
