package ast

import (
	"math"
	"slices"
	"testing"
)

func TestTypeCheck_Primitives(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		val  Value
		want bool
	}{
		{"signed int", MakeInt("n", true), Int(-3), true},
		{"unsigned int", MakeInt("n", false), Uint(3), true},
		{"signedness mismatch", MakeInt("n", true), Uint(3), false},
		{"signedness mismatch reversed", MakeInt("n", false), Int(3), false},
		{"bool", MakeBool("b"), Bool(true), true},
		{"string", MakeString("s"), String("x"), true},
		{"int vs string", MakeInt("n", true), String("x"), false},
		{"nil value", MakeString("s"), nil, false},
		{"nil type", nil, String("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeCheck(tt.typ, tt.val, nil); got != tt.want {
				t.Errorf("TypeCheck(%v, %v) = %v, want %v", tt.typ, tt.val, got, tt.want)
			}
		})
	}
}

func TestTypeCheck_Composites(t *testing.T) {
	pair := MakeTuple("pair", MakeInt("ts", true), MakeString("method"))
	tags := MakeSet("tags", MakeString("tag"))

	tests := []struct {
		name string
		typ  Type
		val  Value
		want bool
	}{
		{"tuple ok", pair, Tuple(Int(1), String("imap")), true},
		{"tuple short", pair, Tuple(Int(1)), false},
		{"tuple long", pair, Tuple(Int(1), String("a"), String("b")), false},
		{"tuple wrong child", pair, Tuple(String("imap"), Int(1)), false},
		{"empty set", tags, Set(), true},
		{"set ok", tags, Set(String("a"), String("b")), true},
		{"set bad element", tags, Set(String("a"), Int(1)), false},
		{"nested", MakeTuple("", pair, tags), Tuple(Tuple(Int(0), String("")), Set(String("x"))), true},
		{"tuple vs set", tags, Tuple(String("a")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeCheck(tt.typ, tt.val, nil); got != tt.want {
				t.Errorf("TypeCheck(%v, %v) = %v, want %v", tt.typ, tt.val, got, tt.want)
			}
		})
	}
}

func TestTypeCheck_Pointer(t *testing.T) {
	types := TypeMap{
		"user": MakeString("user"),
		"ref":  MakePointer("ref", "user"),
	}
	ptr := MakePointer("", "user")

	if !TypeCheck(ptr, Pointer(String("alice")), types) {
		t.Error("pointer to conforming value should type-check")
	}
	if TypeCheck(ptr, Pointer(Int(1)), types) {
		t.Error("pointer to non-conforming value should not type-check")
	}
	if TypeCheck(ptr, Pointer(String("alice")), nil) {
		t.Error("pointer should not type-check without a resolver")
	}
	if TypeCheck(MakePointer("", "missing"), Pointer(String("alice")), types) {
		t.Error("pointer to unregistered tag should not type-check")
	}
	if !TypeCheck(MakePointer("", "ref"), Pointer(Pointer(String("bob"))), types) {
		t.Error("pointer chains should resolve through the resolver")
	}
}

func TestTypeEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"names ignored", MakeInt("a", true), MakeInt("b", true), true},
		{"signedness", MakeInt("", true), MakeInt("", false), false},
		{"kinds", MakeBool(""), MakeString(""), false},
		{"pointer target", MakePointer("", "a"), MakePointer("", "b"), false},
		{"tuple", MakeTuple("", MakeBool(""), MakeString("")), MakeTuple("x", MakeBool("y"), MakeString("z")), true},
		{"tuple arity", MakeTuple("", MakeBool("")), MakeTuple("", MakeBool(""), MakeBool("")), false},
		{"set", MakeSet("", MakeInt("", false)), MakeSet("", MakeInt("", false)), true},
		{"both nil", nil, nil, true},
		{"one nil", MakeBool(""), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("TypeEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetCanonical(t *testing.T) {
	a := Set(String("b"), String("a"), String("c"))
	b := Set(String("c"), String("b"), String("a"), String("a"))

	if !Equal(a, b) {
		t.Errorf("Equal(%v, %v) = false, want true", a, b)
	}
	if Key(a) != Key(b) {
		t.Errorf("Key mismatch: %q vs %q", Key(a), Key(b))
	}
	if b.Len() != 3 {
		t.Errorf("duplicates not removed: Len() = %d", b.Len())
	}
	if got := a.String(); got != `{"a", "b", "c"}` {
		t.Errorf("String() = %s", got)
	}
	if !a.Contains(String("c")) || a.Contains(String("d")) {
		t.Error("Contains() returned wrong result")
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	ordered := []Value{
		Bool(false),
		Bool(true),
		Uint(0),
		Uint(math.MaxUint64),
		Int(math.MinInt64),
		Int(-1),
		Int(0),
		String(""),
		String("a"),
		String("ab"),
		String("b"),
		Pointer(Bool(true)),
		Pointer(String("a")),
		Tuple(),
		Tuple(Int(0)),
		Tuple(Int(0), Int(0)),
		Tuple(Int(1)),
		Set(),
		Set(String("a")),
		Set(String("a"), String("b")),
		Set(String("b")),
	}

	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			var want int
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got != want {
				t.Errorf("Compare(%v, %v) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}

	shuffled := slices.Clone(ordered)
	slices.Reverse(shuffled)
	slices.SortFunc(shuffled, Compare)
	if !slices.EqualFunc(shuffled, ordered, Equal) {
		t.Error("sorting by Compare did not reproduce canonical order")
	}
}

func TestKey_Injective(t *testing.T) {
	values := []Value{
		Int(1),
		Uint(1),
		Int(12),
		String("1"),
		String("a;b"),
		Tuple(String("a"), String("b")),
		Tuple(String("ab")),
		Tuple(Tuple(String("a")), String("b")),
		Set(String("a"), String("b")),
		Pointer(String("a")),
		Bool(true),
	}

	seen := make(map[string]Value)
	for _, v := range values {
		k := Key(v)
		if prev, ok := seen[k]; ok {
			t.Errorf("Key collision between %v and %v: %q", prev, v, k)
		}
		seen[k] = v
	}
}

func TestImmutability(t *testing.T) {
	elems := []Value{String("a"), String("b")}
	tup := Tuple(elems...)
	elems[0] = String("z")
	if got := tup.At(0); !Equal(got, String("a")) {
		t.Errorf("tuple aliased constructor argument: At(0) = %v", got)
	}

	out := tup.Elems()
	out[1] = String("z")
	if got := tup.At(1); !Equal(got, String("b")) {
		t.Errorf("tuple aliased Elems result: At(1) = %v", got)
	}

	children := []Type{MakeBool("")}
	tt := MakeTuple("", children...)
	children[0] = MakeString("")
	if tt.At(0).Kind() != KindBool {
		t.Error("tuple type aliased constructor argument")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{Int(-5), "-5"},
		{Uint(math.MaxUint64), "18446744073709551615"},
		{Bool(false), "false"},
		{String(`say "hi"`), `"say \"hi\""`},
		{Pointer(String("x")), `&"x"`},
		{Tuple(Int(1), String("imap")), `(1, "imap")`},
		{Set(Int(2), Int(1)), "{1, 2}"},
		{nil, "<nil>"},
	}

	for _, tt := range tests {
		if got := Format(tt.val); got != tt.want {
			t.Errorf("Format() = %s, want %s", got, tt.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	typ := MakeTuple("event", MakeInt("", true), MakeString(""), MakeSet("", MakeString("")), MakePointer("", "file"))
	want := "tuple(int, string, set<string>, ptr<file>)"
	if got := typ.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
	if got := MakeInt("", false).String(); got != "uint" {
		t.Errorf("String() = %s, want uint", got)
	}
}

func TestTagged(t *testing.T) {
	a := Tag("num", Int(0))
	b := Tag("num", Int(0))
	c := Tag("other", Int(0))

	if !a.Equal(b) || a.Key() != b.Key() {
		t.Error("identical labels should be equal and share a key")
	}
	if a.Equal(c) || a.Key() == c.Key() {
		t.Error("labels with different tags should differ")
	}
	if got := a.String(); got != "num: 0" {
		t.Errorf("String() = %q", got)
	}
	// Tag boundaries are length-prefixed.
	if Tag("a", String("bc")).Key() == Tag("ab", String("c")).Key() {
		t.Error("tag/value boundary is ambiguous")
	}
}
