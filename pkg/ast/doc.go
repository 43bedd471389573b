// Package ast provides the type and value expressions used as labels in logle
// graphs.
//
// # Overview
//
// A single small expression language serves two purposes: declaring the
// schema of a graph ([Type]) and holding the labels attached to its nodes and
// edges ([Value]). Both are closed sums over the same six kinds:
//
//   - [KindBool]: booleans
//   - [KindInt]: 64-bit integers, signed or unsigned
//   - [KindString]: byte strings
//   - [KindPointer]: a reference to a value of another schema tag
//   - [KindTuple]: ordered, fixed-arity children
//   - [KindSet]: unordered, duplicate-free children
//
// Expressions are immutable once constructed. Composite constructors copy
// their arguments and accessors return copies, so an expression can be shared
// freely between graphs.
//
// # Type Checking
//
// [TypeCheck] decides whether a value conforms to a type. It never fails;
// callers such as the labeled graph turn a false result into a
// TYPE_MISMATCH error. Pointer values are resolved through a [Resolver],
// usually the node-type table of the owning graph.
//
// # Canonical Order
//
// [Compare] is a total order over values:
//
//	bool < int < string < pointer < tuple < set
//
// Within a kind, false < true; unsigned integers sort before signed ones and
// then numerically; strings compare bytewise; pointers compare their targets;
// tuples and sets compare children lexicographically with a shorter prefix
// first. Set values are sorted and deduplicated with this order at
// construction, which makes [Equal] and [Key] independent of the order in
// which elements were supplied.
//
// # Labels
//
// A [Tagged] pairs a schema tag with a value and is the label type of every
// node and edge:
//
//	label := ast.Tag("access", ast.Tuple(ast.Int(1431000000), ast.String("imap")))
//	label.String() // access: (1431000000, "imap")
package ast
