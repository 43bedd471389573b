package ast

import "strconv"

// Tagged is the label attached to a node or edge: a schema tag and a value
// that must conform to the type registered for that tag.
type Tagged struct {
	Tag   string
	Value Value
}

// Tag returns a Tagged label.
func Tag(tag string, v Value) Tagged { return Tagged{Tag: tag, Value: v} }

// String renders the label as "tag: value".
func (t Tagged) String() string { return t.Tag + ": " + Format(t.Value) }

// Equal reports whether both labels have the same tag and equal values.
func (t Tagged) Equal(o Tagged) bool { return t.Tag == o.Tag && Equal(t.Value, o.Value) }

// Key returns a canonical encoding of the label. Two labels share a key if and
// only if they are Equal.
func (t Tagged) Key() string {
	return strconv.Itoa(len(t.Tag)) + ":" + t.Tag + Key(t.Value)
}
