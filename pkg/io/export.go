package io

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/logle/pkg/ast"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
)

type document struct {
	Label any    `json:"label,omitempty"`
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID    graph.NodeID `json:"id"`
	Tag   string       `json:"tag"`
	Value any          `json:"value"`
	Text  string       `json:"text"`
}

type edge struct {
	ID       graph.EdgeID `json:"id"`
	Source   graph.NodeID `json:"source"`
	Target   graph.NodeID `json:"target"`
	Directed bool         `json:"directed"`
	Tag      string       `json:"tag"`
	Value    any          `json:"value"`
	Text     string       `json:"text"`
}

// WriteJSON encodes g as indented JSON and writes it to w. Nodes and edges
// appear in creation order.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	if l := g.Label(); l != nil {
		out.Label = Value(l)
	}

	for n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{
			ID:    n.ID,
			Tag:   n.Label.Tag,
			Value: Value(n.Label.Value),
			Text:  n.Label.String(),
		})
	}
	for e := range g.Edges() {
		out.Edges = append(out.Edges, edge{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Directed: e.Directed,
			Tag:      e.Label.Tag,
			Value:    Value(e.Label.Value),
			Text:     e.Label.String(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// Value converts v into the plain Go value encoding/json writes for it.
func Value(v ast.Value) any {
	switch v := v.(type) {
	case nil:
		return nil
	case ast.IntValue:
		if v.Signed() {
			return v.Int64()
		}
		return v.Uint64()
	case ast.BoolValue:
		return v.Bool()
	case ast.StringValue:
		return v.Text()
	case ast.PointerValue:
		return map[string]any{"ptr": Value(v.Target())}
	case ast.TupleValue:
		return values(v.Elems())
	case ast.SetValue:
		return values(v.Elems())
	default:
		panic("unreachable")
	}
}

func values(vs []ast.Value) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = Value(v)
	}
	return out
}
