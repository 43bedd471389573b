package graph

import (
	"maps"

	"github.com/matzehuels/logle/pkg/ast"
)

// Schema declares the label types of a graph. It is fixed when the graph is
// initialized.
type Schema struct {
	// NodeTypes maps every node tag to the type of its values.
	NodeTypes map[string]ast.Type
	// EdgeTypes maps every edge tag to the type of its values.
	EdgeTypes map[string]ast.Type

	// NodeLabel, EdgeLabel and GraphLabel are graph-wide annotation types.
	// A nil type means the annotation is not used. GraphLabel governs
	// [Graph.SetLabel].
	NodeLabel  ast.Type
	EdgeLabel  ast.Type
	GraphLabel ast.Type
}

func (s Schema) clone() Schema {
	s.NodeTypes = maps.Clone(s.NodeTypes)
	s.EdgeTypes = maps.Clone(s.EdgeTypes)
	if s.NodeTypes == nil {
		s.NodeTypes = map[string]ast.Type{}
	}
	if s.EdgeTypes == nil {
		s.EdgeTypes = map[string]ast.Type{}
	}
	return s
}

// Equal reports whether two schemas register structurally equal types.
func (s Schema) Equal(o Schema) bool {
	return maps.EqualFunc(s.NodeTypes, o.NodeTypes, ast.TypeEqual) &&
		maps.EqualFunc(s.EdgeTypes, o.EdgeTypes, ast.TypeEqual) &&
		ast.TypeEqual(s.NodeLabel, o.NodeLabel) &&
		ast.TypeEqual(s.EdgeLabel, o.EdgeLabel) &&
		ast.TypeEqual(s.GraphLabel, o.GraphLabel)
}
