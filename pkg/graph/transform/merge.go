package transform

import (
	"fmt"

	"github.com/matzehuels/logle/pkg/graph"
)

// MergeParallelEdges returns a copy of g in which every group of edges with
// the same source, target, direction and label is reduced to its first
// (lowest id) edge. All nodes are kept.
func MergeParallelEdges(g *graph.Graph) *graph.Graph {
	seen := make(map[string]struct{}, g.EdgeCount())
	return g.FilterEdges(
		func(graph.Node) bool { return true },
		func(e graph.Edge) bool {
			key := fmt.Sprintf("%d>%d>%t>%s", e.Source, e.Target, e.Directed, e.Label.Key())
			if _, dup := seen[key]; dup {
				return false
			}
			seen[key] = struct{}{}
			return true
		},
	)
}
