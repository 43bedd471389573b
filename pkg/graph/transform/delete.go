package transform

import (
	"slices"

	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
)

// DeleteNodes returns a copy of g without the target nodes and without any
// edge incident to them.
//
// Every target must exist in g; otherwise DeleteNodes returns NODE_NOT_FOUND
// naming the smallest missing id and no graph. DeleteNodes(g, nil) returns a
// graph structurally equal to g.
func DeleteNodes(g *graph.Graph, targets map[graph.NodeID]struct{}) (*graph.Graph, error) {
	var missing []graph.NodeID
	for id := range targets {
		if !g.HasNode(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, errors.New(errors.ErrCodeNodeNotFound, "cannot delete node %d: not in graph", missing[0])
	}
	return g.Filter(func(n graph.Node) bool {
		_, drop := targets[n.ID]
		return !drop
	}), nil
}

// NodeSet builds the target set for DeleteNodes from a list of ids.
func NodeSet(ids ...graph.NodeID) map[graph.NodeID]struct{} {
	set := make(map[graph.NodeID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
