// Package transform derives new graphs from existing ones.
//
// # Contract
//
// Every transformation is a pure function from a [graph.Graph] (plus
// parameters) to a new graph. The input is never modified and the output
// shares no mutable state with it, so transformations compose freely:
//
//	cleaned, err := transform.DeleteNodes(g, map[graph.NodeID]struct{}{3: {}})
//	merged := transform.MergeParallelEdges(cleaned)
//
// Outputs keep the schema of their input and the ids of every node and edge
// they retain. Ids are never renumbered, so a node can be cross-referenced
// between the graph before and after a transformation.
//
// # Node Deletion
//
// [DeleteNodes] drops the given nodes and every edge touching them. There is
// no edge contraction: a path a→b→c with b deleted leaves a and c
// disconnected. Ids that are not in the graph are rejected with
// NODE_NOT_FOUND rather than ignored.
//
// # Parallel Edges
//
// [MergeParallelEdges] keeps the first of every group of edges that share
// endpoints, direction and label. Analyzers record one edge per log event;
// merging turns a multigraph of events into a graph of relationships.
package transform
