// Package nodelink renders labeled graphs as node-link diagrams.
//
// # Overview
//
// [ToDOT] serializes a graph to Graphviz DOT: one statement per node and per
// edge, in creation order, each carrying its label in the flattened
// "tag: value" form. The output is deterministic for a given graph and is
// meant for people and tools to read. It is never parsed back.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Nodes are named n<id> and edges e<id> (the latter only appear with
// [Options].Detailed). Undirected edges carry dir=none.
//
// # Empty graphs
//
// A graph with no nodes renders as the opening and closing markers plus the
// graph and default attribute lines, which Graphviz accepts as-is.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
