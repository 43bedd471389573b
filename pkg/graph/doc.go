// Package graph provides the typed, labeled multigraph that logle analyzers
// build from log records.
//
// # Overview
//
// A [Graph] is created empty with [New] and given an immutable [Schema]
// exactly once with [Graph.Initialize]. The schema maps every node tag and
// edge tag to an [ast.Type]; each label inserted afterwards must use a
// registered tag and its value must type-check against that tag's type.
//
//	g := graph.New()
//	g.Initialize(graph.Schema{
//	    NodeTypes: map[string]ast.Type{"user": ast.MakeString("user")},
//	    EdgeTypes: map[string]ast.Type{"mail": ast.MakeInt("timestamp", true)},
//	})
//	alice, _ := g.FindOrAddNode(ast.Tag("user", ast.String("alice")))
//	bob, _ := g.FindOrAddNode(ast.Tag("user", ast.String("bob")))
//	g.AddEdge(ast.Tag("mail", ast.Int(1431000000)), alice, bob)
//
// # Node Identity
//
// Nodes are deduplicated by label: two structurally equal labels always
// denote the same node, and [Graph.FindOrAddNode] returns the existing id
// without changing the graph. Edges are never deduplicated; repeated calls to
// [Graph.AddEdge] create parallel edges, one per observed log event.
//
// # Identifiers
//
// [NodeID] and [EdgeID] values are assigned in strictly increasing order
// starting at zero and are never reused. Graphs derived with [Graph.Filter]
// keep the ids of the nodes and edges they retain and inherit the id
// counters of their input, so ids stay comparable across a transformation.
//
// # Errors
//
// Failures are reported as *errors.Error with one of the codes UNKNOWN_TAG,
// TYPE_MISMATCH, NODE_NOT_FOUND, EDGE_NOT_FOUND, ALREADY_INITIALIZED or
// NOT_INITIALIZED. A failed insertion leaves the graph unchanged and
// consumes no id.
//
// # Concurrency
//
// Graph instances are single-owner values and are not safe for concurrent
// use. Derived graphs share no mutable state with their input.
package graph
