package graph

import (
	"iter"
	"maps"
	"slices"

	"github.com/matzehuels/logle/pkg/ast"
	"github.com/matzehuels/logle/pkg/errors"
)

// NodeID identifies a node within one graph and the graphs derived from it.
type NodeID int64

// EdgeID identifies an edge within one graph and the graphs derived from it.
type EdgeID int64

// Node is a labeled vertex.
type Node struct {
	ID    NodeID
	Label ast.Tagged
}

// Edge is a labeled connection between two nodes. Directed edges run from
// Source to Target.
type Edge struct {
	ID       EdgeID
	Source   NodeID
	Target   NodeID
	Label    ast.Tagged
	Directed bool
}

// Graph is a typed, labeled multigraph with value-based node deduplication.
//
// The zero value is not usable - use New to create a Graph.
type Graph struct {
	schema      Schema
	initialized bool

	nodes   []Node
	nodePos map[NodeID]int
	edges   []Edge
	edgePos map[EdgeID]int
	out     map[NodeID][]EdgeID
	in      map[NodeID][]EdgeID
	dedup   map[string]NodeID

	nextNode NodeID
	nextEdge EdgeID
	label    ast.Value
}

// New creates an empty, uninitialized graph.
func New() *Graph {
	return &Graph{
		nodePos: make(map[NodeID]int),
		edgePos: make(map[EdgeID]int),
		out:     make(map[NodeID][]EdgeID),
		in:      make(map[NodeID][]EdgeID),
		dedup:   make(map[string]NodeID),
	}
}

// Initialize fixes the schema of the graph. It must be called exactly once,
// before any insertion; a second call returns ALREADY_INITIALIZED. The schema
// maps are copied.
func (g *Graph) Initialize(s Schema) error {
	if g.initialized {
		return errors.New(errors.ErrCodeAlreadyInitialized, "graph is already initialized")
	}
	g.schema = s.clone()
	g.initialized = true
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (g *Graph) Initialized() bool { return g.initialized }

// Schema returns a copy of the graph's schema.
func (g *Graph) Schema() Schema { return g.schema.clone() }

// ResolveTag resolves pointer targets against the node schema. It implements
// [ast.Resolver].
func (g *Graph) ResolveTag(tag string) (ast.Type, bool) {
	t, ok := g.schema.NodeTypes[tag]
	return t, ok
}

func (g *Graph) checkLabel(kind string, types map[string]ast.Type, label ast.Tagged) error {
	if !g.initialized {
		return errors.New(errors.ErrCodeNotInitialized, "graph must be initialized before inserting %ss", kind)
	}
	t, ok := types[label.Tag]
	if !ok {
		return errors.New(errors.ErrCodeUnknownTag, "unknown %s tag %q", kind, label.Tag)
	}
	if !ast.TypeCheck(t, label.Value, g) {
		return errors.New(errors.ErrCodeTypeMismatch, "%s label %s does not conform to type %s", kind, label, t)
	}
	return nil
}

// FindOrAddNode returns the id of the node labeled label, adding the node if
// no structurally equal label has been inserted before.
//
// Returns UNKNOWN_TAG if the tag is not in the node schema and TYPE_MISMATCH
// if the value does not conform to the tag's type. Looking up an existing
// node does not change the graph.
func (g *Graph) FindOrAddNode(label ast.Tagged) (NodeID, error) {
	if err := g.checkLabel("node", g.schema.NodeTypes, label); err != nil {
		return 0, err
	}
	key := label.Key()
	if id, ok := g.dedup[key]; ok {
		return id, nil
	}
	id := g.nextNode
	g.nextNode++
	g.insertNode(Node{ID: id, Label: label})
	g.dedup[key] = id
	return id, nil
}

// Lookup returns the id of the node with the given label without inserting.
func (g *Graph) Lookup(label ast.Tagged) (NodeID, bool) {
	id, ok := g.dedup[label.Key()]
	return id, ok
}

// AddEdge adds a directed edge from source to target and returns its id.
//
// Returns NODE_NOT_FOUND if either endpoint does not exist, otherwise
// UNKNOWN_TAG or TYPE_MISMATCH for a label that does not fit the edge schema.
// Edges are not deduplicated: identical calls create parallel edges. A failed
// call changes nothing and consumes no id.
func (g *Graph) AddEdge(label ast.Tagged, source, target NodeID) (EdgeID, error) {
	return g.addEdge(label, source, target, true)
}

// AddUndirectedEdge is AddEdge for an edge without direction. Source and
// target only fix the order in which the endpoints are reported.
func (g *Graph) AddUndirectedEdge(label ast.Tagged, source, target NodeID) (EdgeID, error) {
	return g.addEdge(label, source, target, false)
}

func (g *Graph) addEdge(label ast.Tagged, source, target NodeID, directed bool) (EdgeID, error) {
	for _, id := range [...]NodeID{source, target} {
		if _, ok := g.nodePos[id]; !ok {
			return 0, errors.New(errors.ErrCodeNodeNotFound, "edge endpoint %d not found", id)
		}
	}
	if err := g.checkLabel("edge", g.schema.EdgeTypes, label); err != nil {
		return 0, err
	}
	id := g.nextEdge
	g.nextEdge++
	g.insertEdge(Edge{ID: id, Source: source, Target: target, Label: label, Directed: directed})
	return id, nil
}

func (g *Graph) insertNode(n Node) {
	g.nodePos[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

func (g *Graph) insertEdge(e Edge) {
	g.edgePos[e.ID] = len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.Source] = append(g.out[e.Source], e.ID)
	g.in[e.Target] = append(g.in[e.Target], e.ID)
}

// SetLabel attaches a graph-wide label. Returns UNKNOWN_TAG if the schema has
// no graph label type and TYPE_MISMATCH if v does not conform to it.
func (g *Graph) SetLabel(v ast.Value) error {
	if !g.initialized {
		return errors.New(errors.ErrCodeNotInitialized, "graph must be initialized before labeling")
	}
	if g.schema.GraphLabel == nil {
		return errors.New(errors.ErrCodeUnknownTag, "schema declares no graph label type")
	}
	if !ast.TypeCheck(g.schema.GraphLabel, v, g) {
		return errors.New(errors.ErrCodeTypeMismatch, "graph label %s does not conform to type %s", ast.Format(v), g.schema.GraphLabel)
	}
	g.label = v
	return nil
}

// Label returns the graph-wide label, or nil if none was set.
func (g *Graph) Label() ast.Value { return g.label }

// Nodes returns all nodes in creation order. The sequence can be ranged over
// any number of times.
func (g *Graph) Nodes() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, n := range g.nodes {
			if !yield(n) {
				return
			}
		}
	}
}

// Edges returns all edges in creation order. The sequence can be ranged over
// any number of times.
func (g *Graph) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range g.edges {
			if !yield(e) {
				return
			}
		}
	}
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given id, or NODE_NOT_FOUND.
func (g *Graph) Node(id NodeID) (Node, error) {
	pos, ok := g.nodePos[id]
	if !ok {
		return Node{}, errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id)
	}
	return g.nodes[pos], nil
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodePos[id]
	return ok
}

// Edge returns the edge with the given id, or EDGE_NOT_FOUND.
func (g *Graph) Edge(id EdgeID) (Edge, error) {
	pos, ok := g.edgePos[id]
	if !ok {
		return Edge{}, errors.New(errors.ErrCodeEdgeNotFound, "edge %d not found", id)
	}
	return g.edges[pos], nil
}

// OutEdges returns the ids of edges whose source is id, in creation order.
// Returns NODE_NOT_FOUND for an unknown node.
func (g *Graph) OutEdges(id NodeID) ([]EdgeID, error) {
	if !g.HasNode(id) {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id)
	}
	return slices.Clone(g.out[id]), nil
}

// InEdges returns the ids of edges whose target is id, in creation order.
// Returns NODE_NOT_FOUND for an unknown node.
func (g *Graph) InEdges(id NodeID) ([]EdgeID, error) {
	if !g.HasNode(id) {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %d not found", id)
	}
	return slices.Clone(g.in[id]), nil
}

// Filter returns a new graph with the same schema and label containing the
// nodes for which keep returns true, with their ids unchanged, and every edge
// whose endpoints are both kept. The dedup index of the result covers exactly
// the kept nodes. The receiver is not modified and shares no mutable state
// with the result.
func (g *Graph) Filter(keep func(Node) bool) *Graph {
	return g.filter(keep, func(Edge) bool { return true })
}

// FilterEdges is Filter with an additional edge predicate. An edge is kept
// when both endpoints are kept and keepEdge returns true.
func (g *Graph) FilterEdges(keep func(Node) bool, keepEdge func(Edge) bool) *Graph {
	return g.filter(keep, keepEdge)
}

func (g *Graph) filter(keepNode func(Node) bool, keepEdge func(Edge) bool) *Graph {
	r := New()
	r.schema = g.schema.clone()
	r.initialized = g.initialized
	r.label = g.label
	r.nextNode = g.nextNode
	r.nextEdge = g.nextEdge

	for _, n := range g.nodes {
		if keepNode(n) {
			r.insertNode(n)
			r.dedup[n.Label.Key()] = n.ID
		}
	}
	for _, e := range g.edges {
		if r.HasNode(e.Source) && r.HasNode(e.Target) && keepEdge(e) {
			r.insertEdge(e)
		}
	}
	return r
}

// Clone returns an independent copy of g.
func (g *Graph) Clone() *Graph {
	return g.Filter(func(Node) bool { return true })
}

// Equal reports whether two graphs have equal schemas and graph labels and
// the same nodes and edges (ids, labels, endpoints, direction) in the same
// order.
func Equal(a, b *Graph) bool {
	if a.initialized != b.initialized || !a.schema.Equal(b.schema) {
		return false
	}
	if (a.label == nil) != (b.label == nil) || (a.label != nil && !ast.Equal(a.label, b.label)) {
		return false
	}
	nodeEq := func(x, y Node) bool { return x.ID == y.ID && x.Label.Equal(y.Label) }
	edgeEq := func(x, y Edge) bool {
		return x.ID == y.ID && x.Source == y.Source && x.Target == y.Target &&
			x.Directed == y.Directed && x.Label.Equal(y.Label)
	}
	return slices.EqualFunc(a.nodes, b.nodes, nodeEq) && slices.EqualFunc(a.edges, b.edges, edgeEq)
}

// NodeIDs returns the ids of all nodes in creation order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// TagCounts returns the number of nodes per node tag.
func (g *Graph) TagCounts() map[string]int {
	counts := make(map[string]int, len(g.schema.NodeTypes))
	for tag := range maps.Keys(g.schema.NodeTypes) {
		counts[tag] = 0
	}
	for _, n := range g.nodes {
		counts[n.Label.Tag]++
	}
	return counts
}
