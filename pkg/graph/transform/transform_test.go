package transform

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/logle/pkg/ast"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
)

func numGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	err := g.Initialize(graph.Schema{
		NodeTypes:  map[string]ast.Type{"num": ast.MakeInt("int label", true)},
		EdgeTypes:  map[string]ast.Type{"next": ast.MakeInt("weight", true)},
		GraphLabel: ast.MakeInt("int label", true),
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// randomGraph builds a graph with n nodes and m random (possibly parallel or
// self-loop) edges.
func randomGraph(t *testing.T, rng *rand.Rand, n, m int) *graph.Graph {
	t.Helper()
	g := numGraph(t)
	for i := range n {
		if _, err := g.FindOrAddNode(ast.Tag("num", ast.Int(int64(i)))); err != nil {
			t.Fatal(err)
		}
	}
	for range m {
		src := graph.NodeID(rng.IntN(n))
		dst := graph.NodeID(rng.IntN(n))
		if _, err := g.AddEdge(ast.Tag("next", ast.Int(rng.Int64N(3))), src, dst); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestDeleteNodes_Scenario(t *testing.T) {
	g := numGraph(t)
	id0, _ := g.FindOrAddNode(ast.Tag("num", ast.Int(0)))
	id1, _ := g.FindOrAddNode(ast.Tag("num", ast.Int(1)))
	if id0 == id1 {
		t.Fatal("distinct values must be distinct nodes")
	}

	r, err := DeleteNodes(g, NodeSet(id0))
	if err != nil {
		t.Fatalf("DeleteNodes() error: %v", err)
	}
	if r.NodeCount() != 1 || r.EdgeCount() != 0 {
		t.Fatalf("counts = %d/%d, want 1/0", r.NodeCount(), r.EdgeCount())
	}
	n, err := r.Node(id1)
	if err != nil {
		t.Fatal(err)
	}
	if !n.Label.Equal(ast.Tag("num", ast.Int(1))) {
		t.Errorf("remaining node label = %v", n.Label)
	}
}

func TestDeleteNodes_Empty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	g := randomGraph(t, rng, 8, 20)
	_ = g.SetLabel(ast.Int(42))

	for _, targets := range []map[graph.NodeID]struct{}{nil, {}} {
		r, err := DeleteNodes(g, targets)
		if err != nil {
			t.Fatalf("DeleteNodes(g, {}) error: %v", err)
		}
		if !graph.Equal(g, r) {
			t.Error("DeleteNodes(g, {}) is not structurally equal to g")
		}
		if r == g {
			t.Error("DeleteNodes must return a new graph")
		}
	}
}

func TestDeleteNodes_MissingTarget(t *testing.T) {
	g := numGraph(t)
	id, _ := g.FindOrAddNode(ast.Tag("num", ast.Int(0)))
	before := g.Clone()

	r, err := DeleteNodes(g, NodeSet(id, 17, 12))
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Fatalf("error = %v, want NODE_NOT_FOUND", err)
	}
	if r != nil {
		t.Error("failed DeleteNodes returned a graph")
	}
	if got := errors.UserMessage(err); got != "cannot delete node 12: not in graph" {
		t.Errorf("message = %q", got)
	}
	if !graph.Equal(g, before) {
		t.Error("failed DeleteNodes changed its input")
	}
}

func TestDeleteNodes_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for trial := range 50 {
		g := randomGraph(t, rng, 1+rng.IntN(10), rng.IntN(30))
		before := g.Clone()

		targets := make(map[graph.NodeID]struct{})
		for n := range g.Nodes() {
			if rng.IntN(3) == 0 {
				targets[n.ID] = struct{}{}
			}
		}

		r, err := DeleteNodes(g, targets)
		if err != nil {
			t.Fatalf("trial %d: DeleteNodes() error: %v", trial, err)
		}

		// nodes(R) = nodes(G) - T, in creation order.
		var wantNodes []graph.NodeID
		for n := range g.Nodes() {
			if _, drop := targets[n.ID]; !drop {
				wantNodes = append(wantNodes, n.ID)
			}
		}
		gotNodes := r.NodeIDs()
		if len(gotNodes) != len(wantNodes) {
			t.Fatalf("trial %d: nodes = %v, want %v", trial, gotNodes, wantNodes)
		}
		for i := range gotNodes {
			if gotNodes[i] != wantNodes[i] {
				t.Fatalf("trial %d: nodes = %v, want %v", trial, gotNodes, wantNodes)
			}
		}

		// edges(R) = edges of G with neither endpoint in T.
		var wantEdges []graph.EdgeID
		for e := range g.Edges() {
			_, s := targets[e.Source]
			_, d := targets[e.Target]
			if !s && !d {
				wantEdges = append(wantEdges, e.ID)
			}
		}
		var gotEdges []graph.EdgeID
		for e := range r.Edges() {
			gotEdges = append(gotEdges, e.ID)
			orig, err := g.Edge(e.ID)
			if err != nil || orig.Source != e.Source || orig.Target != e.Target || !orig.Label.Equal(e.Label) {
				t.Fatalf("trial %d: edge %d differs from input", trial, e.ID)
			}
		}
		if len(gotEdges) != len(wantEdges) {
			t.Fatalf("trial %d: edges = %v, want %v", trial, gotEdges, wantEdges)
		}
		for i := range gotEdges {
			if gotEdges[i] != wantEdges[i] {
				t.Fatalf("trial %d: edges = %v, want %v", trial, gotEdges, wantEdges)
			}
		}

		// Adjacency of the output only mentions retained edges.
		for _, id := range gotNodes {
			out, _ := r.OutEdges(id)
			for _, eid := range out {
				if _, err := r.Edge(eid); err != nil {
					t.Fatalf("trial %d: dangling out edge %d", trial, eid)
				}
			}
		}

		if !graph.Equal(g, before) {
			t.Fatalf("trial %d: input graph was modified", trial)
		}
	}
}

func TestMergeParallelEdges(t *testing.T) {
	g := numGraph(t)
	a, _ := g.FindOrAddNode(ast.Tag("num", ast.Int(0)))
	b, _ := g.FindOrAddNode(ast.Tag("num", ast.Int(1)))
	add := func(w int64, s, d graph.NodeID) {
		if _, err := g.AddEdge(ast.Tag("next", ast.Int(w)), s, d); err != nil {
			t.Fatal(err)
		}
	}
	add(1, a, b) // 0
	add(1, a, b) // 1, parallel duplicate of 0
	add(2, a, b) // 2, different label
	add(1, b, a) // 3, reversed
	add(1, a, b) // 4, duplicate of 0

	r := MergeParallelEdges(g)
	var ids []graph.EdgeID
	for e := range r.Edges() {
		ids = append(ids, e.ID)
	}
	want := []graph.EdgeID{0, 2, 3}
	if len(ids) != len(want) || ids[0] != 0 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("edges = %v, want %v", ids, want)
	}
	if r.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", r.NodeCount())
	}
	if g.EdgeCount() != 5 {
		t.Error("MergeParallelEdges modified its input")
	}

	res := Diff(g, r)
	if res.EdgesRemoved != 2 || res.NodesRemoved != 0 {
		t.Errorf("Diff() = %+v", res)
	}
}
