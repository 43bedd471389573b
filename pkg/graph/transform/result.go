package transform

import "github.com/matzehuels/logle/pkg/graph"

// Result summarizes the difference between a graph and a graph derived from
// it. It is useful for logging what a transformation did.
type Result struct {
	// NodesRemoved is the number of nodes present in the input but not the output.
	NodesRemoved int

	// EdgesRemoved is the number of edges present in the input but not the
	// output, including edges dropped because an endpoint was deleted.
	EdgesRemoved int
}

// Diff computes the Result of deriving out from in.
func Diff(in, out *graph.Graph) Result {
	return Result{
		NodesRemoved: in.NodeCount() - out.NodeCount(),
		EdgesRemoved: in.EdgeCount() - out.EdgeCount(),
	}
}
