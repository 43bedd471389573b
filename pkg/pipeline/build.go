package pipeline

import (
	"github.com/matzehuels/logle/pkg/analyzer"
	"github.com/matzehuels/logle/pkg/analyzer/curio"
	"github.com/matzehuels/logle/pkg/analyzer/mail"
	"github.com/matzehuels/logle/pkg/analyzer/plaso"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
	"github.com/matzehuels/logle/pkg/graph/transform"
	"github.com/matzehuels/logle/pkg/input"
	"github.com/matzehuels/logle/pkg/invariant"
)

// newAnalyzer creates the named analyzer over src, which it takes ownership
// of. name and kind must already be validated.
func newAnalyzer(name string, src *input.Source, kind InputKind) (analyzer.Analyzer, error) {
	switch {
	case name == analyzer.Mail && kind == InputCSV:
		return mail.New(src)
	case name == analyzer.Curio && kind == InputJSON:
		return curio.New(src)
	case name == analyzer.Plaso && kind == InputJSON:
		return plaso.NewFromJSON(src)
	case name == analyzer.Plaso && kind == InputJSONStream:
		return plaso.NewFromStream(src)
	}
	src.Close()
	invariant.Fail("unsupported input %q for the %s analyzer", kind, name)
	return nil, errors.New(errors.ErrCodeInternal, "unsupported input %q for the %s analyzer", kind, name)
}

// transformGraph applies the transforms requested in opts. It returns g
// itself when none apply.
func transformGraph(g *graph.Graph, opts Options) (*graph.Graph, transform.Result, error) {
	out := g
	if len(opts.Delete) > 0 {
		ids := make([]graph.NodeID, len(opts.Delete))
		for i, id := range opts.Delete {
			ids[i] = graph.NodeID(id)
		}
		var err error
		if out, err = transform.DeleteNodes(out, transform.NodeSet(ids...)); err != nil {
			return nil, transform.Result{}, err
		}
	}
	if opts.MergeParallel {
		out = transform.MergeParallelEdges(out)
	}
	return out, transform.Diff(g, out), nil
}
