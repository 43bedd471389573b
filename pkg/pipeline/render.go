package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/logle/pkg/graph"
	graphio "github.com/matzehuels/logle/pkg/io"
	"github.com/matzehuels/logle/pkg/render/nodelink"
)

// render produces the text for opts.Format.
func render(ctx context.Context, g *graph.Graph, opts Options) ([]byte, error) {
	nl := nodelink.Options{Detailed: opts.Detailed}
	switch opts.Format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := graphio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nl))
	default:
		return []byte(nodelink.ToDOT(g, nl)), nil
	}
}
