// Package plaso builds event graphs from Plaso timeline exports.
//
// Plaso's JSON output is either one object keyed by event name or a stream
// of event objects, one per line. Each event links the component that
// produced it (its source) to the file it concerns:
//
//	source ("LOG", "syslog:line") --event (ts, desc, {tags})--> file "/var/log/syslog"
//
// Events without a file name are counted as skipped.
package plaso

import (
	"context"
	"io"
	"strings"

	"github.com/matzehuels/logle/pkg/analyzer"
	"github.com/matzehuels/logle/pkg/ast"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
	"github.com/matzehuels/logle/pkg/input"
)

// Node and edge tags.
const (
	TagSource = "source"
	TagFile   = "file"
	TagEvent  = "event"
)

// Schema returns the Plaso event graph schema.
func Schema() graph.Schema {
	return graph.Schema{
		NodeTypes: map[string]ast.Type{
			TagSource: ast.MakeTuple("source",
				ast.MakeString("source_short"),
				ast.MakeString("data_type"),
			),
			TagFile: ast.MakeString("filename"),
		},
		EdgeTypes: map[string]ast.Type{
			TagEvent: ast.MakeTuple("event",
				ast.MakeInt("timestamp", true),
				ast.MakeString("timestamp_desc"),
				ast.MakeSet("tags", ast.MakeString("tag")),
			),
		},
		GraphLabel: ast.MakeString("analysis"),
	}
}

// Event holds the fields of a Plaso event that end up in the graph.
type Event struct {
	Timestamp     int64  `json:"timestamp"`
	TimestampDesc string `json:"timestamp_desc"`
	SourceShort   string `json:"source_short"`
	DataType      string `json:"data_type"`
	Filename      string `json:"filename"`
	DisplayName   string `json:"display_name"`
	Tag           *struct {
		Labels []string `json:"labels"`
	} `json:"tag,omitempty"`
}

// File returns the file the event concerns. Plaso fills display_name with a
// "TYPE:path" form when filename is absent.
func (e Event) File() string {
	if e.Filename != "" {
		return e.Filename
	}
	if _, path, ok := strings.Cut(e.DisplayName, ":"); ok {
		return path
	}
	return e.DisplayName
}

// Analyzer builds a Plaso event graph.
type Analyzer struct {
	events input.Events
	g      *graph.Graph
	stats  analyzer.Stats
	built  bool
}

// NewFromJSON takes ownership of src, which holds a single JSON object whose
// values are events.
func NewFromJSON(src *input.Source) (*Analyzer, error) {
	return newAnalyzer(input.NewFullJSON(src), Schema())
}

// NewFromStream takes ownership of src, which holds a stream of event
// objects.
func NewFromStream(src *input.Source) (*Analyzer, error) {
	return newAnalyzer(input.NewStreamJSON(src), Schema())
}

func newAnalyzer(events input.Events, schema graph.Schema) (*Analyzer, error) {
	g := analyzer.NewGraph(schema)
	if err := g.SetLabel(ast.String(analyzer.Plaso)); err != nil {
		events.Close()
		return nil, err
	}
	return &Analyzer{events: events, g: g}, nil
}

// Name implements analyzer.Analyzer.
func (a *Analyzer) Name() string { return analyzer.Plaso }

// Stats returns counters for the last Build.
func (a *Analyzer) Stats() analyzer.Stats { return a.stats }

// Build implements analyzer.Analyzer.
func (a *Analyzer) Build(ctx context.Context) (*graph.Graph, error) {
	if a.built {
		return nil, errors.New(errors.ErrCodeInternal, "plaso analyzer already built")
	}
	a.built = true

	for {
		if err := ctx.Err(); err != nil {
			a.events.Close()
			return nil, err
		}
		var ev Event
		err := a.events.Next(&ev)
		if err == io.EOF {
			return a.g, nil
		}
		if err != nil {
			return nil, err
		}
		a.stats.Records++
		if err := a.add(ev); err != nil {
			a.events.Close()
			return nil, err
		}
	}
}

func (a *Analyzer) add(ev Event) error {
	file := ev.File()
	if file == "" {
		a.stats.Skipped++
		return nil
	}

	src, err := a.g.FindOrAddNode(ast.Tag(TagSource, ast.Tuple(ast.String(ev.SourceShort), ast.String(ev.DataType))))
	if err != nil {
		return err
	}
	dst, err := a.g.FindOrAddNode(ast.Tag(TagFile, ast.String(file)))
	if err != nil {
		return err
	}

	var tags []ast.Value
	if ev.Tag != nil {
		for _, l := range ev.Tag.Labels {
			tags = append(tags, ast.String(l))
		}
	}
	label := ast.Tuple(ast.Int(ev.Timestamp), ast.String(ev.TimestampDesc), ast.Set(tags...))
	_, err = a.g.AddEdge(ast.Tag(TagEvent, label), src, dst)
	return err
}
