// Package curio builds process dependency graphs from Curio event logs.
//
// The input is one JSON document holding a list of events:
//
//	{"events": [
//	  {"time": 10, "type": "exec", "process": {"pid": 2, "name": "sh"},
//	   "parent": {"pid": 1, "name": "init"}},
//	  {"time": 11, "type": "read", "process": {"pid": 2, "name": "sh"},
//	   "path": "/etc/passwd"}
//	]}
//
// Processes, files and sockets become nodes. Edges point in the direction
// data or control flows:
//
//	exec:    parent process -> process
//	read:    file -> process
//	write:   process -> file
//	connect: process -> socket
package curio

import (
	"context"

	"github.com/matzehuels/logle/pkg/analyzer"
	"github.com/matzehuels/logle/pkg/ast"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
	"github.com/matzehuels/logle/pkg/input"
)

// Node and edge tags.
const (
	TagProcess = "process"
	TagFile    = "file"
	TagSocket  = "socket"

	TagExec    = "exec"
	TagRead    = "read"
	TagWrite   = "write"
	TagConnect = "connect"
)

// Schema returns the process dependency graph schema.
func Schema() graph.Schema {
	ts := ast.MakeInt("time", true)
	return graph.Schema{
		NodeTypes: map[string]ast.Type{
			TagProcess: ast.MakeTuple("process", ast.MakeInt("pid", true), ast.MakeString("name")),
			TagFile:    ast.MakeString("path"),
			TagSocket:  ast.MakeString("address"),
		},
		EdgeTypes: map[string]ast.Type{
			TagExec:    ts,
			TagRead:    ts,
			TagWrite:   ts,
			TagConnect: ts,
		},
		GraphLabel: ast.MakeString("analysis"),
	}
}

// Process identifies a running process.
type Process struct {
	PID  int64  `json:"pid"`
	Name string `json:"name"`
}

// Event is one entry of a Curio log.
type Event struct {
	Time    int64    `json:"time"`
	Type    string   `json:"type"`
	Process *Process `json:"process"`
	Parent  *Process `json:"parent,omitempty"`
	Path    string   `json:"path,omitempty"`
	Address string   `json:"address,omitempty"`
}

// Log is the top-level Curio document.
type Log struct {
	Events []Event `json:"events"`
}

// Analyzer builds a process dependency graph.
type Analyzer struct {
	log   Log
	g     *graph.Graph
	stats analyzer.Stats
	built bool
}

// New takes ownership of src, decodes the whole document and closes src.
func New(src *input.Source) (*Analyzer, error) {
	var l Log
	if err := input.ReadJSON(src, &l); err != nil {
		return nil, err
	}
	g := analyzer.NewGraph(Schema())
	if err := g.SetLabel(ast.String(analyzer.Curio)); err != nil {
		return nil, err
	}
	return &Analyzer{log: l, g: g}, nil
}

// Name implements analyzer.Analyzer.
func (a *Analyzer) Name() string { return analyzer.Curio }

// Stats returns counters for the last Build.
func (a *Analyzer) Stats() analyzer.Stats { return a.stats }

// Build implements analyzer.Analyzer.
func (a *Analyzer) Build(ctx context.Context) (*graph.Graph, error) {
	if a.built {
		return nil, errors.New(errors.ErrCodeInternal, "curio analyzer already built")
	}
	a.built = true

	for i, ev := range a.log.Events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.stats.Records++
		if err := a.add(ev); err != nil {
			return nil, errors.New(errors.GetCode(err), "event %d: %s", i, errors.UserMessage(err))
		}
	}
	return a.g, nil
}

func (a *Analyzer) add(ev Event) error {
	if ev.Process == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "event has no process")
	}
	proc, err := a.process(*ev.Process)
	if err != nil {
		return err
	}
	label := ast.Tag(ev.Type, ast.Int(ev.Time))

	switch ev.Type {
	case TagExec:
		if ev.Parent == nil {
			a.stats.Skipped++
			return nil
		}
		parent, err := a.process(*ev.Parent)
		if err != nil {
			return err
		}
		_, err = a.g.AddEdge(label, parent, proc)
		return err
	case TagRead, TagWrite:
		if ev.Path == "" {
			return errors.New(errors.ErrCodeInvalidArgument, "%s event has no path", ev.Type)
		}
		file, err := a.g.FindOrAddNode(ast.Tag(TagFile, ast.String(ev.Path)))
		if err != nil {
			return err
		}
		if ev.Type == TagRead {
			_, err = a.g.AddEdge(label, file, proc)
		} else {
			_, err = a.g.AddEdge(label, proc, file)
		}
		return err
	case TagConnect:
		if ev.Address == "" {
			return errors.New(errors.ErrCodeInvalidArgument, "connect event has no address")
		}
		sock, err := a.g.FindOrAddNode(ast.Tag(TagSocket, ast.String(ev.Address)))
		if err != nil {
			return err
		}
		_, err = a.g.AddEdge(label, proc, sock)
		return err
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "unknown event type %q", ev.Type)
	}
}

func (a *Analyzer) process(p Process) (graph.NodeID, error) {
	return a.g.FindOrAddNode(ast.Tag(TagProcess, ast.Tuple(ast.Int(p.PID), ast.String(p.Name))))
}
