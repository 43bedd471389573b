// Package analyzer defines the contract shared by logle's log analyzers.
//
// An analyzer owns one input source, declares the schema of the graph it
// builds, and translates each parsed record into node and edge labels. The
// graph engine itself never interprets tags; everything domain-specific
// lives in the analyzer subpackages:
//
//   - [github.com/matzehuels/logle/pkg/analyzer/mail]: account access records (CSV)
//   - [github.com/matzehuels/logle/pkg/analyzer/curio]: process dependency events (JSON)
//   - [github.com/matzehuels/logle/pkg/analyzer/plaso]: timestamped event streams (JSON, JSON stream)
package analyzer

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
)

// Analyzer names accepted by the pipeline.
const (
	Curio = "curio"
	Mail  = "mail"
	Plaso = "plaso"
)

// Names returns the analyzer names in the order they are listed to users.
func Names() []string { return []string{Curio, Mail, Plaso} }

// Analyzer builds a graph from the input it was created with.
type Analyzer interface {
	// Name returns the analyzer's selector name.
	Name() string
	// Build consumes the input and returns the populated graph. Build may be
	// called once; the input is closed when it returns.
	Build(ctx context.Context) (*graph.Graph, error)
	// Stats reports what Build read.
	Stats() Stats
}

// Stats summarizes one Build.
type Stats struct {
	Records int // input records read
	Skipped int // records that carried nothing to graph
}

// NewGraph returns a graph initialized with s.
func NewGraph(s graph.Schema) *graph.Graph {
	g := graph.New()
	// A fresh graph cannot already be initialized.
	_ = g.Initialize(s)
	return g
}

// ParseTimestamp parses a record timestamp given either as Unix seconds or
// as an RFC 3339 string, returning Unix seconds.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "invalid timestamp %q", s)
	}
	return t.Unix(), nil
}
