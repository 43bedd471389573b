// Package mail builds account access graphs from CSV login records.
//
// Each record names a user, the account they accessed, the address they
// accessed it from and the access method:
//
//	timestamp,user,account,address,method
//	1431000000,alice,alice@example.com,10.0.0.1,imap
//
// Users, accounts and addresses become nodes. Every record adds an "access"
// edge from the user to the account and, when an address is present, a
// "from" edge from the user to the address.
package mail

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
	TagUser    = "user"
	TagAccount = "account"
	TagAddress = "address"
	TagAccess  = "access"
	TagFrom    = "from"
)

// Columns lists the CSV columns every input must carry.
var Columns = []string{"timestamp", "user", "account", "address", "method"}

// Schema returns the account access graph schema.
func Schema() graph.Schema {
	return graph.Schema{
		NodeTypes: map[string]ast.Type{
			TagUser:    ast.MakeString("user"),
			TagAccount: ast.MakeString("account"),
			TagAddress: ast.MakeString("address"),
		},
		EdgeTypes: map[string]ast.Type{
			TagAccess: ast.MakeTuple("access",
				ast.MakeInt("timestamp", true),
				ast.MakeString("method"),
			),
			TagFrom: ast.MakeInt("timestamp", true),
		},
		GraphLabel: ast.MakeString("analysis"),
	}
}

// Analyzer builds an account access graph.
type Analyzer struct {
	csv   *input.CSVReader
	g     *graph.Graph
	stats analyzer.Stats
	built bool
}

// New takes ownership of src, reads its header and checks that every column
// in Columns is present. On error src is closed.
func New(src *input.Source) (*Analyzer, error) {
	r, err := input.NewCSVReader(src)
	if err != nil {
		return nil, err
	}
	if err := r.Require(Columns...); err != nil {
		r.Close()
		return nil, err
	}
	g := analyzer.NewGraph(Schema())
	if err := g.SetLabel(ast.String(analyzer.Mail)); err != nil {
		r.Close()
		return nil, err
	}
	return &Analyzer{csv: r, g: g}, nil
}

// Name implements analyzer.Analyzer.
func (a *Analyzer) Name() string { return analyzer.Mail }

// Stats returns counters for the last Build.
func (a *Analyzer) Stats() analyzer.Stats { return a.stats }

// Build implements analyzer.Analyzer.
func (a *Analyzer) Build(ctx context.Context) (*graph.Graph, error) {
	if a.built {
		return nil, errors.New(errors.ErrCodeInternal, "mail analyzer already built")
	}
	a.built = true

	for {
		if err := ctx.Err(); err != nil {
			a.csv.Close()
			return nil, err
		}
		rec, err := a.csv.Next()
		if err == io.EOF {
			return a.g, nil
		}
		if err != nil {
			return nil, err
		}
		a.stats.Records++
		if err := a.add(rec); err != nil {
			a.csv.Close()
			return nil, err
		}
	}
}

func (a *Analyzer) add(rec input.Record) error {
	field := func(col string) string {
		v, _ := rec.Get(col)
		return strings.TrimSpace(v)
	}

	user, account := field("user"), field("account")
	if user == "" || account == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "line %d: user and account are required", rec.Line)
	}
	ts, err := analyzer.ParseTimestamp(field("timestamp"))
	if err != nil {
		return errors.New(errors.ErrCodeInvalidArgument, "line %d: %s", rec.Line, errors.UserMessage(err))
	}

	u, err := a.g.FindOrAddNode(ast.Tag(TagUser, ast.String(user)))
	if err != nil {
		return err
	}
	acct, err := a.g.FindOrAddNode(ast.Tag(TagAccount, ast.String(account)))
	if err != nil {
		return err
	}
	access := ast.Tuple(ast.Int(ts), ast.String(field("method")))
	if _, err := a.g.AddEdge(ast.Tag(TagAccess, access), u, acct); err != nil {
		return err
	}

	addr := field("address")
	if addr == "" {
		return nil
	}
	ad, err := a.g.FindOrAddNode(ast.Tag(TagAddress, ast.String(addr)))
	if err != nil {
		return err
	}
	_, err = a.g.AddEdge(ast.Tag(TagFrom, ast.Int(ts)), u, ad)
	return err
}
