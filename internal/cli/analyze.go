package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/logle/pkg/analyzer"
	"github.com/matzehuels/logle/pkg/pipeline"
)

// analyzeFlags holds the command-line values for "analyze"; only flags the
// user actually set override the config file.
type analyzeFlags struct {
	analyzer   string
	csv        string
	json       string
	jsonStream string
	output     string
	format     string
	delete     []int64
	merge      bool
	detailed   bool
	noCache    bool
	refresh    bool
	pick       bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build a graph from a log file and render it",
		Long: `Build a typed graph from a log file and render it as DOT, SVG or JSON.

Analyzers:
  mail    account access CSV (--csv)
  curio   process dependency JSON (--json)
  plaso   timeline JSON (--json) or JSON stream (--json-stream)`,
		Example: `  logle analyze --analyzer mail --csv access.csv
  logle analyze --analyzer plaso --json-stream timeline.json -o timeline.svg --format svg
  logle analyze --analyzer curio --json deps.json --delete 3 --delete 7
  logle analyze --analyzer mail --csv access.csv --pick -o access.svg --format svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.analyzeOptions(cmd, f)
			return c.runAnalyze(cmd, opts, f.noCache, f.pick)
		},
	}

	cmd.Flags().StringVar(&f.analyzer, "analyzer", "", fmt.Sprintf("analyzer to run (%s)", joinNames()))
	cmd.Flags().StringVar(&f.csv, "csv", "", "CSV input file")
	cmd.Flags().StringVar(&f.json, "json", "", "JSON input file")
	cmd.Flags().StringVar(&f.jsonStream, "json-stream", "", "newline-delimited JSON input file")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&f.format, "format", "", "output format: dot, svg, json (default dot)")
	cmd.Flags().Int64SliceVar(&f.delete, "delete", nil, "node ids to remove before rendering")
	cmd.Flags().BoolVar(&f.merge, "merge", false, "merge parallel edges")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "add node and edge ids to DOT and SVG labels")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached output and rebuild")
	cmd.Flags().BoolVar(&f.pick, "pick", false, "choose nodes to delete interactively")

	return cmd
}

// analyzeOptions overlays the flags the user set onto the config file's
// analysis section.
func (c *CLI) analyzeOptions(cmd *cobra.Command, f analyzeFlags) pipeline.Options {
	opts := c.cfg.Analysis
	flags := cmd.Flags()
	if flags.Changed("analyzer") {
		opts.Analyzer = f.analyzer
	}
	if flags.Changed("csv") {
		opts.CSVFile = f.csv
	}
	if flags.Changed("json") {
		opts.JSONFile = f.json
	}
	if flags.Changed("json-stream") {
		opts.JSONStreamFile = f.jsonStream
	}
	if flags.Changed("output") {
		opts.OutputFile = f.output
	}
	if flags.Changed("format") {
		opts.Format = f.format
	}
	if flags.Changed("delete") {
		opts.Delete = f.delete
	}
	if flags.Changed("merge") {
		opts.MergeParallel = f.merge
	}
	if flags.Changed("detailed") {
		opts.Detailed = f.detailed
	}
	opts.Refresh = f.refresh
	return opts
}

func (c *CLI) runAnalyze(cmd *cobra.Command, opts pipeline.Options, noCache, pick bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := c.newCache(noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := pipeline.NewRunner(store, c.Logger)
	if ttl := c.cfg.Cache.TTL.Std(); ttl > 0 {
		runner.TTL = ttl
	}

	if pick {
		g, err := runner.Graph(ctx, opts)
		if err != nil {
			return err
		}
		ids, err := pickNodes(cmd, g, opts.Delete)
		if err != nil {
			return err
		}
		opts.Delete = ids
		c.Logger.Debug("picked nodes", "delete", ids)
	}

	var spin *spinner
	if opts.OutputFile != "" && !c.verbose {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Analyzing "+opts.Analyzer+" log...")
		spin.Start()
	}
	prog := newProgress(c.Logger)
	res, err := runner.Run(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done("Analysis finished", "run", res.RunID[:8])

	out := cmd.OutOrStdout()
	if opts.OutputFile == "" {
		_, err := out.Write(res.Text)
		return err
	}
	if res.OutputFile == "" {
		printWarning(out, "Graph is empty, nothing written")
		return nil
	}
	printSuccess(out, "Rendered %s graph", res.Analyzer)
	printFile(out, res.OutputFile)
	printStats(out, res.Stats, res.CacheHit)
	return nil
}

func joinNames() string {
	return strings.Join(analyzer.Names(), ", ")
}
