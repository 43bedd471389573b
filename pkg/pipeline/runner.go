package pipeline

import (
	"context"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/logle/pkg/cache"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/graph"
	"github.com/matzehuels/logle/pkg/input"
	"github.com/matzehuels/logle/pkg/observability"
)

// Runner executes analyses with caching.
//
// The Runner holds no per-run state; several goroutines may share one
// Runner as long as each run uses its own Options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	// TTL is the lifetime of cached renders; zero keeps them forever.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching and a nil logger
// uses the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger, TTL: TTLRender}
}

// Run validates opts, analyzes the selected input file and renders the
// result. When opts.OutputFile is set and the text is non-empty, the text is
// also written to that path.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	path, kind, _ := opts.input()

	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8], "analyzer", opts.Analyzer)
	logger.Debug("starting analysis", "input", path, "format", opts.Format)

	key, err := renderKey(opts, path, kind)
	if err != nil {
		return nil, err
	}

	res, err := r.cached(ctx, opts, key, logger)
	if err != nil {
		return nil, err
	}
	if res == nil {
		src, err := input.Open(path)
		if err != nil {
			return nil, err
		}
		res, err = r.analyze(ctx, opts, src, kind, logger)
		if err != nil {
			return nil, err
		}
		if err := r.Cache.Set(ctx, key, res.Text, r.TTL); err != nil {
			logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "render", len(res.Text))
		}
	}
	res.RunID = runID

	if opts.OutputFile != "" && len(res.Text) > 0 {
		if err := writeFile(opts.OutputFile, res.Text); err != nil {
			return nil, err
		}
		res.OutputFile = opts.OutputFile
		logger.Debug("wrote output", "path", opts.OutputFile, "bytes", len(res.Text))
	}
	return res, nil
}

// cached returns the cached rendering for key, or nil on a miss.
func (r *Runner) cached(ctx context.Context, opts Options, key string, logger *log.Logger) (*Result, error) {
	if opts.Refresh {
		return nil, nil
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
		return nil, nil
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "render")
		return nil, nil
	}
	observability.Cache().OnCacheHit(ctx, "render")
	logger.Debug("using cached output", "bytes", len(data))
	return &Result{Analyzer: opts.Analyzer, Format: opts.Format, Text: data, CacheHit: true}, nil
}

// Analyze runs opts.Analyzer on an already-open source and renders the
// result. It takes ownership of src. File fields of opts are ignored and
// nothing is cached or written.
func (r *Runner) Analyze(ctx context.Context, opts Options, src *input.Source, kind InputKind) (*Result, error) {
	if err := ValidateAnalyzer(opts.Analyzer); err != nil {
		src.Close()
		return nil, err
	}
	if err := ValidateInput(opts.Analyzer, kind); err != nil {
		src.Close()
		return nil, err
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if err := ValidateFormat(opts.Format); err != nil {
		src.Close()
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8], "analyzer", opts.Analyzer)
	res, err := r.analyze(ctx, opts, src, kind, logger)
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	return res, nil
}

// Graph validates opts and builds the selected input's graph without
// transforming, rendering or caching it. Interactive node selection uses it
// to list the ids that Delete may name.
func (r *Runner) Graph(ctx context.Context, opts Options) (*graph.Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	path, kind, _ := opts.input()
	src, err := input.Open(path)
	if err != nil {
		return nil, err
	}
	a, err := newAnalyzer(opts.Analyzer, src, kind)
	if err != nil {
		return nil, err
	}
	return a.Build(ctx)
}

// analyze builds, transforms and renders. It owns src.
func (r *Runner) analyze(ctx context.Context, opts Options, src *input.Source, kind InputKind, logger *log.Logger) (res *Result, err error) {
	start := time.Now()
	hooks := observability.Analysis()
	hooks.OnAnalysisStart(ctx, opts.Analyzer)
	defer func() {
		var stats observability.AnalysisStats
		if res != nil {
			stats = observability.AnalysisStats{
				Nodes:    res.Stats.Nodes,
				Edges:    res.Stats.Edges,
				Removed:  res.Stats.NodesRemoved,
				Bytes:    len(res.Text),
				Duration: res.Stats.Duration,
			}
		}
		hooks.OnAnalysisComplete(ctx, opts.Analyzer, stats, err)
	}()

	a, err := newAnalyzer(opts.Analyzer, src, kind)
	if err != nil {
		return nil, err
	}
	g, err := a.Build(ctx)
	if err != nil {
		logger.Debug("build failed", "error", err)
		return nil, err
	}
	built := a.Stats()
	logger.Debug("built graph", "records", built.Records, "skipped", built.Skipped,
		"nodes", g.NodeCount(), "edges", g.EdgeCount())

	out, diff, err := transformGraph(g, opts)
	if err != nil {
		return nil, err
	}

	text, err := render(ctx, out, opts)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Analyzer: opts.Analyzer,
		Format:   opts.Format,
		Text:     text,
		Stats: Stats{
			Records:      built.Records,
			Skipped:      built.Skipped,
			Nodes:        out.NodeCount(),
			Edges:        out.EdgeCount(),
			NodesRemoved: diff.NodesRemoved,
			EdgesRemoved: diff.EdgesRemoved,
			Duration:     time.Since(start),
		},
	}
	logger.Info("analysis complete",
		"nodes", res.Stats.Nodes,
		"edges", res.Stats.Edges,
		"duration", res.Stats.Duration.Round(time.Millisecond))
	return res, nil
}

// renderKey identifies the rendering of opts for the input at path by a
// BLAKE3 hash of the file's content.
func renderKey(opts Options, path string, kind InputKind) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExternal, err, "Error opening file: %s", path)
	}
	defer f.Close()
	sum, err := cache.HashReader(f)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExternal, err, "Error reading file: %s", path)
	}
	return RenderKey(opts, kind, sum), nil
}

// RenderKey derives the cache key for rendering input of the given kind,
// identified by its content hash, with opts. Delete ids are order and
// duplicate insensitive.
func RenderKey(opts Options, kind InputKind, contentHash string) string {
	del := slices.Clone(opts.Delete)
	slices.Sort(del)
	del = slices.Compact(del)
	return cache.Key("render", opts.Analyzer, kind, opts.Format, del, opts.MergeParallel, opts.Detailed, contentHash)
}
