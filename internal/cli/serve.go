package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/logle/pkg/cache"
	"github.com/matzehuels/logle/pkg/observability"
	"github.com/matzehuels/logle/pkg/pipeline"
	"github.com/matzehuels/logle/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		Long: `Run the HTTP analysis API.

Endpoints:
  POST /v1/analyze   analyze a log sent in the request body
  GET  /healthz      liveness probe
  GET  /metrics      Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") || c.cfg.Server.Addr == "" {
				c.cfg.Server.Addr = addr
			}

			store, err := c.newCache(noCache)
			if err != nil {
				return err
			}
			defer store.Close()
			if rc, ok := store.(*cache.RedisCache); ok {
				if err := rc.Ping(cmd.Context()); err != nil {
					c.Logger.Warn("redis unreachable, responses will not be cached", "error", err)
				}
			}

			prom := observability.NewPrometheus()
			observability.SetAnalysisHooks(prom)
			observability.SetCacheHooks(prom)
			observability.SetHTTPHooks(prom)
			defer observability.Reset()

			ttl := c.cfg.Cache.TTL.Std()
			if ttl <= 0 {
				ttl = pipeline.TTLRender
			}
			runner := pipeline.NewRunner(store, c.Logger)
			srv := server.New(runner, c.Logger,
				server.WithCache(store, ttl),
				server.WithMetrics(prom.Handler()),
				server.WithMaxBody(maxBody),
			)
			return srv.ListenAndServe(cmd.Context(), c.cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response caching")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body size in bytes")

	return cmd
}
