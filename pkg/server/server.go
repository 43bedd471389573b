// Package server exposes the analysis pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/analyze   run an analyzer on the request body's content
//	GET  /healthz      liveness probe
//	GET  /version      build stamp as JSON
//	GET  /metrics      Prometheus metrics
//
// An analyze request carries the input inline:
//
//	{"analyzer": "mail", "input": "csv", "content": "timestamp,user,...",
//	 "format": "dot", "delete": [3]}
//
// A successful response is the rendered text with a content type matching
// the format and a fresh run id in X-Run-ID, also on cache hits. Failures
// are JSON:
//
//	{"code": "INVALID_ARGUMENT", "message": "..."}
//
// INVALID_ARGUMENT and graph input errors (UNKNOWN_TAG, TYPE_MISMATCH,
// NODE_NOT_FOUND, EDGE_NOT_FOUND) answer 400, EXTERNAL 502, anything else
// 500.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/matzehuels/logle/pkg/buildinfo"
	"github.com/matzehuels/logle/pkg/cache"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/input"
	"github.com/matzehuels/logle/pkg/observability"
	"github.com/matzehuels/logle/pkg/pipeline"
)

// DefaultMaxBody bounds the size of an analyze request.
const DefaultMaxBody = 32 << 20

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	// Analyzer is checked by the pipeline so the error message matches the
	// CLI's.
	Analyzer      string  `json:"analyzer"`
	Input         string  `json:"input" validate:"required,oneof=csv json jsonstream"`
	Content       string  `json:"content" validate:"required"`
	Format        string  `json:"format,omitempty" validate:"omitempty,oneof=dot json svg"`
	Delete        []int64 `json:"delete,omitempty" validate:"max=10000,dive,gte=0"`
	MergeParallel bool    `json:"merge_parallel,omitempty"`
	Detailed      bool    `json:"detailed,omitempty"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Option configures a Server.
type Option func(*Server)

// WithCache caches rendered responses keyed on the request.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) { s.cache = cache.Scoped(c, "http:"); s.ttl = ttl }
}

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithMaxBody overrides DefaultMaxBody.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// Server handles the HTTP API. Every request builds its own graph; nothing
// graph-related is shared between requests.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	cache    cache.Cache
	ttl      time.Duration
	metrics  http.Handler
	maxBody  int64
	validate *validator.Validate
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:   runner,
		logger:   logger,
		cache:    cache.NewNullCache(),
		maxBody:  DefaultMaxBody,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(buildinfo.Get())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Post("/v1/analyze", s.handleAnalyze)
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeExternal, err, "serve %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}

// observe reports each response to the HTTP hooks under its route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid request body"))
		return
	}
	if err := pipeline.ValidateAnalyzer(req.Analyzer); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidArgument, "invalid request: %s", validationMessage(err)))
		return
	}

	opts := pipeline.Options{
		Analyzer:      req.Analyzer,
		Format:        req.Format,
		Delete:        req.Delete,
		MergeParallel: req.MergeParallel,
		Detailed:      req.Detailed,
	}
	if opts.Format == "" {
		opts.Format = pipeline.DefaultFormat
	}
	kind := pipeline.InputKind(req.Input)

	key := pipeline.RenderKey(opts, kind, cache.Hash([]byte(req.Content)))
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "http")
		w.Header().Set("X-Cache", "hit")
		s.writeText(w, opts.Format, uuid.NewString(), data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "http")

	src := input.FromReader("request", strings.NewReader(req.Content))
	res, err := s.runner.Analyze(r.Context(), opts, src, kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, res.Text, s.ttl); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(r.Context(), "http", len(res.Text))
	}
	s.writeText(w, opts.Format, res.RunID, res.Text)
}

func (s *Server) writeText(w http.ResponseWriter, format, runID string, text []byte) {
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Run-ID", runID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= 500 {
		s.logger.Error("request failed", "request", middleware.GetReqID(r.Context()), "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidArgument), errors.IsGraphInput(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeExternal):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatSVG:
		return "image/svg+xml"
	}
	return "text/vnd.graphviz; charset=utf-8"
}

// validationMessage names the first failing field.
func validationMessage(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return strings.ToLower(fe.Field()) + " fails " + fe.Tag()
	}
	return err.Error()
}
