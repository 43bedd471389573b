package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/logle/pkg/errors"
)

// Prometheus implements every hook interface with Prometheus collectors
// registered on a private registry.
type Prometheus struct {
	reg *prometheus.Registry

	analyses        *prometheus.CounterVec
	analysisSeconds *prometheus.HistogramVec
	graphNodes      *prometheus.HistogramVec
	graphEdges      *prometheus.HistogramVec
	inFlight        prometheus.Gauge

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	requests       *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them together with the
// Go runtime and process collectors.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	sizes := prometheus.ExponentialBuckets(1, 4, 10)

	return &Prometheus{
		reg: reg,
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "logle_analyses_total",
			Help: "Analyses by analyzer and result code",
		}, []string{"analyzer", "code"}),
		analysisSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logle_analysis_duration_seconds",
			Help:    "Analysis wall time",
			Buckets: prometheus.DefBuckets,
		}, []string{"analyzer"}),
		graphNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logle_graph_nodes",
			Help:    "Nodes per rendered graph",
			Buckets: sizes,
		}, []string{"analyzer"}),
		graphEdges: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logle_graph_edges",
			Help:    "Edges per rendered graph",
			Buckets: sizes,
		}, []string{"analyzer"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "logle_analyses_in_flight",
			Help: "Analyses currently running",
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "logle_cache_operations_total",
			Help: "Cache lookups and writes by key type",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "logle_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "logle_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "logle_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

// Registry returns the registry holding the collectors.
func (p *Prometheus) Registry() *prometheus.Registry { return p.reg }

func (p *Prometheus) OnAnalysisStart(context.Context, string) {
	p.inFlight.Inc()
}

func (p *Prometheus) OnAnalysisComplete(_ context.Context, analyzer string, stats AnalysisStats, err error) {
	p.inFlight.Dec()
	code := "OK"
	if err != nil {
		code = string(errors.GetCode(err))
		if code == "" {
			code = "UNKNOWN"
		}
	}
	p.analyses.WithLabelValues(analyzer, code).Inc()
	if err != nil {
		return
	}
	p.analysisSeconds.WithLabelValues(analyzer).Observe(stats.Duration.Seconds())
	p.graphNodes.WithLabelValues(analyzer).Observe(float64(stats.Nodes))
	p.graphEdges.WithLabelValues(analyzer).Observe(float64(stats.Edges))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	p.requestSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

var (
	_ AnalysisHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
