package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/logle/pkg/buildinfo"
	"github.com/matzehuels/logle/pkg/cache"
	"github.com/matzehuels/logle/pkg/errors"
	"github.com/matzehuels/logle/pkg/observability"
	"github.com/matzehuels/logle/pkg/pipeline"
)

const mailCSV = "timestamp,user,account,address,method\n1431000000,alice,acct,10.0.0.1,imap\n"

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(nil, logger), logger, opts...).Handler()
}

func post(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", &buf))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestAnalyze(t *testing.T) {
	h := newTestServer(t)
	rec := post(t, h, AnalyzeRequest{Analyzer: "mail", Input: "csv", Content: mailCSV})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("X-Run-ID") == "" {
		t.Error("X-Run-ID header missing")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `label="user: \"alice\""`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestAnalyze_JSON(t *testing.T) {
	h := newTestServer(t)
	rec := post(t, h, AnalyzeRequest{Analyzer: "mail", Input: "csv", Content: mailCSV, Format: "json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var doc struct {
		Nodes []any `json:"nodes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil || len(doc.Nodes) != 3 {
		t.Errorf("decode = %v, nodes %d", err, len(doc.Nodes))
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		status   int
		code     string
		contains string
	}{
		{"bad json", "{", http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body"},
		{"unknown field", `{"analyzer":"mail","input":"csv","content":"x","extra":1}`, http.StatusBadRequest, "INVALID_ARGUMENT", ""},
		{"bad analyzer", AnalyzeRequest{Analyzer: "syslog", Input: "csv", Content: "x"}, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid analysis."},
		{"missing content", AnalyzeRequest{Analyzer: "mail", Input: "csv"}, http.StatusBadRequest, "INVALID_ARGUMENT", "content"},
		{"bad input kind", AnalyzeRequest{Analyzer: "mail", Input: "xml", Content: "x"}, http.StatusBadRequest, "INVALID_ARGUMENT", "input"},
		{"wrong input for analyzer", AnalyzeRequest{Analyzer: "curio", Input: "csv", Content: "x"}, http.StatusBadRequest, "INVALID_ARGUMENT", "curio"},
		{"bad format", AnalyzeRequest{Analyzer: "mail", Input: "csv", Content: mailCSV, Format: "png"}, http.StatusBadRequest, "INVALID_ARGUMENT", "format"},
		{"missing node", AnalyzeRequest{Analyzer: "mail", Input: "csv", Content: mailCSV, Delete: []int64{42}}, http.StatusBadRequest, "NODE_NOT_FOUND", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, newTestServer(t), tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			e := decodeError(t, rec)
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if !strings.Contains(e.Message, tt.contains) {
				t.Errorf("message = %q, want it to contain %q", e.Message, tt.contains)
			}
		})
	}
}

func TestAnalyze_MaxBody(t *testing.T) {
	h := newTestServer(t, WithMaxBody(16))
	rec := post(t, h, AnalyzeRequest{Analyzer: "mail", Input: "csv", Content: mailCSV})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyze_Cache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := newTestServer(t, WithCache(c, time.Hour))
	req := AnalyzeRequest{Analyzer: "mail", Input: "csv", Content: mailCSV}

	first := post(t, h, req)
	second := post(t, h, req)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status = %d, %d", first.Code, second.Code)
	}
	if second.Header().Get("X-Cache") != "hit" {
		t.Error("second request should be served from cache")
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached body differs")
	}
	for _, rec := range []*httptest.ResponseRecorder{first, second} {
		if _, err := uuid.Parse(rec.Header().Get("X-Run-ID")); err != nil {
			t.Errorf("X-Run-ID %q is not a run id", rec.Header().Get("X-Run-ID"))
		}
	}
	if first.Header().Get("X-Run-ID") == second.Header().Get("X-Run-ID") {
		t.Error("each response should carry its own run id")
	}
}

func TestAnalyze_CacheDeleteOrder(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := newTestServer(t, WithCache(c, time.Hour))

	first := post(t, h, AnalyzeRequest{Analyzer: "mail", Input: "csv", Content: mailCSV, Delete: []int64{2, 0}})
	second := post(t, h, AnalyzeRequest{Analyzer: "mail", Input: "csv", Content: mailCSV, Delete: []int64{0, 2, 2}})
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status = %d, %d", first.Code, second.Code)
	}
	if second.Header().Get("X-Cache") != "hit" {
		t.Error("the same delete set in another order should hit the cache")
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	m := observability.NewPrometheus()
	observability.SetHTTPHooks(m)

	h := newTestServer(t, WithMetrics(m.Handler()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `logle_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Errorf("metrics missing healthz request:\n%s", rec.Body)
	}
}

func TestVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var info buildinfo.Info
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info != buildinfo.Get() {
		t.Errorf("version = %+v, want %+v", info, buildinfo.Get())
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidArgument, "x"), 400},
		{errors.New(errors.ErrCodeTypeMismatch, "x"), 400},
		{errors.New(errors.ErrCodeUnknownTag, "x"), 400},
		{errors.New(errors.ErrCodeExternal, "x"), 502},
		{errors.New(errors.ErrCodeInternal, "x"), 500},
		{context.Canceled, 500},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(nil, logger), logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
