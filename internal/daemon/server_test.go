package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"twang/internal/api"
	"twang/internal/history"
	"twang/internal/logging"
	"twang/internal/pipeline"
	"twang/internal/services"
	"twang/internal/testsupport"
)

type analyzerStub struct {
	outcome pipeline.Outcome
	err     error
	calls   int
	lastURL string
}

func (a *analyzerStub) Analyze(_ context.Context, rawURL string) (pipeline.Outcome, error) {
	a.calls++
	a.lastURL = rawURL
	if a.err != nil {
		return pipeline.Outcome{SourceURL: rawURL, Err: a.err}, a.err
	}
	out := a.outcome
	out.SourceURL = rawURL
	return out, nil
}

type historyStub struct {
	entries   []history.Entry
	err       error
	lastLimit int
}

func (h *historyStub) List(_ context.Context, limit int) ([]history.Entry, error) {
	h.lastLimit = limit
	return h.entries, h.err
}

type versionStub struct {
	version string
	err     error
}

func (v versionStub) Version(context.Context) (string, error) {
	return v.version, v.err
}

func successOutcome() pipeline.Outcome {
	return pipeline.Outcome{
		RequestID:   "req-123",
		Accent:      "british",
		Confidence:  87.5,
		Explanation: "Analysis based on pitch patterns, formant frequencies, and speaking rate. Detected speaking rate: 142 words/min, Pitch variance: 0.118",
		Duration:    1500 * time.Millisecond,
	}
}

func newTestServer(t *testing.T, analyzer Analyzer, opts ...Option) *Server {
	t.Helper()
	srv, err := New(testsupport.NewConfig(t), analyzer, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestHandleAnalyzeSuccess(t *testing.T) {
	analyzer := &analyzerStub{outcome: successOutcome()}
	srv := newTestServer(t, analyzer)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"video_url":"https://example.com/clip.mp4"}`))
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Accent != "british" {
		t.Fatalf("unexpected accent: %q", resp.Accent)
	}
	if resp.Confidence != 87.5 {
		t.Fatalf("unexpected confidence: %v", resp.Confidence)
	}
	if resp.RequestID != "req-123" {
		t.Fatalf("unexpected request id: %q", resp.RequestID)
	}
	if analyzer.lastURL != "https://example.com/clip.mp4" {
		t.Fatalf("analyzer received %q", analyzer.lastURL)
	}
}

func TestHandleAnalyzeRequiresVideoURL(t *testing.T) {
	analyzer := &analyzerStub{outcome: successOutcome()}
	srv := newTestServer(t, analyzer)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"video_url":"   "}`))
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "video_url is required" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer should not run for a blank URL, got %d calls", analyzer.calls)
	}
}

func TestHandleAnalyzeRejectsMalformedBody(t *testing.T) {
	analyzer := &analyzerStub{}
	srv := newTestServer(t, analyzer)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer should not run for malformed JSON, got %d calls", analyzer.calls)
	}
}

func TestHandleAnalyzeMapsPipelineErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "invalid url",
			err:        services.Wrap(services.ErrInvalidURL, "fetch", "validate", "unsupported scheme", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "download failure",
			err:        services.Wrap(services.ErrDownloadFailed, "fetch", "download", "status 404", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no features",
			err:        services.Wrap(services.ErrNoFeatures, "analysis", "extract", "empty waveform", nil),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &analyzerStub{err: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"video_url":"https://example.com/clip.mp4"}`))
			w := httptest.NewRecorder()
			srv.handleAnalyze(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}
			var resp api.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if want := services.UserMessage(tc.err); resp.Error != want {
				t.Fatalf("expected message %q, got %q", want, resp.Error)
			}
		})
	}
}

func TestHandleAnalyzeRejectsGet(t *testing.T) {
	srv := newTestServer(t, &analyzerStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &analyzerStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
}

func TestHandleProfilesListsReferenceTable(t *testing.T) {
	srv := newTestServer(t, &analyzerStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	w := httptest.NewRecorder()
	srv.handleProfiles(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.ProfilesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Profiles) != 5 {
		t.Fatalf("expected 5 profiles, got %d", len(resp.Profiles))
	}
	if resp.Profiles[0].ID != "american" || resp.Profiles[0].DisplayName != "American" {
		t.Fatalf("unexpected first profile: %+v", resp.Profiles[0])
	}
}

func TestHandleHistoryReturnsEntries(t *testing.T) {
	store := &historyStub{entries: []history.Entry{{
		ID:        7,
		RequestID: "req-7",
		SourceURL: "https://example.com/clip.mp4",
		Accent:    "australian",
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}}}
	srv := newTestServer(t, &analyzerStub{}, WithHistory(store))

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil)
	w := httptest.NewRecorder()
	srv.handleHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if store.lastLimit != 5 {
		t.Fatalf("expected limit 5 passed through, got %d", store.lastLimit)
	}
	var resp api.HistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].RequestID != "req-7" {
		t.Fatalf("unexpected entries: %+v", resp.Entries)
	}
}

func TestHandleHistoryDisabled(t *testing.T) {
	srv := newTestServer(t, &analyzerStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	srv.handleHistory(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var resp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "history persistence is disabled" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestHandleDiagnosticsReportsVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	srv, err := New(cfg, &analyzerStub{}, logging.NewNop(),
		WithTranscoder(versionStub{version: "ffmpeg version 6.1.1"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/diagnostics/ffmpeg", nil)
	w := httptest.NewRecorder()
	srv.handleDiagnostics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.DiagnosticsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.FFmpeg.Available {
		t.Fatalf("expected ffmpeg available: %+v", resp.FFmpeg)
	}
	if resp.FFmpeg.Version != "ffmpeg version 6.1.1" {
		t.Fatalf("unexpected version: %q", resp.FFmpeg.Version)
	}
	if !filepath.IsAbs(resp.FFmpeg.Command) {
		t.Fatalf("expected resolved command path, got %q", resp.FFmpeg.Command)
	}
	if !resp.FFprobe.Available {
		t.Fatalf("expected ffprobe available: %+v", resp.FFprobe)
	}
}

func TestHandleDiagnosticsMissingBinaries(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	srv := newTestServer(t, &analyzerStub{}, WithTranscoder(versionStub{version: "unused"}))

	req := httptest.NewRequest(http.MethodGet, "/api/diagnostics/ffmpeg", nil)
	w := httptest.NewRecorder()
	srv.handleDiagnostics(w, req)

	var resp api.DiagnosticsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.FFmpeg.Available {
		t.Fatalf("expected ffmpeg unavailable: %+v", resp.FFmpeg)
	}
	if resp.FFmpeg.Version != "" {
		t.Fatalf("version should be skipped when the binary is missing, got %q", resp.FFmpeg.Version)
	}
	if !strings.Contains(resp.FFmpeg.Detail, "not found") {
		t.Fatalf("unexpected detail: %q", resp.FFmpeg.Detail)
	}
}

func TestHandleDiagnosticsVersionFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	srv, err := New(cfg, &analyzerStub{}, logging.NewNop(),
		WithTranscoder(versionStub{err: context.DeadlineExceeded}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/diagnostics/ffmpeg", nil)
	w := httptest.NewRecorder()
	srv.handleDiagnostics(w, req)

	var resp api.DiagnosticsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.FFmpeg.Available {
		t.Fatalf("version probe failure should mark ffmpeg unavailable: %+v", resp.FFmpeg)
	}
	if resp.FFmpeg.Detail == "" {
		t.Fatalf("expected failure detail")
	}
}

func TestAuthProtectsAPIEndpoints(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("secret"))
	srv, err := New(cfg, &analyzerStub{outcome: successOutcome()}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	handler := srv.server.Handler

	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", w.Code)
	}
}

func TestAuthLeavesHealthAndFormOpen(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAPIToken("secret"))
	srv, err := New(cfg, &analyzerStub{}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	handler := srv.server.Handler

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health should not require auth, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("form page should not require auth, got %d", w.Code)
	}
}

func TestServerServesOverTCP(t *testing.T) {
	srv := newTestServer(t, &analyzerStub{outcome: successOutcome()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	if srv.Addr() == "" {
		t.Fatal("expected a bound address after Start")
	}
	resp, err := http.Get("http://" + srv.Addr() + "/api/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}
}
