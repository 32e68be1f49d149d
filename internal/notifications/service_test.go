package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"twang/internal/notifications"
	"twang/internal/pipeline"
	"twang/internal/services"
	"twang/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := notifications.NewService(cfg)
	if err := svc.NotifyAnalysisComplete(context.Background(), "british", 87.5, "https://example.com/a.mp4"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop test notification to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	longURL := "https://example.com/videos/" + strings.Repeat("a", 400) + ".mp4"

	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "analysis complete",
			notify: func(svc notifications.Service) error {
				return svc.NotifyAnalysisComplete(context.Background(), "british", 87.5, "https://www.loom.com/share/abc")
			},
			expectTitle:   "Twang - Analysis Complete",
			expectMessage: "Detected accent: British (87.5% confidence)\nSource: https://www.loom.com/share/abc",
			expectTags:    "twang,analysis,completed",
		},
		{
			name: "analysis complete trims long source",
			notify: func(svc notifications.Service) error {
				return svc.NotifyAnalysisComplete(context.Background(), "canadian", 64.2, longURL)
			},
			expectTitle:   "Twang - Analysis Complete",
			expectMessage: "Detected accent: Canadian (64.2% confidence)\nSource: " + longURL[:197] + "...",
			expectTags:    "twang,analysis,completed",
		},
		{
			name: "analysis complete without source",
			notify: func(svc notifications.Service) error {
				return svc.NotifyAnalysisComplete(context.Background(), "american", 100, "")
			},
			expectTitle:   "Twang - Analysis Complete",
			expectMessage: "Detected accent: American (100.0% confidence)",
			expectTags:    "twang,analysis,completed",
		},
		{
			name: "analysis failed",
			notify: func(svc notifications.Service) error {
				failure := services.Wrap(services.ErrDownloadFailed, "fetcher", "fetch", "status 404", nil)
				return svc.NotifyAnalysisFailed(context.Background(), failure, "https://example.com/gone.mp4")
			},
			expectTitle:    "Twang - Analysis Failed",
			expectMessage:  "Analysis failed: Failed to download video. Please check the URL and try again.\nSource: https://example.com/gone.mp4",
			expectTags:     "twang,analysis,error",
			expectPriority: "high",
		},
		{
			name: "analysis failed without cause",
			notify: func(svc notifications.Service) error {
				return svc.NotifyAnalysisFailed(context.Background(), nil, "")
			},
			expectTitle:    "Twang - Analysis Failed",
			expectMessage:  "Analysis failed: unknown error",
			expectTags:     "twang,analysis,error",
			expectPriority: "high",
		},
		{
			name: "test notification",
			notify: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:    "Twang - Test",
			expectMessage:  "Notification system test",
			expectTags:     "twang,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Errorf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))

			svc := notifications.NewService(cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsSuppressionFlags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call for suppressed notification: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	cfg.Notifications.Analyses = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(cfg)
	if err := svc.NotifyAnalysisComplete(context.Background(), "british", 90, "https://example.com/a.mp4"); err != nil {
		t.Fatalf("suppressed analysis notification returned error: %v", err)
	}
	failure := services.Wrap(services.ErrInvalidURL, "fetcher", "validate", "empty url", nil)
	if err := svc.NotifyAnalysisFailed(context.Background(), failure, ""); err != nil {
		t.Fatalf("suppressed error notification returned error: %v", err)
	}
}

func TestNtfyServiceReportsHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))

	svc := notifications.NewService(cfg)
	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from non-2xx response")
	}
	if !strings.Contains(err.Error(), "ntfy returned 429") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "topic over quota") {
		t.Fatalf("expected body excerpt in error, got %v", err)
	}
}

type recordingService struct {
	completeCalls int
	failedCalls   int
	accent        string
	confidence    float64
	sourceURL     string
	failure       error
}

func (r *recordingService) NotifyAnalysisComplete(_ context.Context, accent string, confidence float64, sourceURL string) error {
	r.completeCalls++
	r.accent = accent
	r.confidence = confidence
	r.sourceURL = sourceURL
	return nil
}

func (r *recordingService) NotifyAnalysisFailed(_ context.Context, failure error, sourceURL string) error {
	r.failedCalls++
	r.failure = failure
	r.sourceURL = sourceURL
	return nil
}

func (r *recordingService) TestNotification(context.Context) error { return nil }

func TestSinkRoutesOutcomes(t *testing.T) {
	svc := &recordingService{}
	sink := notifications.NewSink(svc)

	success := pipeline.Outcome{
		SourceURL:  "https://www.loom.com/share/ok",
		Accent:     "australian",
		Confidence: 72.5,
	}
	if err := sink.Record(context.Background(), success); err != nil {
		t.Fatalf("Record success outcome failed: %v", err)
	}
	if svc.completeCalls != 1 || svc.failedCalls != 0 {
		t.Fatalf("expected one success notification, got %d/%d", svc.completeCalls, svc.failedCalls)
	}
	if svc.accent != "australian" || svc.confidence != 72.5 || svc.sourceURL != success.SourceURL {
		t.Fatalf("unexpected success payload: %q %.1f %q", svc.accent, svc.confidence, svc.sourceURL)
	}

	failure := services.Wrap(services.ErrTranscodeFailed, "ffmpeg", "extract-audio", "exit status 1", nil)
	failed := pipeline.Outcome{SourceURL: "https://example.com/bad.mp4", Err: failure}
	if err := sink.Record(context.Background(), failed); err != nil {
		t.Fatalf("Record failed outcome failed: %v", err)
	}
	if svc.failedCalls != 1 {
		t.Fatalf("expected one failure notification, got %d", svc.failedCalls)
	}
	if svc.failure == nil || svc.sourceURL != failed.SourceURL {
		t.Fatalf("unexpected failure payload: %v %q", svc.failure, svc.sourceURL)
	}
}
