package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"twang/internal/config"
	"twang/internal/profiles"
	"twang/internal/services"
	"twang/internal/textutil"
)

const (
	userAgent = "Twang/0.1.0"

	// Signed video URLs can run to thousands of characters; keep push
	// notification bodies readable.
	maxSourceURLLen = 200
)

// Service defines the notification surface exposed to the daemon and CLI.
type Service interface {
	NotifyAnalysisComplete(ctx context.Context, accent string, confidence float64, sourceURL string) error
	NotifyAnalysisFailed(ctx context.Context, failure error, sourceURL string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:     topic,
		client:       client,
		sendAnalyses: cfg.Notifications.Analyses,
		sendErrors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	sendAnalyses bool
	sendErrors   bool
}

func (n *ntfyService) NotifyAnalysisComplete(ctx context.Context, accent string, confidence float64, sourceURL string) error {
	if !n.sendAnalyses {
		return nil
	}
	message := fmt.Sprintf("Detected accent: %s (%.1f%% confidence)", profiles.DisplayName(accent), confidence)
	if sourceURL = strings.TrimSpace(sourceURL); sourceURL != "" {
		message = fmt.Sprintf("%s\nSource: %s", message, textutil.Truncate(sourceURL, maxSourceURLLen))
	}
	data := payload{
		title:   "Twang - Analysis Complete",
		message: message,
		tags:    []string{"twang", "analysis", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAnalysisFailed(ctx context.Context, failure error, sourceURL string) error {
	if !n.sendErrors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Analysis failed: ")
	if failure != nil {
		builder.WriteString(services.UserMessage(failure))
	} else {
		builder.WriteString("unknown error")
	}
	if sourceURL = strings.TrimSpace(sourceURL); sourceURL != "" {
		builder.WriteString("\nSource: ")
		builder.WriteString(textutil.Truncate(sourceURL, maxSourceURLLen))
	}
	data := payload{
		title:    "Twang - Analysis Failed",
		message:  builder.String(),
		tags:     []string{"twang", "analysis", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Twang - Test",
		message:  "Notification system test",
		tags:     []string{"twang", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyAnalysisComplete(context.Context, string, float64, string) error { return nil }
func (noopService) NotifyAnalysisFailed(context.Context, error, string) error             { return nil }
func (noopService) TestNotification(context.Context) error                                { return nil }
