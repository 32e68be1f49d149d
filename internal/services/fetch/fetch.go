// Package fetch downloads remote video files into the work directory.
// URLs are validated before any network traffic, Google Drive share
// links are rewritten to direct downloads, and responses that turn out
// to be web pages are rejected.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"twang/internal/config"
	"twang/internal/logging"
	"twang/internal/services"
)

// Doer describes the HTTP client used by the fetcher.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads validated video URLs to temporary files.
type Fetcher struct {
	client    Doer
	workDir   string
	userAgent string
	timeout   time.Duration
	maxBody   int64
	logger    *slog.Logger
}

// NewFetcher builds a fetcher from configuration. A nil client selects a
// cookie-aware default, which the Google Drive confirmation flow needs.
func NewFetcher(cfg *config.Config, client Doer, logger *slog.Logger) *Fetcher {
	timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if client == nil {
		httpClient := &http.Client{Timeout: timeout}
		if jar, err := cookiejar.New(nil); err == nil {
			httpClient.Jar = jar
		}
		client = httpClient
	}
	return &Fetcher{
		client:    client,
		workDir:   cfg.Paths.WorkDir,
		userAgent: cfg.Fetch.UserAgent,
		timeout:   timeout,
		maxBody:   int64(cfg.Fetch.MaxBodyMiB) << 20,
		logger:    logging.NewComponentLogger(logger, "fetcher"),
	}
}

// Fetch validates rawURL, downloads it, and returns the path of the
// temporary container file. The caller owns the file and removes it when
// done. Failures report services.ErrInvalidURL, services.ErrNotAVideo,
// or services.ErrDownloadFailed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := ValidateURL(rawURL)
	if err != nil {
		return "", err
	}

	target := parsed.String()
	fileID := ""
	if isDriveURL(parsed) {
		fileID = driveFileID(parsed)
		if fileID != "" {
			target = directDriveURL(fileID)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	f.logger.Info("downloading video", logging.String(logging.FieldURL, target))
	resp, err := f.get(ctx, target)
	if err != nil {
		return "", services.Wrap(services.ErrDownloadFailed, "fetcher", "download", "request failed", err)
	}

	if isDriveURL(parsed) {
		if token := driveConfirmToken(resp); token != "" {
			discard(resp)
			confirmed := confirmDriveURL(fileID, target, token)
			f.logger.Debug("retrying drive download with confirmation token",
				logging.String(logging.FieldURL, confirmed))
			resp, err = f.get(ctx, confirmed)
			if err != nil {
				return "", services.Wrap(services.ErrDownloadFailed, "fetcher", "download", "confirmation request failed", err)
			}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", services.Wrap(services.ErrDownloadFailed, "fetcher", "download",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "text/html") {
		return "", services.Wrap(services.ErrNotAVideo, "fetcher", "download",
			"response is a web page, not a video file", nil)
	}

	return f.save(resp.Body)
}

func (f *Fetcher) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	return f.client.Do(req)
}

func (f *Fetcher) save(body io.Reader) (string, error) {
	tmp, err := os.CreateTemp(f.workDir, "twang-video-*.mp4")
	if err != nil {
		return "", services.Wrap(services.ErrDownloadFailed, "fetcher", "save", "create temp file", err)
	}

	reader := body
	if f.maxBody > 0 {
		reader = io.LimitReader(body, f.maxBody+1)
	}
	written, err := io.Copy(tmp, reader)
	closeErr := tmp.Close()
	switch {
	case err != nil:
		os.Remove(tmp.Name())
		return "", services.Wrap(services.ErrDownloadFailed, "fetcher", "save", "write body", err)
	case closeErr != nil:
		os.Remove(tmp.Name())
		return "", services.Wrap(services.ErrDownloadFailed, "fetcher", "save", "close temp file", closeErr)
	case f.maxBody > 0 && written > f.maxBody:
		os.Remove(tmp.Name())
		return "", services.Wrap(services.ErrDownloadFailed, "fetcher", "save",
			fmt.Sprintf("body exceeds %d byte limit", f.maxBody), nil)
	}

	f.logger.Debug("download complete",
		logging.String("path", tmp.Name()),
		logging.Int64("bytes", written))
	return tmp.Name(), nil
}

// discard finishes with a response whose body will not be read further.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
