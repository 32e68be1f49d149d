package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrNotAVideo       = errors.New("not a video")
	ErrDownloadFailed  = errors.New("download failed")
	ErrTranscodeFailed = errors.New("transcode failed")
	ErrNoFeatures      = errors.New("no audio features")
	ErrInternal        = errors.New("internal error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later status classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a pipeline error to the status code the API surface should
// return. URL, download, and transcode failures are user-correctable; feature
// and internal failures are not.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrNotAVideo),
		errors.Is(err, ErrDownloadFailed),
		errors.Is(err, ErrTranscodeFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKind returns the stable identifier persisted and reported for err.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrNotAVideo):
		return "not_a_video"
	case errors.Is(err, ErrDownloadFailed):
		return "download_failed"
	case errors.Is(err, ErrTranscodeFailed):
		return "transcode_failed"
	case errors.Is(err, ErrNoFeatures):
		return "no_features"
	default:
		return "internal"
	}
}

// UserMessage renders the message shown to API and form users for err. The
// full cause chain stays in logs only.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return "Invalid video URL. Please provide a valid video link."
	case errors.Is(err, ErrNotAVideo):
		return "The URL returned a web page, not a video file. Please provide a direct video link."
	case errors.Is(err, ErrDownloadFailed):
		return "Failed to download video. Please check the URL and try again."
	case errors.Is(err, ErrTranscodeFailed):
		return "Could not extract audio from video."
	case errors.Is(err, ErrNoFeatures):
		return "Could not analyze audio features."
	default:
		return "Analysis failed due to an internal error."
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
