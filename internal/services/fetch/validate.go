package fetch

import (
	"net/url"
	"strings"

	"twang/internal/services"
)

// videoHosts lists hosting domains accepted without a file extension.
var videoHosts = []string{
	"loom.com",
	"youtube.com",
	"vimeo.com",
	"dropbox.com",
	"drive.google.com",
	"googleapis.com",
}

// videoExtensions lists path suffixes accepted from any host.
var videoExtensions = []string{".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm"}

// ValidateURL checks that raw names a plausible video resource: it must
// parse with a scheme and host, and either the host belongs to a known
// video platform or the path carries a video file extension. Validation
// is purely syntactic and never touches the network.
func ValidateURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, services.Wrap(services.ErrInvalidURL, "fetcher", "validate", "empty url", nil)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidURL, "fetcher", "validate", "unparseable url", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, services.Wrap(services.ErrInvalidURL, "fetcher", "validate", "url missing scheme or host", nil)
	}
	if !hostRecognized(parsed.Host) && !hasVideoExtension(parsed.Path) {
		return nil, services.Wrap(services.ErrInvalidURL, "fetcher", "validate", "neither a known video host nor a video file", nil)
	}
	return parsed, nil
}

func hostRecognized(host string) bool {
	host = strings.ToLower(host)
	for _, known := range videoHosts {
		if strings.Contains(host, known) {
			return true
		}
	}
	return false
}

func hasVideoExtension(path string) bool {
	path = strings.ToLower(path)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
