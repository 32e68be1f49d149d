package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// AnalyzeRequest is the POST /api/analyze request payload.
type AnalyzeRequest struct {
	VideoURL string `json:"video_url"`
}

// AnalysisResult is the success payload for an analysis.
type AnalysisResult struct {
	Accent      string  `json:"accent"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
	RequestID   string  `json:"request_id"`
}

// ErrorResponse carries the user-facing message for a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports daemon liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// ProfileInfo describes one reference accent profile.
type ProfileInfo struct {
	ID            string     `json:"id"`
	DisplayName   string     `json:"display_name"`
	FormantRatios [3]float64 `json:"formant_ratios"`
	PitchVariance float64    `json:"pitch_variance"`
	SpeakingRate  float64    `json:"speaking_rate"`
}

// ProfilesResponse wraps the profile table for API responses.
type ProfilesResponse struct {
	Profiles []ProfileInfo `json:"profiles"`
}

// HistoryEntry describes one persisted analysis outcome.
type HistoryEntry struct {
	ID           int64   `json:"id"`
	RequestID    string  `json:"request_id"`
	SourceURL    string  `json:"source_url"`
	Accent       string  `json:"accent,omitempty"`
	Confidence   float64 `json:"confidence"`
	Explanation  string  `json:"explanation,omitempty"`
	ErrorKind    string  `json:"error_kind,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
	DurationMS   int64   `json:"duration_ms"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// HistoryResponse wraps a collection of history entries for API responses.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// ToolDiagnostic reports one external tool's availability and version.
type ToolDiagnostic struct {
	Available bool   `json:"available"`
	Command   string `json:"command,omitempty"`
	Version   string `json:"version,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// DiagnosticsResponse aggregates tool diagnostics for the API.
type DiagnosticsResponse struct {
	FFmpeg  ToolDiagnostic `json:"ffmpeg"`
	FFprobe ToolDiagnostic `json:"ffprobe"`
}
