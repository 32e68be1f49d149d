package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"twang/internal/api"
	"twang/internal/deps"
	"twang/internal/services"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rawURL := strings.TrimSpace(req.VideoURL)
	if rawURL == "" {
		s.writeError(w, http.StatusBadRequest, "video_url is required")
		return
	}

	outcome, err := s.analyzer.Analyze(r.Context(), rawURL)
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), services.UserMessage(err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromOutcome(outcome))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, api.ProfilesResponse{Profiles: api.FromProfiles(s.profiles)})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.historySvc == nil {
		s.writeError(w, http.StatusNotFound, "history persistence is disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.historySvc.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.HistoryResponse{Entries: api.FromHistoryEntries(entries)})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, api.DiagnosticsResponse{
		FFmpeg:  s.ffmpegDiagnostic(r.Context()),
		FFprobe: toolDiagnostic(s.cfg.FFprobeBinary()),
	})
}

func (s *Server) ffmpegDiagnostic(ctx context.Context) api.ToolDiagnostic {
	diag := toolDiagnostic(s.cfg.FFmpegBinary())
	if !diag.Available || s.transcoder == nil {
		return diag
	}
	version, err := s.transcoder.Version(ctx)
	if err != nil {
		diag.Available = false
		diag.Detail = err.Error()
		return diag
	}
	diag.Version = version
	return diag
}

func toolDiagnostic(command string) api.ToolDiagnostic {
	status := deps.CheckBinaries([]deps.Requirement{{Name: command, Command: command}})[0]
	return api.ToolDiagnostic{
		Available: status.Available,
		Command:   deps.ResolvePath(command),
		Detail:    status.Detail,
	}
}
