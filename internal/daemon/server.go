package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"twang/internal/api"
	"twang/internal/config"
	"twang/internal/history"
	"twang/internal/logging"
	"twang/internal/pipeline"
	"twang/internal/profiles"
)

// Analyzer runs one accent analysis per request.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (pipeline.Outcome, error)
}

// HistoryLister pages persisted analysis outcomes, newest first.
type HistoryLister interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
}

// VersionReporter reports the transcoder build for diagnostics.
type VersionReporter interface {
	Version(ctx context.Context) (string, error)
}

// Server exposes the analysis pipeline over HTTP on the configured bind
// address. Construct it with New, then Start and Stop around the daemon
// lifetime.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	analyzer Analyzer

	historySvc HistoryLister
	transcoder VersionReporter
	profiles   *profiles.Table

	listener net.Listener
	server   *http.Server
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithHistory attaches the persisted-outcome lister backing /api/history.
// Without it the endpoint reports history as disabled.
func WithHistory(lister HistoryLister) Option {
	return func(s *Server) { s.historySvc = lister }
}

// WithTranscoder attaches the version reporter used by the diagnostics
// endpoint. Without it diagnostics omit the ffmpeg version string.
func WithTranscoder(reporter VersionReporter) Option {
	return func(s *Server) { s.transcoder = reporter }
}

// WithProfiles overrides the reference profile table served by
// /api/profiles. The default is the built-in table.
func WithProfiles(table *profiles.Table) Option {
	return func(s *Server) { s.profiles = table }
}

// New assembles the HTTP server. The analyzer is required; history,
// transcoder, and profile table are supplied via options.
func New(cfg *config.Config, analyzer Analyzer, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("daemon: config required")
	}
	if analyzer == nil {
		return nil, errors.New("daemon: analyzer required")
	}
	bind := strings.TrimSpace(cfg.API.Bind)
	if bind == "" {
		return nil, errors.New("daemon: api.bind must be set")
	}

	srv := &Server{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		analyzer: analyzer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(srv)
		}
	}
	if srv.profiles == nil {
		srv.profiles = profiles.NewTable()
	}

	token := cfg.API.Token
	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleIndex)
	mux.HandleFunc("/api/analyze", authMiddleware(token, srv.handleAnalyze))
	mux.HandleFunc("/api/health", srv.handleHealth)
	mux.HandleFunc("/api/profiles", authMiddleware(token, srv.handleProfiles))
	mux.HandleFunc("/api/history", authMiddleware(token, srv.handleHistory))
	mux.HandleFunc("/api/diagnostics/ffmpeg", authMiddleware(token, srv.handleDiagnostics))

	// Analyze requests run the pipeline synchronously, so the write
	// timeout covers both stage timeouts plus decode and scoring.
	writeTimeout := time.Duration(cfg.Fetch.TimeoutSeconds+cfg.Transcode.TimeoutSeconds+30) * time.Second

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start binds the listener and serves until ctx is cancelled or Stop is
// called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", strings.TrimSpace(s.cfg.API.Bind))
	if err != nil {
		return fmt.Errorf("daemon listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("http server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("http server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}
