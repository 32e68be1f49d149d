package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"log/slog"

	"twang/internal/analysis"
	"twang/internal/classify"
	"twang/internal/config"
	"twang/internal/history"
	"twang/internal/logging"
	"twang/internal/media/ffprobe"
	"twang/internal/notifications"
	"twang/internal/pipeline"
	"twang/internal/preflight"
	"twang/internal/profiles"
	"twang/internal/services/fetch"
	"twang/internal/services/ffmpeg"
)

// buildOrchestrator wires the full analysis pipeline for the daemon. The
// transcoder is passed in because the HTTP server also uses it for
// diagnostics.
func buildOrchestrator(cfg *config.Config, transcoder *ffmpeg.Client, logger *slog.Logger, sinks []pipeline.Sink) (*pipeline.Orchestrator, error) {
	prober := pipeline.ProbeFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, cfg.FFprobeBinary(), path)
	})
	return pipeline.New(cfg,
		fetch.NewFetcher(cfg, nil, logger),
		prober,
		transcoder,
		analysis.NewExtractor(extractionConfig(cfg), logger),
		classify.NewScorer(profiles.NewTable(), logger),
		logger,
		sinks...,
	)
}

// buildSinks assembles the outcome sinks: the history store when persistence
// is enabled and the ntfy publisher when a topic is configured. The returned
// store is non-nil only when history is enabled; callers own its Close.
func buildSinks(cfg *config.Config) (*history.Store, []pipeline.Sink, error) {
	var sinks []pipeline.Sink
	var store *history.Store
	if cfg.HistoryEnabled() {
		opened, err := history.Open(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open history store: %w", err)
		}
		store = opened
		sinks = append(sinks, store)
	}
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
		sinks = append(sinks, notifications.NewSink(notifications.NewService(cfg)))
	}
	return store, sinks, nil
}

func extractionConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		SampleRate:           cfg.Analysis.SampleRate,
		MaxDurationSeconds:   cfg.Analysis.MaxDurationSeconds,
		CepstralCoefficients: cfg.Analysis.CepstralCoefficients,
		PitchMethod:          analysis.PitchMethod(cfg.Analysis.PitchMethod),
	}
}

// checkDependencies aborts startup when a required binary is missing and logs
// a snapshot of everything else.
func checkDependencies(logger *slog.Logger, cfg *config.Config) error {
	for _, status := range preflight.CheckSystemDeps(cfg) {
		if status.Available {
			logger.Info("dependency available",
				logging.String("dependency", status.Name),
				logging.String("command", status.Command),
			)
			continue
		}
		if status.Optional {
			logger.Warn("optional dependency missing",
				logging.String("dependency", status.Name),
				logging.String("detail", status.Detail),
			)
			continue
		}
		return fmt.Errorf("required dependency %s is unavailable (%s)", status.Name, status.Detail)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
