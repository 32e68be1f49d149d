package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"log/slog"

	"github.com/spf13/cobra"

	"twang/internal/analysis"
	"twang/internal/api"
	"twang/internal/classify"
	"twang/internal/config"
	"twang/internal/history"
	"twang/internal/logging"
	"twang/internal/media/ffprobe"
	"twang/internal/pipeline"
	"twang/internal/profiles"
	"twang/internal/services"
	"twang/internal/services/fetch"
	"twang/internal/services/ffmpeg"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "analyze <video-url>",
		Short: "Download a video and classify the speaker's accent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := newFileLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			orchestrator, cleanup, err := buildLocalPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			outcome, err := orchestrator.Analyze(cmd.Context(), args[0])
			if err != nil {
				if jsonOut {
					_ = writeJSON(cmd, api.ErrorResponse{Error: services.UserMessage(err)})
				}
				return err
			}
			if jsonOut {
				return writeJSON(cmd, api.FromOutcome(outcome))
			}
			renderAnalysis(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the analysis result as JSON")
	return cmd
}

// buildLocalPipeline assembles the same pipeline the daemon runs, minus the
// notification sink: the invoker is already watching the terminal. History
// still records the run when persistence is enabled.
func buildLocalPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Orchestrator, func(), error) {
	cleanup := func() {}

	var sinks []pipeline.Sink
	if cfg.HistoryEnabled() {
		store, err := history.Open(cfg)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open history store: %w", err)
		}
		cleanup = func() { _ = store.Close() }
		sinks = append(sinks, store)
	}

	transcoder, err := ffmpeg.New(cfg.FFmpegBinary(), cfg.Transcode.TimeoutSeconds, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	prober := pipeline.ProbeFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, cfg.FFprobeBinary(), path)
	})

	orchestrator, err := pipeline.New(cfg,
		fetch.NewFetcher(cfg, nil, logger),
		prober,
		transcoder,
		analysis.NewExtractor(extractionConfig(cfg), logger),
		classify.NewScorer(profiles.NewTable(), logger),
		logger,
		sinks...,
	)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return orchestrator, cleanup, nil
}

func extractionConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		SampleRate:           cfg.Analysis.SampleRate,
		MaxDurationSeconds:   cfg.Analysis.MaxDurationSeconds,
		CepstralCoefficients: cfg.Analysis.CepstralCoefficients,
		PitchMethod:          analysis.PitchMethod(cfg.Analysis.PitchMethod),
	}
}

// newFileLogger sends pipeline logs to the log directory only, keeping
// stdout free for command output.
func newFileLogger(cfg *config.Config) (*slog.Logger, error) {
	logPath := filepath.Join(cfg.Paths.LogDir, "twang.log")
	return logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
}

func renderAnalysis(out io.Writer, outcome pipeline.Outcome) {
	headline := fmt.Sprintf("Detected accent: %s (%.1f%% confidence)",
		profiles.DisplayName(outcome.Accent), outcome.Confidence)
	if shouldColorize(out) {
		headline = ansiGreen + headline + ansiReset
	}
	fmt.Fprintln(out, headline)
	fmt.Fprintln(out)
	fmt.Fprintln(out, outcome.Explanation)

	if len(outcome.Scores) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Accent", "Score"},
			buildScoreRows(outcome.Scores),
			[]columnAlignment{alignLeft, alignRight},
		))
	}
	fmt.Fprintf(out, "Completed in %s\n", outcome.Duration.Round(time.Millisecond))
}

func buildScoreRows(scores []classify.Score) [][]string {
	rows := make([][]string, 0, len(scores))
	for _, score := range scores {
		rows = append(rows, []string{
			profiles.DisplayName(score.Accent),
			strconv.FormatFloat(score.Value, 'f', 3, 64),
		})
	}
	return rows
}
