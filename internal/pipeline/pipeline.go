// Package pipeline sequences one analysis request: fetch the video,
// probe it, extract the audio track, decode it, compute features, and
// classify the accent. The orchestrator owns temporary file lifetimes
// and normalizes every failure into the service error taxonomy before
// results fan out to the configured sinks.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"twang/internal/analysis"
	"twang/internal/classify"
	"twang/internal/config"
	"twang/internal/logging"
	"twang/internal/media/ffprobe"
	"twang/internal/media/wav"
	"twang/internal/services"
)

// Fetcher downloads a validated URL and returns the container path.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Transcoder extracts a mono PCM WAV file from a container.
type Transcoder interface {
	ExtractAudio(ctx context.Context, inputPath string, sampleRate, maxDurationSeconds int) (string, error)
}

// Prober inspects a downloaded container. Probe results are advisory.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// ProbeFunc adapts a plain function to the Prober interface.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Inspect calls f.
func (f ProbeFunc) Inspect(ctx context.Context, path string) (ffprobe.Result, error) {
	return f(ctx, path)
}

// Extractor turns a waveform into a complete feature record.
type Extractor interface {
	Extract(samples []float64, sampleRate int) analysis.Features
}

// Classifier scores a feature record against the profile table.
type Classifier interface {
	Classify(feats *analysis.Features) (classify.Result, error)
}

// Sink receives every finished outcome, success or failure. Sink errors
// are logged and never fail the request.
type Sink interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Outcome carries the result of one analysis request.
type Outcome struct {
	RequestID   string
	SourceURL   string
	Accent      string
	Confidence  float64
	Explanation string
	Scores      []classify.Score
	Features    analysis.Features
	Duration    time.Duration
	Err         error
}

// Failed reports whether the request ended in an error.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Orchestrator runs analysis requests. It is safe for concurrent use;
// every request works on its own temporary files.
type Orchestrator struct {
	cfg        *config.Config
	fetcher    Fetcher
	prober     Prober
	transcoder Transcoder
	extractor  Extractor
	classifier Classifier
	sinks      []Sink
	logger     *slog.Logger
}

// New assembles an orchestrator. The prober may be nil; everything else
// is required.
func New(
	cfg *config.Config,
	fetcher Fetcher,
	prober Prober,
	transcoder Transcoder,
	extractor Extractor,
	classifier Classifier,
	logger *slog.Logger,
	sinks ...Sink,
) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config required")
	}
	if fetcher == nil || transcoder == nil || extractor == nil || classifier == nil {
		return nil, errors.New("pipeline: fetcher, transcoder, extractor, and classifier required")
	}
	return &Orchestrator{
		cfg:        cfg,
		fetcher:    fetcher,
		prober:     prober,
		transcoder: transcoder,
		extractor:  extractor,
		classifier: classifier,
		sinks:      sinks,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// Analyze runs the full pipeline for rawURL. The returned outcome is
// also delivered to every sink, including on failure. The error mirrors
// outcome.Err for callers that only need the failure.
func (o *Orchestrator) Analyze(ctx context.Context, rawURL string) (Outcome, error) {
	started := time.Now()
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	ctx = services.WithSourceURL(ctx, rawURL)
	logger := logging.WithContext(ctx, o.logger)

	outcome := Outcome{RequestID: requestID, SourceURL: rawURL}
	logger.Info("analysis started")
	err := o.run(ctx, logger, rawURL, &outcome)
	outcome.Duration = time.Since(started)

	if err != nil {
		outcome.Err = normalizeError(err)
		logger.Error("analysis failed",
			logging.String("error_kind", services.ErrorKind(outcome.Err)),
			logging.Error(outcome.Err))
	} else {
		logger.Info("analysis complete",
			logging.String(logging.FieldAccent, outcome.Accent),
			logging.Float64("confidence", outcome.Confidence),
			logging.Duration("elapsed", outcome.Duration))
	}

	o.deliver(ctx, logger, outcome)
	return outcome, outcome.Err
}

func (o *Orchestrator) run(ctx context.Context, logger *slog.Logger, rawURL string, outcome *Outcome) error {
	videoPath, err := o.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	defer o.removeTemp(logger, videoPath)

	o.probe(ctx, logger, videoPath)

	audioPath, err := o.transcoder.ExtractAudio(ctx, videoPath, o.cfg.Analysis.SampleRate, o.cfg.Analysis.MaxDurationSeconds)
	if err != nil {
		return services.Wrap(services.ErrTranscodeFailed, "pipeline", "transcode", "audio extraction failed", err)
	}
	defer o.removeTemp(logger, audioPath)

	audio, err := wav.DecodeFile(audioPath)
	if err != nil {
		return services.Wrap(services.ErrTranscodeFailed, "pipeline", "decode", "transcoded audio unreadable", err)
	}
	logger.Debug("audio decoded",
		logging.Int("sample_rate", audio.SampleRate),
		logging.Float64("seconds", audio.Duration()))

	feats := o.extractor.Extract(audio.Samples, audio.SampleRate)
	result, err := o.classifier.Classify(&feats)
	if err != nil {
		return err
	}

	outcome.Accent = result.Accent
	outcome.Confidence = result.Confidence
	outcome.Explanation = result.Explanation
	outcome.Scores = result.Scores
	outcome.Features = feats
	return nil
}

// probe logs container metadata when a prober is configured. Probe
// failures never fail the request.
func (o *Orchestrator) probe(ctx context.Context, logger *slog.Logger, videoPath string) {
	if o.prober == nil {
		return
	}
	result, err := o.prober.Inspect(ctx, videoPath)
	if err != nil {
		logger.Warn("container probe failed", logging.Error(err))
		return
	}
	if !result.HasAudio() {
		logger.Warn("container reports no audio stream",
			logging.String("format", result.Format.FormatName))
		return
	}
	logger.Debug("container probed",
		logging.String("format", result.Format.FormatName),
		logging.Float64("container_seconds", result.DurationSeconds()),
		logging.Int("audio_streams", result.AudioStreamCount()))
}

func (o *Orchestrator) deliver(ctx context.Context, logger *slog.Logger, outcome Outcome) {
	for _, sink := range o.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, outcome); err != nil {
			logger.Warn("result sink failed", logging.Error(err))
		}
	}
}

func (o *Orchestrator) removeTemp(logger *slog.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove temporary file",
			logging.String("path", path),
			logging.Error(err))
	}
}

// normalizeError guarantees the outcome error matches one of the service
// error kinds so surfaces can map it to a status and message.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	if services.ErrorKind(err) != "internal" || errors.Is(err, services.ErrInternal) {
		return err
	}
	return services.Wrap(services.ErrInternal, "pipeline", "analyze", "unexpected failure", err)
}
