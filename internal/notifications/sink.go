package notifications

import (
	"context"

	"twang/internal/pipeline"
)

// Sink adapts Service to pipeline.Sink so analysis outcomes fan out to ntfy.
type Sink struct {
	service Service
}

// NewSink wraps a Service for use as a pipeline result sink.
func NewSink(service Service) *Sink {
	return &Sink{service: service}
}

// Record publishes the outcome using the failure or success notification.
func (s *Sink) Record(ctx context.Context, outcome pipeline.Outcome) error {
	if s == nil || s.service == nil {
		return nil
	}
	if outcome.Failed() {
		return s.service.NotifyAnalysisFailed(ctx, outcome.Err, outcome.SourceURL)
	}
	return s.service.NotifyAnalysisComplete(ctx, outcome.Accent, outcome.Confidence, outcome.SourceURL)
}
