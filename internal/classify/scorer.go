// Package classify scores extracted audio features against the accent
// profile table and selects the closest match.
//
// Each accent receives a weighted similarity score in [0, 1] built from
// three components: formant ratio distance, pitch variance distance, and
// speaking rate distance. Ties go to the lexically first accent, so the
// result is deterministic for identical inputs.
package classify

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"twang/internal/analysis"
	"twang/internal/logging"
	"twang/internal/profiles"
	"twang/internal/services"
)

const (
	formantWeight = 0.4
	pitchWeight   = 0.3
	rateWeight    = 0.3

	// Each component normalizes its absolute difference by the span below
	// and floors at zero, so a difference at or beyond the span scores 0.
	formantSpan = 3.0
	pitchSpan   = 0.5
	rateSpan    = 100.0
)

// Score pairs an accent with its similarity value in [0, 1].
type Score struct {
	Accent string
	Value  float64
}

// Result describes the winning accent for one feature record.
type Result struct {
	// Accent is the winning accent identifier, for example "american".
	Accent string
	// Confidence is the winning score scaled to [0, 100].
	Confidence float64
	// Explanation is a human-readable summary of the decision inputs.
	Explanation string
	// Scores lists every accent ranked best first. Accents with equal
	// values keep lexical order.
	Scores []Score
}

// Scorer classifies feature records against a profile table. It is
// stateless after construction and safe for concurrent use.
type Scorer struct {
	table  *profiles.Table
	logger *slog.Logger
}

// NewScorer returns a scorer over the given profile table. A nil table
// selects the built-in one.
func NewScorer(table *profiles.Table, logger *slog.Logger) *Scorer {
	if table == nil {
		table = profiles.NewTable()
	}
	return &Scorer{
		table:  table,
		logger: logging.NewComponentLogger(logger, "classifier"),
	}
}

// Classify scores feats against every profile and returns the best match.
// A nil feature record yields services.ErrNoFeatures.
func (s *Scorer) Classify(feats *analysis.Features) (Result, error) {
	if feats == nil {
		return Result{}, services.Wrap(services.ErrNoFeatures, "classifier", "classify", "no feature record", nil)
	}

	scores := make([]Score, 0, s.table.Len())
	best := Score{Value: -1}
	for _, accent := range s.table.Accents() {
		profile, ok := s.table.Lookup(accent)
		if !ok {
			continue
		}
		score := Score{Accent: accent, Value: s.similarity(feats, profile)}
		scores = append(scores, score)
		if score.Value > best.Value {
			best = score
		}
	}
	if best.Accent == "" {
		return Result{}, services.Wrap(services.ErrInternal, "classifier", "classify", "empty profile table", nil)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})

	result := Result{
		Accent:      best.Accent,
		Confidence:  clampConfidence(best.Value * 100),
		Explanation: explanation(feats),
		Scores:      scores,
	}
	s.logger.Debug("classified features",
		logging.String(logging.FieldAccent, result.Accent),
		logging.Float64("confidence", result.Confidence),
		logging.Float64("speaking_rate", feats.SpeakingRate),
		logging.Float64("pitch_variance", feats.PitchVariance))
	return result, nil
}

// similarity computes the weighted similarity of feats to profile.
func (s *Scorer) similarity(feats *analysis.Features, profile profiles.Profile) float64 {
	var formantDiff float64
	for i := range profile.FormantRatios {
		formantDiff += math.Abs(feats.FormantRatios[i] - profile.FormantRatios[i])
	}
	formantScore := componentScore(formantDiff, formantSpan)
	pitchScore := componentScore(math.Abs(feats.PitchVariance-profile.PitchVariance), pitchSpan)
	rateScore := componentScore(math.Abs(feats.SpeakingRate-profile.SpeakingRate), rateSpan)
	return formantWeight*formantScore + pitchWeight*pitchScore + rateWeight*rateScore
}

func componentScore(diff, span float64) float64 {
	return math.Max(0, 1-diff/span)
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

func explanation(feats *analysis.Features) string {
	return fmt.Sprintf(
		"Analysis based on pitch patterns, formant frequencies, and speaking rate. Detected speaking rate: %.0f words/min, Pitch variance: %.3f",
		feats.SpeakingRate, feats.PitchVariance)
}
