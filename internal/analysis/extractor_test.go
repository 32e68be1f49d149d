package analysis_test

import (
	"math"
	"reflect"
	"testing"

	"twang/internal/analysis"
	"twang/internal/logging"
)

func sine(freq float64, sampleRate, samples int) []float64 {
	out := make([]float64, samples)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestExtractEmptyWaveformReturnsDefaultRecord(t *testing.T) {
	extractor := analysis.NewExtractor(analysis.Config{}, logging.NewNop())

	feats := extractor.Extract(nil, 16000)

	if feats.MeanPitch != 200.0 {
		t.Fatalf("mean pitch: expected 200.0, got %v", feats.MeanPitch)
	}
	if feats.PitchVariance != 0.15 {
		t.Fatalf("pitch variance: expected 0.15, got %v", feats.PitchVariance)
	}
	if feats.SpectralCentroid != 200.0 {
		t.Fatalf("spectral centroid: expected 200.0, got %v", feats.SpectralCentroid)
	}
	if feats.SpeakingRate != 140.0 {
		t.Fatalf("speaking rate: expected 140.0, got %v", feats.SpeakingRate)
	}
	if feats.FormantRatios != [3]float64{1.2, 2.0, 1.6} {
		t.Fatalf("formant ratios: expected fallback triple, got %v", feats.FormantRatios)
	}
	if len(feats.Cepstral) != 5 {
		t.Fatalf("cepstral: expected 5 means, got %d", len(feats.Cepstral))
	}
	for i, c := range feats.Cepstral {
		if c != 0 {
			t.Fatalf("cepstral[%d]: expected 0.0, got %v", i, c)
		}
	}
}

func TestNormalizeSpeakingRateSaturation(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{301, 150},
		{1000, 150},
		{49, 130},
		{0, 130},
		{-5, 130},
		{50, 50},
		{300, 300},
		{187.5, 187.5},
	}
	for _, tc := range cases {
		if got := analysis.NormalizeSpeakingRate(tc.raw); got != tc.want {
			t.Fatalf("raw %v: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
}

func TestExtractToneProducesBoundedRecord(t *testing.T) {
	extractor := analysis.NewExtractor(analysis.Config{SampleRate: 16000}, logging.NewNop())

	feats := extractor.Extract(sine(440, 16000, 2*16000), 16000)

	if feats.MeanPitch <= 0 {
		t.Fatalf("expected positive mean pitch, got %v", feats.MeanPitch)
	}
	if feats.PitchVariance < 0 {
		t.Fatalf("expected non-negative pitch variance, got %v", feats.PitchVariance)
	}
	if feats.SpeakingRate < 50 || feats.SpeakingRate > 300 {
		t.Fatalf("expected speaking rate within [50,300], got %v", feats.SpeakingRate)
	}
	for i, r := range feats.FormantRatios {
		if r < 0 || math.IsNaN(r) {
			t.Fatalf("formant ratio %d: expected non-negative finite value, got %v", i, r)
		}
	}
	if len(feats.Cepstral) != 5 {
		t.Fatalf("expected 5 cepstral means, got %d", len(feats.Cepstral))
	}
}

func TestExtractSilencePerFeatureFallbacks(t *testing.T) {
	extractor := analysis.NewExtractor(analysis.Config{SampleRate: 16000}, logging.NewNop())

	feats := extractor.Extract(make([]float64, 16000), 16000)

	if feats.PitchVariance != 0.15 {
		t.Fatalf("expected default pitch variance for silence, got %v", feats.PitchVariance)
	}
	if feats.FormantRatios != [3]float64{1.2, 2.0, 1.6} {
		t.Fatalf("expected fallback formant triple for silence, got %v", feats.FormantRatios)
	}
	if feats.SpeakingRate != 130 {
		t.Fatalf("expected low-rate snap to 130 for silence, got %v", feats.SpeakingRate)
	}
}

func TestExtractDeterministic(t *testing.T) {
	extractor := analysis.NewExtractor(analysis.Config{SampleRate: 16000}, logging.NewNop())
	wave := sine(220, 16000, 16000)

	first := extractor.Extract(wave, 16000)
	second := extractor.Extract(wave, 16000)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical records, got %+v vs %+v", first, second)
	}
}

func TestExtractTruncatesToConfiguredDuration(t *testing.T) {
	cfg := analysis.Config{SampleRate: 16000, MaxDurationSeconds: 1}
	extractor := analysis.NewExtractor(cfg, logging.NewNop())

	full := sine(330, 16000, 3*16000)
	truncated := extractor.Extract(full, 16000)
	leading := extractor.Extract(full[:16000], 16000)

	if !reflect.DeepEqual(truncated, leading) {
		t.Fatalf("expected analysis of leading second only, got %+v vs %+v", truncated, leading)
	}
}

func TestExtractPeakTrackingPitch(t *testing.T) {
	cfg := analysis.Config{
		SampleRate:           16000,
		CepstralCoefficients: 13,
		PitchMethod:          analysis.PitchPeakTracking,
	}
	extractor := analysis.NewExtractor(cfg, logging.NewNop())

	feats := extractor.Extract(sine(440, 16000, 16000), 16000)

	binWidth := 16000.0 / 2048
	if math.Abs(feats.MeanPitch-440) > 2*binWidth {
		t.Fatalf("expected tracked pitch near 440 Hz, got %v", feats.MeanPitch)
	}
	if len(feats.Cepstral) != 13 {
		t.Fatalf("expected 13 cepstral means, got %d", len(feats.Cepstral))
	}
}

func TestConfigDefaultsNormalized(t *testing.T) {
	extractor := analysis.NewExtractor(analysis.Config{}, logging.NewNop())
	cfg := extractor.Config()
	if cfg.SampleRate != 16000 {
		t.Fatalf("expected default sample rate 16000, got %d", cfg.SampleRate)
	}
	if cfg.CepstralCoefficients != 5 {
		t.Fatalf("expected default cepstral count 5, got %d", cfg.CepstralCoefficients)
	}
	if cfg.PitchMethod != analysis.PitchCentroidProxy {
		t.Fatalf("expected centroid-proxy default, got %q", cfg.PitchMethod)
	}
}
