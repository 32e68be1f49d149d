package analysis

import (
	"log/slog"
	"math"

	"twang/internal/logging"
)

// PitchMethod selects the extraction strategy.
type PitchMethod string

const (
	// PitchCentroidProxy approximates pitch with the spectral centroid.
	PitchCentroidProxy PitchMethod = "centroid-proxy"
	// PitchPeakTracking follows the strongest voice-band bin per frame.
	PitchPeakTracking PitchMethod = "piptrack"
)

const defaultCepstralCount = 5

// Config carries the recognized extraction presets. The zero value is
// normalized to the low-resource preset (16 kHz, 30 s cap, 5 cepstral
// coefficients, centroid-proxy pitch).
type Config struct {
	SampleRate           int
	MaxDurationSeconds   int
	CepstralCoefficients int
	PitchMethod          PitchMethod
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.MaxDurationSeconds < 0 {
		c.MaxDurationSeconds = 0
	}
	if c.CepstralCoefficients <= 0 {
		c.CepstralCoefficients = defaultCepstralCount
	}
	if c.PitchMethod == "" {
		c.PitchMethod = PitchCentroidProxy
	}
	return c
}

// Extractor derives the acoustic feature record from a waveform. Safe for
// concurrent use; all state is read-only after construction.
type Extractor struct {
	cfg     Config
	tracker pitchTracker
	logger  *slog.Logger
}

// NewExtractor builds an extractor for the provided configuration.
func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	cfg = cfg.withDefaults()
	var tracker pitchTracker = centroidTracker{}
	if cfg.PitchMethod == PitchPeakTracking {
		tracker = peakTracker{}
	}
	return &Extractor{
		cfg:     cfg,
		tracker: tracker,
		logger:  logging.NewComponentLogger(logger, "extractor"),
	}
}

// Config returns the normalized extraction configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Extract computes the feature record for the waveform. It never fails:
// degenerate input yields the complete default record and individual
// sub-feature failures fall back to their documented defaults.
func (e *Extractor) Extract(samples []float64, sampleRate int) Features {
	feats := DefaultFeatures(e.cfg.CepstralCoefficients)

	if sampleRate <= 0 {
		sampleRate = e.cfg.SampleRate
	}
	if len(samples) == 0 || sampleRate <= 0 {
		e.logger.Warn("no usable waveform, using default features",
			logging.Int("samples", len(samples)),
			logging.Int("sample_rate", sampleRate))
		return feats
	}

	// Only the leading bounded duration is analyzed. Resource bound, not
	// an accuracy decision.
	if e.cfg.MaxDurationSeconds > 0 {
		if limit := e.cfg.MaxDurationSeconds * sampleRate; len(samples) > limit {
			samples = samples[:limit]
		}
	}

	sg := newSpectrogram(samples, sampleRate)
	if sg == nil || len(sg.mags) == 0 {
		e.logger.Warn("spectrogram empty, using default features")
		return feats
	}

	mean, variance := e.tracker.pitch(sg)
	feats.MeanPitch = sanitize(mean, DefaultMeanPitch)
	feats.PitchVariance = sanitize(variance, DefaultPitchVariance)
	feats.SpectralCentroid = sanitize(meanOf(sg.centroids()), DefaultCentroid)
	feats.Cepstral = cepstralMeans(sg, e.cfg.CepstralCoefficients)
	feats.SpeakingRate = NormalizeSpeakingRate(rawSpeakingRate(samples, sampleRate))
	feats.FormantRatios = e.tracker.formants(sg)

	e.logger.Debug("features extracted",
		logging.Int("frames", len(sg.mags)),
		logging.Float64("mean_pitch", feats.MeanPitch),
		logging.Float64("pitch_variance", feats.PitchVariance),
		logging.Float64("speaking_rate", feats.SpeakingRate))
	return feats
}

// cepstralMeans averages the leading DCT-II coefficients of each frame's log
// magnitude spectrum. Failure (no frames) leaves every mean at 0.
func cepstralMeans(sg *spectrogram, count int) []float64 {
	sums := make([]float64, count)
	if len(sg.mags) == 0 {
		return sums
	}
	logSpectrum := make([]float64, len(sg.freqs))
	for _, mag := range sg.mags {
		for i, m := range mag {
			logSpectrum[i] = math.Log(m + 1e-10)
		}
		for i, c := range dctII(logSpectrum, count) {
			sums[i] += c
		}
	}
	for i := range sums {
		sums[i] /= float64(len(sg.mags))
	}
	return sums
}

// rawSpeakingRate scales the mean zero-crossing rate to an approximate
// events-per-minute figure.
func rawSpeakingRate(samples []float64, sampleRate int) float64 {
	rates := zeroCrossingRates(samples)
	if len(rates) == 0 {
		return 0
	}
	return meanOf(rates) * float64(sampleRate) / hopLength * 60
}

// NormalizeSpeakingRate applies the saturation rules that absorb noisy
// estimates into a plausible band: rates above 300 snap to exactly 150,
// rates below 50 snap to exactly 130, anything else passes through.
func NormalizeSpeakingRate(raw float64) float64 {
	switch {
	case raw > 300:
		return 150
	case raw < 50:
		return 130
	default:
		return raw
	}
}

// sanitize guards against NaN/Inf escaping into the record.
func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
