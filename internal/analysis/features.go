package analysis

// Features is the fixed-shape record produced by extraction. Every field is
// always populated; sub-feature failures surface as the documented defaults
// rather than absent values. FormantRatios always carries exactly three
// non-negative entries and SpeakingRate stays inside [50, 300] after the
// saturation rules.
type Features struct {
	MeanPitch        float64
	PitchVariance    float64
	SpectralCentroid float64
	SpeakingRate     float64
	FormantRatios    [3]float64
	Cepstral         []float64
}

// Fallback values for the complete-record default. These are deliberate
// mid-band constants, not neutral zeros, so a degenerate waveform still
// classifies against every profile.
const (
	DefaultMeanPitch     = 200.0
	DefaultPitchVariance = 0.15
	DefaultCentroid      = 200.0
	DefaultSpeakingRate  = 140.0
)

// DefaultFormantRatios returns the fallback triple used when spectral shape
// statistics cannot be derived.
func DefaultFormantRatios() [3]float64 {
	return [3]float64{1.2, 2.0, 1.6}
}

// DefaultFeatures returns the complete fallback record used when extraction
// cannot produce any usable signal.
func DefaultFeatures(cepstralCoefficients int) Features {
	if cepstralCoefficients <= 0 {
		cepstralCoefficients = defaultCepstralCount
	}
	return Features{
		MeanPitch:        DefaultMeanPitch,
		PitchVariance:    DefaultPitchVariance,
		SpectralCentroid: DefaultCentroid,
		SpeakingRate:     DefaultSpeakingRate,
		FormantRatios:    DefaultFormantRatios(),
		Cepstral:         make([]float64, cepstralCoefficients),
	}
}
