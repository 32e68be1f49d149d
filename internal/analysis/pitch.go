package analysis

import "sort"

// Named fallbacks for each formant ratio so every division guard is
// independently testable.
const (
	fallbackBandwidthCentroidRatio = 1.2
	fallbackRolloffCentroidRatio   = 2.0
	fallbackRolloffBandwidthRatio  = 1.6

	fallbackFirstPeakRatio  = 1.0
	fallbackSecondPeakRatio = 2.0
	fallbackThirdPeakRatio  = 1.5
)

// Peak tracking only considers candidates inside the usable voice band.
const (
	pitchFloorHz = 150.0
	pitchCeilHz  = 4000.0

	formantPeakCount = 10
)

// pitchTracker derives pitch statistics and formant ratios from a
// spectrogram. The two implementations mirror the recognized analysis
// presets.
type pitchTracker interface {
	pitch(sg *spectrogram) (mean, variance float64)
	formants(sg *spectrogram) [3]float64
}

// centroidTracker approximates pitch with the short-time spectral centroid
// and derives formant ratios from bandwidth/rolloff shape statistics.
type centroidTracker struct{}

func (centroidTracker) pitch(sg *spectrogram) (float64, float64) {
	centroids := sg.centroids()
	mean := meanOf(centroids)
	if mean <= 0 {
		return mean, DefaultPitchVariance
	}
	// Normalizing by the mean keeps the variance dimensionless and
	// comparable across voices with different brightness.
	return mean, varianceOf(centroids) / mean
}

func (centroidTracker) formants(sg *spectrogram) [3]float64 {
	centroids := sg.centroids()
	centroid := meanOf(centroids)
	if centroid <= 0 {
		return DefaultFormantRatios()
	}
	bandwidth := meanOf(sg.bandwidths(centroids))
	rolloff := meanOf(sg.rolloffs(rolloffFraction))
	return [3]float64{
		safeRatio(bandwidth, centroid, fallbackBandwidthCentroidRatio),
		safeRatio(rolloff, centroid, fallbackRolloffCentroidRatio),
		safeRatio(rolloff, bandwidth, fallbackRolloffBandwidthRatio),
	}
}

// peakTracker follows the strongest spectral bin per frame inside the voice
// band and derives formant ratios from the lowest peaks of the averaged
// spectrum.
type peakTracker struct{}

func (peakTracker) pitch(sg *spectrogram) (float64, float64) {
	values := make([]float64, 0, len(sg.mags))
	for _, mag := range sg.mags {
		best := -1
		var bestMag float64
		for b, m := range mag {
			f := sg.freqs[b]
			if f < pitchFloorHz || f > pitchCeilHz {
				continue
			}
			if best < 0 || m > bestMag {
				best, bestMag = b, m
			}
		}
		if best >= 0 && sg.freqs[best] > 0 {
			values = append(values, sg.freqs[best])
		}
	}
	if len(values) == 0 {
		return 0, 0
	}
	return meanOf(values), varianceOf(values)
}

func (peakTracker) formants(sg *spectrogram) [3]float64 {
	avg := sg.meanSpectrum()
	fallback := [3]float64{fallbackFirstPeakRatio, fallbackSecondPeakRatio, fallbackThirdPeakRatio}

	peakFreqs := make([]float64, 0, formantPeakCount)
	for _, bin := range topBins(avg, formantPeakCount) {
		if f := sg.freqs[bin]; f > 0 {
			peakFreqs = append(peakFreqs, f)
		}
	}
	sort.Float64s(peakFreqs)
	if len(peakFreqs) < 3 {
		return fallback
	}
	f0, f1, f2 := peakFreqs[0], peakFreqs[1], peakFreqs[2]
	return [3]float64{
		safeRatio(f1, f0, fallbackFirstPeakRatio),
		safeRatio(f2, f0, fallbackSecondPeakRatio),
		safeRatio(f2, f1, fallbackThirdPeakRatio),
	}
}

// topBins returns the indices of the count largest values, strongest first.
func topBins(values []float64, count int) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] > values[idx[b]] })
	if len(idx) > count {
		idx = idx[:count]
	}
	return idx
}

func safeRatio(numerator, denominator, fallback float64) float64 {
	if denominator <= 0 {
		return fallback
	}
	return numerator / denominator
}
