package analysis

import (
	"math"
	"math/cmplx"
)

// Short-time analysis geometry shared by every sub-feature.
const (
	frameLength = 2048
	hopLength   = 512

	rolloffFraction = 0.85
)

// spectrogram holds per-frame magnitude spectra plus the bin center
// frequencies for one waveform.
type spectrogram struct {
	mags       [][]float64
	freqs      []float64
	sampleRate int
}

// newSpectrogram windows the waveform into frameLength/hopLength frames and
// records the magnitude spectrum of each. Waveforms shorter than one frame
// are zero-padded so any non-empty input yields at least one frame.
func newSpectrogram(samples []float64, sampleRate int) *spectrogram {
	if len(samples) == 0 || sampleRate <= 0 {
		return nil
	}

	frameCount := 1
	if len(samples) >= frameLength {
		frameCount = 1 + (len(samples)-frameLength)/hopLength
	}

	bins := frameLength/2 + 1
	sg := &spectrogram{
		mags:       make([][]float64, 0, frameCount),
		freqs:      make([]float64, bins),
		sampleRate: sampleRate,
	}
	for i := range sg.freqs {
		sg.freqs[i] = float64(i) * float64(sampleRate) / frameLength
	}

	window := hannWindow(frameLength)
	buf := make([]complex128, frameLength)
	for f := 0; f < frameCount; f++ {
		start := f * hopLength
		for i := 0; i < frameLength; i++ {
			var v float64
			if idx := start + i; idx < len(samples) {
				v = samples[idx]
			}
			buf[i] = complex(v*window[i], 0)
		}
		fft(buf)
		mag := make([]float64, bins)
		for i := 0; i < bins; i++ {
			mag[i] = cmplx.Abs(buf[i])
		}
		sg.mags = append(sg.mags, mag)
	}
	return sg
}

// centroids returns the amplitude-weighted mean frequency of each frame.
// Silent frames yield 0.
func (s *spectrogram) centroids() []float64 {
	out := make([]float64, len(s.mags))
	for i, mag := range s.mags {
		var weighted, total float64
		for b, m := range mag {
			weighted += s.freqs[b] * m
			total += m
		}
		if total > 0 {
			out[i] = weighted / total
		}
	}
	return out
}

// bandwidths returns the magnitude-weighted frequency spread around each
// frame's centroid.
func (s *spectrogram) bandwidths(centroids []float64) []float64 {
	out := make([]float64, len(s.mags))
	for i, mag := range s.mags {
		var weighted, total float64
		for b, m := range mag {
			d := s.freqs[b] - centroids[i]
			weighted += m * d * d
			total += m
		}
		if total > 0 {
			out[i] = math.Sqrt(weighted / total)
		}
	}
	return out
}

// rolloffs returns, per frame, the lowest frequency below which the given
// fraction of total spectral magnitude sits.
func (s *spectrogram) rolloffs(fraction float64) []float64 {
	out := make([]float64, len(s.mags))
	for i, mag := range s.mags {
		var total float64
		for _, m := range mag {
			total += m
		}
		if total <= 0 {
			continue
		}
		threshold := fraction * total
		var cumulative float64
		for b, m := range mag {
			cumulative += m
			if cumulative >= threshold {
				out[i] = s.freqs[b]
				break
			}
		}
	}
	return out
}

// meanSpectrum averages the magnitude spectrum across frames.
func (s *spectrogram) meanSpectrum() []float64 {
	out := make([]float64, len(s.freqs))
	if len(s.mags) == 0 {
		return out
	}
	for _, mag := range s.mags {
		for b, m := range mag {
			out[b] += m
		}
	}
	for b := range out {
		out[b] /= float64(len(s.mags))
	}
	return out
}

// zeroCrossingRates returns the per-frame fraction of adjacent samples that
// change sign, using the same frame geometry as the spectrogram.
func zeroCrossingRates(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	frameCount := 1
	if len(samples) >= frameLength {
		frameCount = 1 + (len(samples)-frameLength)/hopLength
	}
	out := make([]float64, 0, frameCount)
	for f := 0; f < frameCount; f++ {
		start := f * hopLength
		end := start + frameLength
		if end > len(samples) {
			end = len(samples)
		}
		crossings := 0
		for i := start + 1; i < end; i++ {
			if (samples[i-1] >= 0) != (samples[i] >= 0) {
				crossings++
			}
		}
		out = append(out, float64(crossings)/float64(frameLength))
	}
	return out
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// varianceOf returns the population variance of values.
func varianceOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := meanOf(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}
