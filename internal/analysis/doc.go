// Package analysis turns a mono PCM waveform into the fixed-shape acoustic
// feature record consumed by accent classification.
//
// Extraction is a total operation: sub-feature failures (silent input, empty
// spectra, zero denominators) are masked by documented per-feature defaults
// so downstream scoring always receives a complete record. Two pitch
// strategies are available behind one extractor, selected by configuration:
// a spectral-centroid proxy (cheap, numerically stable) and per-frame peak
// tracking.
package analysis
