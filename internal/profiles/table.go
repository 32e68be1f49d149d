// Package profiles holds the reference acoustic profile for each accent
// the classifier can report. The table is static reference data, not
// user configuration, and lookups never touch disk or network.
package profiles

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Profile captures the expected acoustic signature of one accent.
type Profile struct {
	// FormantRatios holds the expected F1/F0, F2/F0, and F2/F1 ratios.
	FormantRatios [3]float64
	// PitchVariance is the expected normalized pitch variance.
	PitchVariance float64
	// SpeakingRate is the expected speaking rate in words per minute.
	SpeakingRate float64
}

// Table is an immutable set of accent profiles. Accents are kept in
// lexical order so iteration order is stable across runs.
type Table struct {
	entries map[string]Profile
	order   []string
}

// NewTable returns the built-in accent profile table.
func NewTable() *Table {
	entries := map[string]Profile{
		"american": {
			FormantRatios: [3]float64{1.2, 1.8, 2.4},
			PitchVariance: 0.15,
			SpeakingRate:  150,
		},
		"australian": {
			FormantRatios: [3]float64{1.3, 1.9, 2.5},
			PitchVariance: 0.18,
			SpeakingRate:  160,
		},
		"british": {
			FormantRatios: [3]float64{1.1, 1.6, 2.2},
			PitchVariance: 0.12,
			SpeakingRate:  140,
		},
		"canadian": {
			FormantRatios: [3]float64{1.15, 1.7, 2.3},
			PitchVariance: 0.14,
			SpeakingRate:  145,
		},
		"indian": {
			FormantRatios: [3]float64{1.0, 1.4, 2.0},
			PitchVariance: 0.20,
			SpeakingRate:  130,
		},
	}
	order := []string{"american", "australian", "british", "canadian", "indian"}
	return &Table{entries: entries, order: order}
}

// Lookup returns the profile for the given accent identifier.
func (t *Table) Lookup(accent string) (Profile, bool) {
	profile, ok := t.entries[accent]
	return profile, ok
}

// Accents returns the accent identifiers in lexical order. The returned
// slice is a copy and safe for callers to modify.
func (t *Table) Accents() []string {
	accents := make([]string, len(t.order))
	copy(accents, t.order)
	return accents
}

// Len reports how many accents the table holds.
func (t *Table) Len() int {
	return len(t.order)
}

// DisplayName renders an accent identifier for human-facing output,
// for example "american" becomes "American".
func DisplayName(accent string) string {
	if accent == "" {
		return "Unknown"
	}
	return cases.Title(language.Und).String(accent)
}
