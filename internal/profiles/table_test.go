package profiles_test

import (
	"sort"
	"testing"

	"twang/internal/profiles"
)

func TestNewTableHoldsAllAccents(t *testing.T) {
	table := profiles.NewTable()
	if table.Len() != 5 {
		t.Fatalf("expected 5 accents, got %d", table.Len())
	}
	for _, accent := range []string{"american", "british", "australian", "indian", "canadian"} {
		profile, ok := table.Lookup(accent)
		if !ok {
			t.Fatalf("expected profile for %q", accent)
		}
		for i, ratio := range profile.FormantRatios {
			if ratio <= 0 {
				t.Fatalf("%s formant ratio %d not positive: %v", accent, i, ratio)
			}
		}
		if profile.PitchVariance <= 0 {
			t.Fatalf("%s pitch variance not positive: %v", accent, profile.PitchVariance)
		}
		if profile.SpeakingRate < 50 || profile.SpeakingRate > 300 {
			t.Fatalf("%s speaking rate outside plausible range: %v", accent, profile.SpeakingRate)
		}
	}
}

func TestLookupUnknownAccent(t *testing.T) {
	table := profiles.NewTable()
	if _, ok := table.Lookup("martian"); ok {
		t.Fatal("expected lookup miss for unknown accent")
	}
	if _, ok := table.Lookup(""); ok {
		t.Fatal("expected lookup miss for empty accent")
	}
}

func TestAmericanProfileValues(t *testing.T) {
	table := profiles.NewTable()
	profile, ok := table.Lookup("american")
	if !ok {
		t.Fatal("expected american profile")
	}
	if profile.FormantRatios != [3]float64{1.2, 1.8, 2.4} {
		t.Fatalf("unexpected formant ratios: %v", profile.FormantRatios)
	}
	if profile.PitchVariance != 0.15 {
		t.Fatalf("unexpected pitch variance: %v", profile.PitchVariance)
	}
	if profile.SpeakingRate != 150 {
		t.Fatalf("unexpected speaking rate: %v", profile.SpeakingRate)
	}
}

func TestAccentsAreLexicallyOrdered(t *testing.T) {
	table := profiles.NewTable()
	accents := table.Accents()
	if !sort.StringsAreSorted(accents) {
		t.Fatalf("accents not in lexical order: %v", accents)
	}
	if accents[0] != "american" {
		t.Fatalf("expected american first, got %q", accents[0])
	}
}

func TestAccentsReturnsCopy(t *testing.T) {
	table := profiles.NewTable()
	accents := table.Accents()
	accents[0] = "mutated"
	if table.Accents()[0] != "american" {
		t.Fatal("mutating the returned slice changed the table")
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"american":   "American",
		"british":    "British",
		"australian": "Australian",
		"indian":     "Indian",
		"canadian":   "Canadian",
		"":           "Unknown",
	}
	for accent, want := range cases {
		if got := profiles.DisplayName(accent); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", accent, got, want)
		}
	}
}
