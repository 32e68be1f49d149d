package main

import "testing"

func TestProfilesListsReferenceTable(t *testing.T) {
	out, _, err := runCLI(t, []string{"profiles"}, "")
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	requireContains(t, out, "British")
	requireContains(t, out, "Indian")
	requireContains(t, out, "Formant Ratios")
}
