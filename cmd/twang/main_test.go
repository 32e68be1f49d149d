package main

import (
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "twang")
}

func TestRootShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, out, "analyze")
	requireContains(t, out, "profiles")
	requireContains(t, out, "history")
}

func TestBuildVersionFallsBackToDevel(t *testing.T) {
	v := buildVersion()
	if strings.TrimSpace(v) == "" {
		t.Fatalf("buildVersion returned empty string")
	}
}
