// ABOUTME: Tests for version command
// ABOUTME: Verifies version information display

package main

import (
	"strings"
	"testing"
)

func TestVersionVariables(t *testing.T) {
	// Defaults are replaced at build time via ldflags
	if Version == "" {
		t.Error("expected Version to be set")
	}
	if Commit == "" {
		t.Error("expected Commit to be set")
	}
	if BuildDate == "" {
		t.Error("expected BuildDate to be set")
	}

	if Version != "dev" {
		t.Logf("Version is %q (non-default, likely built with ldflags)", Version)
	}
}

func TestVersionCommandUse(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %q", versionCmd.Use)
	}
	if versionCmd.Annotations[skipSetup] != "true" {
		t.Error("expected version command to skip store setup")
	}
}

func TestVersionCommandOutput(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if want := "newsdesk " + Version; !strings.Contains(out, want) {
		t.Errorf("expected output to contain %q, got %q", want, out)
	}
}
