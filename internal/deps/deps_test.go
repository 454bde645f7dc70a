package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStubBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStubBinary(t, binDir, "present")

	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}

	if results[2].Available {
		t.Fatal("expected unset command to be unavailable")
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for unset command: %s", results[2].Detail)
	}
}

func TestRequirementsDefaultsToPathFFmpeg(t *testing.T) {
	reqs := Requirements("")
	if len(reqs) != 1 || reqs[0].Command != "ffmpeg" {
		t.Fatalf("unexpected requirements: %#v", reqs)
	}

	custom := Requirements("/opt/ffmpeg/bin/ffmpeg")
	if custom[0].Command != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected configured path, got %q", custom[0].Command)
	}
}

func TestVerify(t *testing.T) {
	binDir := t.TempDir()
	present := writeStubBinary(t, binDir, "ffmpeg")

	if err := Verify(Requirements(present)); err != nil {
		t.Fatalf("Verify with present binary: %v", err)
	}

	err := Verify(Requirements("clearly-not-present-binary"))
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "FFmpeg") {
		t.Fatalf("error should name the missing binary: %v", err)
	}

	optional := []Requirement{{Name: "Extra", Command: "also-missing", Optional: true}}
	if err := Verify(optional); err != nil {
		t.Fatalf("optional requirements must not fail verification: %v", err)
	}
}
