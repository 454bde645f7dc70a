package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recut/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCatalog := filepath.Join(tempHome, ".local", "share", "recut", "recordings.db")
	if cfg.Paths.Catalog != wantCatalog {
		t.Fatalf("unexpected catalog path: got %q want %q", cfg.Paths.Catalog, wantCatalog)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Catalog.DefaultSource != "YouTube" {
		t.Fatalf("unexpected default source: %q", cfg.Catalog.DefaultSource)
	}
	if got := cfg.Catalog.Sources; len(got) != 4 || got[0] != "Bandcamp" {
		t.Fatalf("unexpected seed sources: %v", got)
	}
	if cfg.Trim.UncheckedPrefix != "[UNCHECKED]_" {
		t.Fatalf("unexpected unchecked prefix: %q", cfg.Trim.UncheckedPrefix)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
catalog = "` + filepath.Join(dir, "cat.db") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[logging]
format = "JSON"

[musicbrainz]
base_url = "https://mb.example/ws/2/"
user_agent = "test-agent/1.0"

[catalog]
sources = ["Tape", "Radio"]
default_source = "Radio"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowered format, got %q", cfg.Logging.Format)
	}
	if cfg.MusicBrainz.BaseURL != "https://mb.example/ws/2" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.MusicBrainz.BaseURL)
	}
	if cfg.Catalog.DefaultSource != "Radio" {
		t.Fatalf("unexpected default source: %q", cfg.Catalog.DefaultSource)
	}
}

func TestValidateRejectsUnknownDefaultSource(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.DefaultSource = "Cassette"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "default_source") {
		t.Fatalf("expected default_source validation error, got %v", err)
	}
}

func TestValidateRejectsDuplicateSources(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Sources = []string{"YouTube", "YouTube"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected duplicate source validation error")
	}
}

func TestValidateRequiresUserAgent(t *testing.T) {
	cfg := config.Default()
	cfg.MusicBrainz.UserAgent = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected user agent validation error")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Catalog.DefaultSource != "YouTube" {
		t.Fatalf("unexpected default source in sample: %q", cfg.Catalog.DefaultSource)
	}
}
