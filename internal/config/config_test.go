package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Discovery.ENABaseURL == "" {
		t.Error("default ENA base URL should not be empty")
	}
	if !strings.Contains(cfg.Discovery.ENABaseURL, "ebi.ac.uk") {
		t.Errorf("default ENA base URL should point at EBI, got %q", cfg.Discovery.ENABaseURL)
	}
	if cfg.Discovery.TimeoutSeconds != 30 {
		t.Errorf("expected default timeout 30s, got %d", cfg.Discovery.TimeoutSeconds)
	}
	if cfg.Discovery.IntervalHours != 6 {
		t.Errorf("expected default interval 6h, got %d", cfg.Discovery.IntervalHours)
	}
	if cfg.Database.JournalMode != "WAL" {
		t.Errorf("expected WAL journal mode, got %q", cfg.Database.JournalMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/biodisc.yaml")
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Discovery.MaxSamples != 100 {
		t.Errorf("expected default max_samples 100, got %d", cfg.Discovery.MaxSamples)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "biodisc.yaml")
	content := `
discovery:
  ena_base_url: http://localhost:9999/search
  timeout_seconds: 5
  days_back: 7
server:
  port: 9090
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Discovery.ENABaseURL != "http://localhost:9999/search" {
		t.Errorf("ena_base_url not overridden, got %q", cfg.Discovery.ENABaseURL)
	}
	if cfg.Discovery.TimeoutSeconds != 5 {
		t.Errorf("timeout_seconds not overridden, got %d", cfg.Discovery.TimeoutSeconds)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port not overridden, got %d", cfg.Server.Port)
	}
	// Untouched values keep defaults
	if cfg.Discovery.MaxSamples != 100 {
		t.Errorf("max_samples should keep default, got %d", cfg.Discovery.MaxSamples)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "biodisc.yaml")
	content := `
discovery:
  timeout_seconds: -1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("negative timeout should fail validation")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 8123
	if err := cfg.Save(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Server.Port != 8123 {
		t.Errorf("expected port 8123 after round trip, got %d", loaded.Server.Port)
	}
}

func TestGetConfigPathEnvOverride(t *testing.T) {
	t.Setenv("BIODISC_CONFIG", "/etc/biodisc/config.yaml")
	if got := GetConfigPath(); got != "/etc/biodisc/config.yaml" {
		t.Errorf("expected env override, got %q", got)
	}
}
