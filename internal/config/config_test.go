package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(Flags{})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if !cfg.Headless {
		t.Error("Headless should default to true")
	}
	if cfg.ViewportWidth != DefaultViewportWidth || cfg.ViewportHeight != DefaultViewportHeight {
		t.Errorf("viewport = %dx%d, want %dx%d",
			cfg.ViewportWidth, cfg.ViewportHeight, DefaultViewportWidth, DefaultViewportHeight)
	}
	if cfg.NavTimeout != DefaultNavTimeout {
		t.Errorf("NavTimeout = %v, want %v", cfg.NavTimeout, DefaultNavTimeout)
	}
	if cfg.Parallel != 1 {
		t.Errorf("Parallel = %d, want 1", cfg.Parallel)
	}
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("E2E_BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("E2E_HEADLESS", "false")
	t.Setenv("E2E_NAV_TIMEOUT_MS", "1500")

	cfg, err := LoadConfig(Flags{})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.BaseURL != "http://127.0.0.1:9999" {
		t.Errorf("BaseURL = %q, want env value", cfg.BaseURL)
	}
	if cfg.Headless {
		t.Error("Headless should be false from env")
	}
	if cfg.NavTimeout != 1500*time.Millisecond {
		t.Errorf("NavTimeout = %v, want 1.5s", cfg.NavTimeout)
	}
}

func TestLoadConfig_FlagsBeatEnvAndFile(t *testing.T) {
	t.Setenv("E2E_BASE_URL", "http://from-env")

	path := filepath.Join(t.TempDir(), "e2e.yaml")
	fileBody := `
base_url: http://from-file
viewport:
  width: 1280
  height: 800
parallel: 2
scenarios:
  - walkthrough
`
	if err := os.WriteFile(path, []byte(fileBody), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadConfig(Flags{
		ConfigPath: path,
		BaseURL:    "http://from-flag",
		Scenarios:  "diagnostics, recording",
		Parallel:   4,
	})
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.BaseURL != "http://from-flag" {
		t.Errorf("BaseURL = %q, flag should win", cfg.BaseURL)
	}
	if cfg.ViewportWidth != 1280 || cfg.ViewportHeight != 800 {
		t.Errorf("viewport = %dx%d, want file values 1280x800", cfg.ViewportWidth, cfg.ViewportHeight)
	}
	if cfg.Parallel != 4 {
		t.Errorf("Parallel = %d, flag should win", cfg.Parallel)
	}
	if len(cfg.Scenarios) != 2 || cfg.Scenarios[0] != "diagnostics" || cfg.Scenarios[1] != "recording" {
		t.Errorf("Scenarios = %v, want flag selection", cfg.Scenarios)
	}
}

func TestLoadConfig_ValidationCollectsAllIssues(t *testing.T) {
	cfg := &Config{
		BaseURL:        "ftp://wrong-scheme",
		ViewportWidth:  0,
		ViewportHeight: 0,
		NavTimeout:     0,
		ActionTimeout:  time.Second,
		Parallel:       0,
	}
	err := validate(cfg)
	if err == nil {
		t.Fatal("validate should fail")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if len(verr.Errors) < 3 {
		t.Errorf("expected at least 3 issues, got %d: %v", len(verr.Errors), verr.Errors)
	}
	if !strings.Contains(verr.Error(), "base URL") {
		t.Errorf("error text missing base URL issue: %s", verr.Error())
	}
}

func TestLoadConfig_FixtureModeSkipsBaseURLCheck(t *testing.T) {
	cfg := &Config{
		Fixture:        true,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		NavTimeout:     DefaultNavTimeout,
		ActionTimeout:  DefaultActionTimeout,
		Parallel:       1,
	}
	if err := validate(cfg); err != nil {
		t.Fatalf("validate(fixture, no base URL) failed: %v", err)
	}

	loaded, err := LoadConfig(Flags{Fixture: true})
	if err != nil {
		t.Fatalf("LoadConfig(fixture) failed: %v", err)
	}
	if !loaded.Fixture {
		t.Error("Fixture should be set")
	}
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	_, err := LoadConfig(Flags{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
