// Package config provides centralized configuration for the e2e runner.
// It loads configuration from CLI flags, environment variables, and an optional
// YAML file, validates required fields, and provides sensible defaults.
//
// Precedence: CLI flags > environment variables > YAML file > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Defaults match the original walkthrough runs: a phone-sized viewport
	// against the hosted deployment, artifacts under the system temp dir.
	DefaultBaseURL        = "https://omniscribe.vercel.app"
	DefaultViewportWidth  = 390
	DefaultViewportHeight = 844
	DefaultNavTimeout     = 30 * time.Second
	DefaultActionTimeout  = 5 * time.Second
	DefaultSettleDelay    = 2 * time.Second
)

// Config holds all runner configuration.
type Config struct {
	// Target deployment
	BaseURL string

	// Browser session settings
	Headless       bool
	ViewportWidth  int
	ViewportHeight int

	// Timeouts
	NavTimeout    time.Duration // page load / settle
	ActionTimeout time.Duration // element wait and interaction
	SettleDelay   time.Duration // fixed post-navigation delay

	// Artifacts
	ArtifactDir string

	// Execution
	Scenarios []string // empty means all
	Parallel  int      // max concurrently running scenarios
	Fixture   bool     // run against a local in-process fixture app
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// fileConfig mirrors the optional YAML config file.
type fileConfig struct {
	BaseURL  string `yaml:"base_url"`
	Headless *bool  `yaml:"headless"`
	Viewport struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"viewport"`
	NavTimeoutMS    int      `yaml:"nav_timeout_ms"`
	ActionTimeoutMS int      `yaml:"action_timeout_ms"`
	SettleDelayMS   int      `yaml:"settle_delay_ms"`
	ArtifactDir     string   `yaml:"artifact_dir"`
	Scenarios       []string `yaml:"scenarios"`
	Parallel        int      `yaml:"parallel"`
}

// Flags holds raw CLI flag values, parsed by the caller before LoadConfig.
type Flags struct {
	ConfigPath  string
	BaseURL     string
	Headed      bool
	ArtifactDir string
	Scenarios   string // comma-separated
	Parallel    int
	Fixture     bool
}

// LoadConfig builds a Config from defaults, the optional YAML file, environment
// variables, and CLI flag values, in increasing precedence.
func LoadConfig(flags Flags) (*Config, error) {
	cfg := &Config{
		BaseURL:        DefaultBaseURL,
		Headless:       true,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		NavTimeout:     DefaultNavTimeout,
		ActionTimeout:  DefaultActionTimeout,
		SettleDelay:    DefaultSettleDelay,
		ArtifactDir:    os.TempDir(),
		Parallel:       1,
	}

	if flags.ConfigPath != "" {
		if err := applyFile(cfg, flags.ConfigPath); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	applyFlags(cfg, flags)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.Headless != nil {
		cfg.Headless = *fc.Headless
	}
	if fc.Viewport.Width > 0 {
		cfg.ViewportWidth = fc.Viewport.Width
	}
	if fc.Viewport.Height > 0 {
		cfg.ViewportHeight = fc.Viewport.Height
	}
	if fc.NavTimeoutMS > 0 {
		cfg.NavTimeout = time.Duration(fc.NavTimeoutMS) * time.Millisecond
	}
	if fc.ActionTimeoutMS > 0 {
		cfg.ActionTimeout = time.Duration(fc.ActionTimeoutMS) * time.Millisecond
	}
	if fc.SettleDelayMS > 0 {
		cfg.SettleDelay = time.Duration(fc.SettleDelayMS) * time.Millisecond
	}
	if fc.ArtifactDir != "" {
		cfg.ArtifactDir = fc.ArtifactDir
	}
	if len(fc.Scenarios) > 0 {
		cfg.Scenarios = fc.Scenarios
	}
	if fc.Parallel > 0 {
		cfg.Parallel = fc.Parallel
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("E2E_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("E2E_HEADLESS")); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Headless = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("E2E_ARTIFACT_DIR")); v != "" {
		cfg.ArtifactDir = v
	}
	if v := strings.TrimSpace(os.Getenv("E2E_NAV_TIMEOUT_MS")); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.NavTimeout = time.Duration(ms) * time.Millisecond
		}
	}
}

func applyFlags(cfg *Config, flags Flags) {
	if flags.BaseURL != "" {
		cfg.BaseURL = flags.BaseURL
	}
	if flags.Headed {
		cfg.Headless = false
	}
	if flags.ArtifactDir != "" {
		cfg.ArtifactDir = flags.ArtifactDir
	}
	if flags.Scenarios != "" {
		cfg.Scenarios = nil
		for _, name := range strings.Split(flags.Scenarios, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.Scenarios = append(cfg.Scenarios, trimmed)
			}
		}
	}
	if flags.Parallel > 0 {
		cfg.Parallel = flags.Parallel
	}
	if flags.Fixture {
		cfg.Fixture = true
	}
}

func validate(cfg *Config) error {
	var issues []string

	if !cfg.Fixture {
		if cfg.BaseURL == "" {
			issues = append(issues, "base URL is required (flag --base-url, env E2E_BASE_URL, or file base_url)")
		} else if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
			issues = append(issues, fmt.Sprintf("base URL %q must start with http:// or https://", cfg.BaseURL))
		}
	}
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		issues = append(issues, fmt.Sprintf("viewport %dx%d is not a valid size", cfg.ViewportWidth, cfg.ViewportHeight))
	}
	if cfg.NavTimeout <= 0 {
		issues = append(issues, "navigation timeout must be positive")
	}
	if cfg.ActionTimeout <= 0 {
		issues = append(issues, "action timeout must be positive")
	}
	if cfg.Parallel <= 0 {
		issues = append(issues, "parallel must be at least 1")
	}

	if len(issues) > 0 {
		return &ValidationError{Errors: issues}
	}
	return nil
}
