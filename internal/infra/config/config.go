package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"eduassist-e2e/internal/domain"
)

// Config is the top-level suite configuration.
type Config struct {
	Target    TargetConfig                   `yaml:"target"`
	Browser   BrowserConfig                  `yaml:"browser"`
	Waits     WaitConfig                     `yaml:"waits"`
	Artifacts ArtifactsConfig                `yaml:"artifacts"`
	Selectors map[string]map[string][]string `yaml:"selectors,omitempty"`
	Logger    LoggerConfig                   `yaml:"logger"`
	Tracer    TracerConfig                   `yaml:"tracer"`
}

// TargetConfig identifies the application under test.
type TargetConfig struct {
	BaseURL    string `yaml:"base_url"`
	BackendURL string `yaml:"backend_url"`
}

// BrowserConfig holds browser launch settings.
type BrowserConfig struct {
	Headless     bool `yaml:"headless"`
	WindowWidth  int  `yaml:"window_width"`
	WindowHeight int  `yaml:"window_height"`
	// BinaryPath pins a specific browser executable. Empty means the local
	// acquisition strategy probes the system PATH and known install locations.
	BinaryPath string `yaml:"binary_path,omitempty"`
	// RemoteCDPURL enables the remote acquisition fallback (a CDP WebSocket
	// endpoint) when no local browser can be started.
	RemoteCDPURL string   `yaml:"remote_cdp_url,omitempty"`
	ExtraArgs    []string `yaml:"extra_args,omitempty"`
}

// WaitConfig holds the session's timeout configuration. Duration fields are
// duration strings ("5s", "1m30s"); invalid or empty values fall back to the
// documented defaults. Tiers are fixed at configuration time and shared
// read-only by all locate/wait operations.
type WaitConfig struct {
	ImplicitWait    string            `yaml:"implicit_wait"`
	PageLoadTimeout string            `yaml:"page_load_timeout"`
	ScriptTimeout   string            `yaml:"script_timeout"`
	PollInterval    string            `yaml:"poll_interval"`
	Tiers           map[string]string `yaml:"tiers,omitempty"`
}

// ArtifactsConfig holds output locations for test artifacts.
type ArtifactsConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// TracerConfig holds OpenTelemetry tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "stdout" or "noop"
}

// Timeout tier names. Tiers group operations by how long they are allowed to
// block: quick DOM checks, ordinary API-backed renders, slow page work, and
// AI tutoring responses.
const (
	TierShort      = "short"
	TierMedium     = "medium"
	TierLong       = "long"
	TierAIResponse = "ai_response"
)

const (
	defaultImplicitWait    = 5 * time.Second
	defaultPageLoadTimeout = 30 * time.Second
	defaultScriptTimeout   = 30 * time.Second
	defaultPollInterval    = 500 * time.Millisecond
)

var defaultTiers = map[string]time.Duration{
	TierShort:      5 * time.Second,
	TierMedium:     15 * time.Second,
	TierLong:       30 * time.Second,
	TierAIResponse: 45 * time.Second,
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Target: TargetConfig{
			BaseURL:    "http://localhost:3000",
			BackendURL: "http://localhost:5000",
		},
		Browser: BrowserConfig{
			Headless:     false,
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
		Waits: WaitConfig{
			ImplicitWait:    "5s",
			PageLoadTimeout: "30s",
			ScriptTimeout:   "30s",
			PollInterval:    "500ms",
		},
		Artifacts: ArtifactsConfig{
			ScreenshotDir: "screenshots",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads configuration from path, layering it over Defaults. A missing
// file is not an error: defaults plus env overrides are returned.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps E2E_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("E2E_BASE_URL"); v != "" {
		cfg.Target.BaseURL = v
	}
	if v := os.Getenv("E2E_BACKEND_URL"); v != "" {
		cfg.Target.BackendURL = v
	}
	if v := os.Getenv("E2E_HEADLESS"); v == "true" {
		cfg.Browser.Headless = true
	}
	if v := os.Getenv("E2E_BROWSER_BINARY"); v != "" {
		cfg.Browser.BinaryPath = v
	}
	if v := os.Getenv("E2E_REMOTE_CDP_URL"); v != "" {
		cfg.Browser.RemoteCDPURL = v
	}
	if v := os.Getenv("E2E_SCREENSHOT_DIR"); v != "" {
		cfg.Artifacts.ScreenshotDir = v
	}
	if v := os.Getenv("E2E_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("E2E_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
		if cfg.Tracer.Exporter == "" || cfg.Tracer.Exporter == "noop" {
			cfg.Tracer.Exporter = "stdout"
		}
	}
}

// parseOr returns the parsed duration, or def when s is empty or invalid.
func parseOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Implicit returns the implicit-wait duration.
func (w WaitConfig) Implicit() time.Duration {
	return parseOr(w.ImplicitWait, defaultImplicitWait)
}

// PageLoad returns the page-load timeout.
func (w WaitConfig) PageLoad() time.Duration {
	return parseOr(w.PageLoadTimeout, defaultPageLoadTimeout)
}

// Script returns the script execution timeout.
func (w WaitConfig) Script() time.Duration {
	return parseOr(w.ScriptTimeout, defaultScriptTimeout)
}

// Poll returns the fixed interval slept between condition samples.
func (w WaitConfig) Poll() time.Duration {
	return parseOr(w.PollInterval, defaultPollInterval)
}

// Tier returns the named timeout tier. Unknown names fall back to the
// medium tier so every wait has an effective bound.
func (w WaitConfig) Tier(name string) time.Duration {
	if s, ok := w.Tiers[name]; ok {
		return parseOr(s, defaultTiers[TierMedium])
	}
	if d, ok := defaultTiers[name]; ok {
		return d
	}
	return defaultTiers[TierMedium]
}

// LocatorSet resolves a named fallback selector list from the selectors
// table into an ordered CSS LocatorSet. The bool result is false when the
// page or element name is not configured.
func (c *Config) LocatorSet(page, element string) (domain.LocatorSet, bool) {
	elems, ok := c.Selectors[page]
	if !ok {
		return nil, false
	}
	selectors, ok := elems[element]
	if !ok || len(selectors) == 0 {
		return nil, false
	}
	return domain.CSSSet(selectors...), true
}
