package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError collects all config problems so the user sees them at once.
type ValidationError struct {
	Problems []string
}

func (v *ValidationError) Error() string {
	return "invalid configuration:\n  - " + strings.Join(v.Problems, "\n  - ")
}

func (v *ValidationError) HasErrors() bool { return len(v.Problems) > 0 }

func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Problems = append(v.Problems, fmt.Sprintf(format, args...))
}

// Validate checks the configuration for problems.
func Validate(cfg *Config) error {
	ve := &ValidationError{}

	validateTarget(cfg, ve)
	validateBrowser(cfg, ve)
	validateWaits(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateTarget(cfg *Config, ve *ValidationError) {
	if cfg.Target.BaseURL == "" {
		ve.Add("target.base_url is required")
		return
	}
	if _, err := url.ParseRequestURI(cfg.Target.BaseURL); err != nil {
		ve.Add("target.base_url %q is not a valid URL", cfg.Target.BaseURL)
	}
	if cfg.Target.BackendURL != "" {
		if _, err := url.ParseRequestURI(cfg.Target.BackendURL); err != nil {
			ve.Add("target.backend_url %q is not a valid URL", cfg.Target.BackendURL)
		}
	}
}

func validateBrowser(cfg *Config, ve *ValidationError) {
	if cfg.Browser.WindowWidth <= 0 {
		ve.Add("browser.window_width must be positive, got %d", cfg.Browser.WindowWidth)
	}
	if cfg.Browser.WindowHeight <= 0 {
		ve.Add("browser.window_height must be positive, got %d", cfg.Browser.WindowHeight)
	}
	if cfg.Browser.RemoteCDPURL != "" {
		if !strings.HasPrefix(cfg.Browser.RemoteCDPURL, "ws://") &&
			!strings.HasPrefix(cfg.Browser.RemoteCDPURL, "wss://") &&
			!strings.HasPrefix(cfg.Browser.RemoteCDPURL, "http://") &&
			!strings.HasPrefix(cfg.Browser.RemoteCDPURL, "https://") {
			ve.Add("browser.remote_cdp_url %q must be a ws:// or http:// endpoint", cfg.Browser.RemoteCDPURL)
		}
	}
}

func validateWaits(cfg *Config, ve *ValidationError) {
	checkDuration := func(field, value string) {
		if value == "" {
			return
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			ve.Add("waits.%s %q is not a valid duration", field, value)
			return
		}
		if d <= 0 {
			ve.Add("waits.%s must be positive, got %s", field, value)
		}
	}
	checkDuration("implicit_wait", cfg.Waits.ImplicitWait)
	checkDuration("page_load_timeout", cfg.Waits.PageLoadTimeout)
	checkDuration("script_timeout", cfg.Waits.ScriptTimeout)
	checkDuration("poll_interval", cfg.Waits.PollInterval)
	for name, value := range cfg.Waits.Tiers {
		checkDuration("tiers."+name, value)
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("logger.level %q is not one of debug/info/warn/error", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is not one of text/json", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "stdout", "noop", "":
	default:
		ve.Add("tracer.exporter %q is not one of stdout/noop", cfg.Tracer.Exporter)
	}
}
