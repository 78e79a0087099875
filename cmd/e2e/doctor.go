package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"eduassist-e2e/internal/browser"
	"eduassist-e2e/internal/infra/config"
)

// CheckStatus represents the result of a health check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// CheckResult holds the outcome of a single health check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // optional fix suggestion
}

// Check is a named health check function.
type Check struct {
	Name string
	Fn   func(cfg *config.Config) CheckResult
}

// runDoctor executes all health checks and reports results.
func runDoctor() error {
	cfgPath := configPath()

	// Most checks still work when the config file is missing: Load falls
	// back to defaults. When the file exists but is broken, Load returns no
	// config at all; the remaining checks then run against defaults so the
	// report still completes, with the config checks flagging the real fault.
	cfg, cfgErr := config.Load(cfgPath)
	if cfg == nil {
		cfg = config.Defaults()
	}

	checks := []Check{
		{Name: "Config file", Fn: checkConfigFile(cfgPath, cfgErr)},
		{Name: "Config values", Fn: checkConfigValues},
		{Name: "Selector table", Fn: checkSelectors},
		{Name: "Browser binary", Fn: checkBrowserBinary},
		{Name: "Frontend reachable", Fn: checkFrontend},
		{Name: "Backend reachable", Fn: checkBackend},
		{Name: "Screenshot directory", Fn: checkScreenshotDir},
	}

	fmt.Println("e2e doctor")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	var pass, warn, fail int
	for _, check := range checks {
		result := check.Fn(cfg)
		result.Name = check.Name

		fmt.Printf("  %s %s: %s\n", statusIcon(result.Status), result.Name, result.Message)
		if result.Fix != "" {
			fmt.Printf("      Fix: %s\n", result.Fix)
		}

		switch result.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("Results: %d passed, %d warnings, %d failed\n", pass, warn, fail)

	if fail > 0 {
		fmt.Println("\nFix the FAIL issues above before running the suite.")
		return fmt.Errorf("%d check(s) failed", fail)
	}
	if warn > 0 {
		fmt.Println("\nThe suite should run, but consider addressing the warnings.")
	} else {
		fmt.Println("\nAll checks passed! The test environment is ready.")
	}
	return nil
}

func statusIcon(s CheckStatus) string {
	switch s {
	case StatusPass:
		return "[PASS]"
	case StatusWarn:
		return "[WARN]"
	case StatusFail:
		return "[FAIL]"
	default:
		return "[????]"
	}
}

// checkConfigFile returns a check that verifies the config file exists and
// parses correctly.
func checkConfigFile(cfgPath string, cfgErr error) func(*config.Config) CheckResult {
	return func(_ *config.Config) CheckResult {
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusWarn,
				Message: fmt.Sprintf("no config file at %s, using defaults", cfgPath),
				Fix:     "Create config.yaml to pin target URLs and timeouts",
			}
		}
		if cfgErr != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("config file invalid: %v", cfgErr),
				Fix:     "Fix the YAML syntax or field values in " + cfgPath,
			}
		}
		return CheckResult{Status: StatusPass, Message: "config loaded from " + cfgPath}
	}
}

func checkConfigValues(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "config unavailable"}
	}
	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     "Correct the reported fields in the config file",
		}
	}
	return CheckResult{Status: StatusPass, Message: "all values valid"}
}

func checkBrowserBinary(cfg *config.Config) CheckResult {
	if cfg != nil && cfg.Browser.BinaryPath != "" {
		if _, err := os.Stat(cfg.Browser.BinaryPath); err != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("configured binary %s not found", cfg.Browser.BinaryPath),
				Fix:     "Fix browser.binary_path or remove it to use auto-detection",
			}
		}
		return CheckResult{Status: StatusPass, Message: cfg.Browser.BinaryPath}
	}

	path, err := browser.FindBinary()
	if err != nil {
		if cfg != nil && cfg.Browser.RemoteCDPURL != "" {
			return CheckResult{
				Status:  StatusWarn,
				Message: fmt.Sprintf("no local browser, will use remote CDP at %s", cfg.Browser.RemoteCDPURL),
			}
		}
		return CheckResult{
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     "Install Chrome or Chromium, or set browser.remote_cdp_url",
		}
	}
	return CheckResult{Status: StatusPass, Message: path}
}

func checkFrontend(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "config unavailable"}
	}
	return checkURL(cfg.Target.BaseURL, "Start the frontend or set target.base_url")
}

func checkBackend(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "config unavailable"}
	}
	return checkURL(cfg.Target.BackendURL, "Start the backend or set target.backend_url")
}

func checkURL(url, fix string) CheckResult {
	if url == "" {
		return CheckResult{Status: StatusWarn, Message: "no URL configured"}
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s unreachable: %v", url, err),
			Fix:     fix,
		}
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s responded %d", url, resp.StatusCode),
		}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%s (%d)", url, resp.StatusCode)}
}

// checkSelectors verifies that every entry in the fallback selector table
// builds a usable locator set.
func checkSelectors(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "config unavailable"}
	}
	if len(cfg.Selectors) == 0 {
		return CheckResult{Status: StatusPass, Message: "no selector table configured"}
	}

	var total int
	var bad []string
	for page, elems := range cfg.Selectors {
		for element := range elems {
			total++
			set, ok := cfg.LocatorSet(page, element)
			if !ok {
				bad = append(bad, page+"."+element)
				continue
			}
			if err := set.Validate(); err != nil {
				bad = append(bad, page+"."+element)
			}
		}
	}
	if len(bad) > 0 {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%d of %d fallback sets unusable: %s", len(bad), total, strings.Join(bad, ", ")),
			Fix:     "Give each selectors entry at least one non-empty selector",
		}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d fallback sets valid", total)}
}

func checkScreenshotDir(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "config unavailable"}
	}
	dir := cfg.Artifacts.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("cannot create %s: %v", dir, err),
			Fix:     "Point artifacts.screenshot_dir at a writable directory",
		}
	}
	return CheckResult{Status: StatusPass, Message: dir + " writable"}
}
