package main

import (
	"os"
	"path/filepath"
	"testing"

	"eduassist-e2e/internal/infra/config"
)

func TestChecksTolerateNilConfig(t *testing.T) {
	checks := map[string]func(*config.Config) CheckResult{
		"config values":  checkConfigValues,
		"selectors":      checkSelectors,
		"browser binary": checkBrowserBinary,
		"frontend":       checkFrontend,
		"backend":        checkBackend,
		"screenshot dir": checkScreenshotDir,
	}
	for name, fn := range checks {
		res := fn(nil)
		if res.Status == "" {
			t.Errorf("%s check returned no status for nil config", name)
		}
	}
}

func TestRunDoctorCompletesOnBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("target:\n  base_url: \"\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	oldArgs := os.Args
	os.Args = []string{"e2e", "doctor", "--config", path}
	defer func() { os.Args = oldArgs }()

	// Every check must run to completion; the broken config is reported as
	// failed checks, not a crash.
	if err := runDoctor(); err == nil {
		t.Error("doctor should report failed checks for a broken config")
	}
}

func TestRunDoctorCompletesOnMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mangled.yaml")
	if err := os.WriteFile(path, []byte("target: [not a mapping\n"), 0600); err != nil {
		t.Fatal(err)
	}

	oldArgs := os.Args
	os.Args = []string{"e2e", "doctor", "--config", path}
	defer func() { os.Args = oldArgs }()

	if err := runDoctor(); err == nil {
		t.Error("doctor should report failed checks for malformed YAML")
	}
}

func TestCheckSelectors(t *testing.T) {
	cfg := config.Defaults()
	if res := checkSelectors(cfg); res.Status != StatusPass {
		t.Errorf("empty table: status = %s, want PASS", res.Status)
	}

	cfg.Selectors = map[string]map[string][]string{
		"auth": {
			"email_input": {"[data-testid='email-input']", "input[type='email']"},
		},
	}
	if res := checkSelectors(cfg); res.Status != StatusPass {
		t.Errorf("valid table: status = %s (%s), want PASS", res.Status, res.Message)
	}

	cfg.Selectors["auth"]["login_button"] = nil
	res := checkSelectors(cfg)
	if res.Status != StatusFail {
		t.Errorf("empty entry: status = %s, want FAIL", res.Status)
	}
}
