package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/chromedp/chromedp"

	"eduassist-e2e/internal/domain"
	"eduassist-e2e/internal/infra/config"
)

// Allocator is one strategy for obtaining a browser to drive. New tries a
// chain of allocators in order until one produces a usable browser, so how a
// binary or endpoint is acquired stays pluggable rather than hard-coded.
type Allocator interface {
	// Name identifies the strategy in logs and errors.
	Name() string
	// Allocate prepares a chromedp allocator context. The returned cancel
	// must release any resources even when the browser never starts.
	Allocate(parent context.Context) (context.Context, context.CancelFunc, error)
}

// DefaultAllocators returns the standard acquisition chain: a locally
// installed browser first, then a remote CDP endpoint when one is configured.
func DefaultAllocators(cfg config.BrowserConfig) []Allocator {
	return []Allocator{
		LocalAllocator{Config: cfg},
		RemoteAllocator{URL: cfg.RemoteCDPURL},
	}
}

// LocalAllocator launches a system-installed Chrome or Chromium process.
type LocalAllocator struct {
	Config config.BrowserConfig
}

func (LocalAllocator) Name() string { return "local" }

func (a LocalAllocator) Allocate(parent context.Context) (context.Context, context.CancelFunc, error) {
	execPath := a.Config.BinaryPath
	if execPath == "" {
		found, err := FindBinary()
		if err != nil {
			return nil, nil, domain.WrapOp("local allocator", err)
		}
		execPath = found
	}

	// Copy default options to avoid mutating the package-level slice.
	opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
	copy(opts, chromedp.DefaultExecAllocatorOptions[:])
	opts = append(opts,
		chromedp.ExecPath(execPath),
		chromedp.Flag("headless", a.Config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		// Test-convenience relaxations for local fixtures.
		chromedp.Flag("disable-web-security", true),
		chromedp.Flag("allow-running-insecure-content", true),
		// Keep the automation infobar and navigator.webdriver hints off.
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(a.Config.WindowWidth, a.Config.WindowHeight),
	)
	opts = append(opts, extraArgOptions(a.Config.ExtraArgs)...)

	ctx, cancel := chromedp.NewExecAllocator(parent, opts...)
	return ctx, cancel, nil
}

// RemoteAllocator attaches to an already-running browser over CDP.
type RemoteAllocator struct {
	URL string
}

func (RemoteAllocator) Name() string { return "remote" }

func (a RemoteAllocator) Allocate(parent context.Context) (context.Context, context.CancelFunc, error) {
	if a.URL == "" {
		return nil, nil, fmt.Errorf("remote allocator: no CDP endpoint configured")
	}
	ctx, cancel := chromedp.NewRemoteAllocator(parent, a.URL)
	return ctx, cancel, nil
}

// browserCandidates lists binary names probed on PATH, most common first.
var browserCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// darwinChromePath is the standard macOS install location, which is not on
// PATH by default.
const darwinChromePath = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"

// FindBinary locates a usable browser executable, or reports what was
// probed so the acquisition chain can fall through to the next strategy.
func FindBinary() (string, error) {
	for _, name := range browserCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	if runtime.GOOS == "darwin" {
		if path, err := exec.LookPath(darwinChromePath); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no browser binary found (tried %s)", strings.Join(browserCandidates, ", "))
}

// extraArgOptions converts raw "--name=value" / "--name" launch arguments
// into allocator options.
func extraArgOptions(args []string) []chromedp.ExecAllocatorOption {
	opts := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimLeft(arg, "-")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(arg, true))
		}
	}
	return opts
}
