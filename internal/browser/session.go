package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"eduassist-e2e/internal/domain"
	"eduassist-e2e/internal/infra/config"
	"eduassist-e2e/internal/infra/tracer"
)

// Session owns one browser instance and its timeout configuration, and
// exposes primitive, individually timeboxed operations over it. No operation
// blocks indefinitely: every wait resolves an effective timeout from the
// explicit argument, else the relevant named tier.
//
// Lookup and interaction failures are soft: they produce a false/empty/nil
// result and a logged diagnostic, never an error. UIs render asynchronously,
// so absence at first check is expected, not exceptional. Only browser
// acquisition failures (New) and navigation propagate as errors.
//
// A Session is driven from one logical thread of control per test run; the
// internal mutex only guards lifecycle state so a close racing an in-flight
// operation stays safe.
type Session struct {
	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closed        bool

	waits         config.WaitConfig
	screenshotDir string
	interval      time.Duration
	logger        *slog.Logger
	strategy      string // allocator that produced the browser
}

// New launches a browser by trying each allocator in order and returns a
// ready Session. With no allocators given, DefaultAllocators is used: a
// locally installed browser, then the configured remote CDP endpoint. When
// every strategy fails the error wraps domain.ErrBrowserStart and carries
// each strategy's failure.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, allocs ...Allocator) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	if len(allocs) == 0 {
		allocs = DefaultAllocators(cfg.Browser)
	}

	startTimeout := cfg.Waits.PageLoad()
	var failures []error
	for _, a := range allocs {
		allocCtx, allocCancel, err := a.Allocate(ctx)
		if err != nil {
			log.Debug("browser acquisition strategy failed", "strategy", a.Name(), "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", a.Name(), err))
			continue
		}

		browserCtx, browserCancel := chromedp.NewContext(allocCtx)
		if err := startBrowser(browserCtx, startTimeout); err != nil {
			browserCancel()
			allocCancel()
			log.Debug("browser start failed", "strategy", a.Name(), "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", a.Name(), err))
			continue
		}

		s := &Session{
			allocCancel:   allocCancel,
			browserCtx:    browserCtx,
			browserCancel: browserCancel,
			waits:         cfg.Waits,
			screenshotDir: cfg.Artifacts.ScreenshotDir,
			interval:      cfg.Waits.Poll(),
			logger:        log,
			strategy:      a.Name(),
		}
		log.Info("browser session started",
			"strategy", a.Name(),
			"headless", cfg.Browser.Headless,
			"window", fmt.Sprintf("%dx%d", cfg.Browser.WindowWidth, cfg.Browser.WindowHeight))
		return s, nil
	}

	return nil, domain.NewDomainError("Session.New", domain.ErrBrowserStart,
		errors.Join(failures...).Error())
}

// startBrowser runs an empty action to force the browser process up.
// IMPORTANT: the tab context must NOT be wrapped in context.WithTimeout
// because chromedp binds the CDP session to the context passed to the first
// Run; cancelling a derived context would kill the session immediately. The
// timeout is enforced from the outside instead.
func startBrowser(tabCtx context.Context, timeout time.Duration) error {
	startDone := make(chan error, 1)
	go func() { startDone <- chromedp.Run(tabCtx) }()
	return waitStart(startDone, timeout)
}

// waitStart waits for the browser start to complete within the given bound.
func waitStart(done <-chan error, timeout time.Duration) error {
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("start browser after %v: %w", timeout, domain.ErrTimeout)
	}
}

// Close releases the browser process. Idempotent: a second call is a no-op,
// and it is safe even when New partially failed. Cleanup errors are
// swallowed; after Close every operation on the Session soft-fails or
// returns domain.ErrSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.browserCancel != nil {
		s.browserCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	if s.logger != nil {
		s.logger.Info("browser session closed", "strategy", s.strategy)
	}
	return nil
}

// Strategy reports which acquisition strategy produced the browser.
func (s *Session) Strategy() string { return s.strategy }

// tab returns the live browser context, or ErrSessionClosed after Close.
func (s *Session) tab() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.browserCtx == nil {
		return nil, domain.ErrSessionClosed
	}
	return s.browserCtx, nil
}

// effective resolves a wait bound: the explicit argument wins, else the
// named tier (which itself falls back to the medium tier).
func (s *Session) effective(timeout time.Duration, tier string) time.Duration {
	if timeout > 0 {
		return timeout
	}
	return s.waits.Tier(tier)
}

// probe samples the locator's idx-th match once. Each sample is bounded by
// the implicit wait so one stuck evaluate can never eat a whole poll budget.
func (s *Session) probe(ctx context.Context, loc domain.Locator, idx int) (probeResult, error) {
	tabCtx, err := s.tab()
	if err != nil {
		return probeResult{}, err
	}
	sampleCtx, cancel := context.WithTimeout(tabCtx, s.waits.Implicit())
	defer cancel()

	var res probeResult
	if err := chromedp.Run(sampleCtx, chromedp.Evaluate(probeJS(loc, idx), &res)); err != nil {
		return probeResult{}, err
	}
	return res, nil
}

// run executes chromedp actions against the live tab under the given bound.
func (s *Session) run(bound time.Duration, actions ...chromedp.Action) error {
	tabCtx, err := s.tab()
	if err != nil {
		return err
	}
	actionCtx, cancel := context.WithTimeout(tabCtx, bound)
	defer cancel()
	return chromedp.Run(actionCtx, actions...)
}

// Navigate loads url and waits for the document to become ready. Unlike
// element lookups, a navigation that the browser rejects is reported as an
// error: nothing downstream can succeed without the page.
func (s *Session) Navigate(ctx context.Context, url string) error {
	ctx, span := tracer.StartSpan(ctx, "Session.Navigate")
	defer span.End()

	if err := s.run(s.waits.PageLoad(), chromedp.Navigate(url)); err != nil {
		if !domain.IsClosed(err) {
			err = domain.NewDomainError("Session.Navigate", domain.ErrNavigation, url+": "+err.Error())
		}
		tracer.RecordError(span, err)
		return err
	}
	s.logger.Debug("navigated", "url", url)
	s.WaitPageReady(ctx, 0)
	tracer.SetOK(span)
	return nil
}

// Refresh reloads the current page and waits for readiness. Failures are
// logged only.
func (s *Session) Refresh(ctx context.Context) {
	if err := s.run(s.waits.PageLoad(), chromedp.Reload()); err != nil {
		s.logger.Warn("refresh failed", "error", err)
		return
	}
	s.WaitPageReady(ctx, 0)
}

// WaitPageReady polls document.readyState until "complete" or the timeout
// (medium tier by default) elapses. A timeout is logged and tolerated, not
// failed: pages with long-polling assets may never settle.
func (s *Session) WaitPageReady(ctx context.Context, timeout time.Duration) {
	bound := s.effective(timeout, config.TierMedium)
	ready := pollUntil(ctx, bound, s.interval, func() bool {
		var state string
		if err := s.run(s.waits.Implicit(), chromedp.Evaluate(`document.readyState`, &state)); err != nil {
			return false
		}
		return state == "complete"
	})
	if !ready {
		s.logger.Warn("page load timeout, continuing", "timeout", bound)
	}
}

// CurrentURL returns the browser's current URL, or empty string on failure.
func (s *Session) CurrentURL(ctx context.Context) string {
	var url string
	if err := s.run(s.waits.Implicit(), chromedp.Location(&url)); err != nil {
		s.logger.Debug("current url read failed", "error", err)
		return ""
	}
	return url
}

// Title returns the current page title, or empty string on failure.
func (s *Session) Title(ctx context.Context) string {
	var title string
	if err := s.run(s.waits.Implicit(), chromedp.Title(&title)); err != nil {
		s.logger.Debug("title read failed", "error", err)
		return ""
	}
	return title
}

// RunScript executes an expression in page context and returns its result
// rendered as a string (JSON for non-string values). The bool result is
// false when execution failed or the session is closed.
func (s *Session) RunScript(ctx context.Context, expression string) (string, bool) {
	tabCtx, err := s.tab()
	if err != nil {
		return "", false
	}
	scriptCtx, cancel := context.WithTimeout(tabCtx, s.waits.Script())
	defer cancel()

	var result any
	if err := chromedp.Run(scriptCtx, chromedp.Evaluate(expression, &result)); err != nil {
		s.logger.Warn("script execution failed", "error", err)
		return "", false
	}
	return renderScriptResult(result), true
}

func renderScriptResult(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "undefined"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

// containsFold reports whether s contains substr ignoring ASCII case, the
// comparison the title wait uses.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
