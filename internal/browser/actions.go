package browser

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/trace"

	"eduassist-e2e/internal/domain"
	"eduassist-e2e/internal/infra/config"
	"eduassist-e2e/internal/infra/tracer"
)

// Locate polls for presence of the element named by loc until the timeout
// (medium tier by default) elapses. Returns (nil, false) on timeout, never
// an error: absence is the expected case on an asynchronously rendering UI.
func (s *Session) Locate(ctx context.Context, loc domain.Locator, timeout time.Duration) (*Element, bool) {
	ctx, span := tracer.StartSpan(ctx, "Session.Locate",
		trace.WithAttributes(tracer.LocatorAttr(loc.String())))
	defer span.End()

	bound := s.effective(timeout, config.TierMedium)
	found := pollUntil(ctx, bound, s.interval, func() bool {
		p, err := s.probe(ctx, loc, 0)
		return err == nil && p.Count > 0
	})
	span.SetAttributes(tracer.OutcomeAttr(found))
	if !found {
		s.logger.Warn("element not found", "locator", loc.String(), "timeout", bound)
		return nil, false
	}
	return &Element{s: s, loc: loc}, true
}

// LocateVisible is Locate with the success condition tightened to
// present-and-visible.
func (s *Session) LocateVisible(ctx context.Context, loc domain.Locator, timeout time.Duration) (*Element, bool) {
	bound := s.effective(timeout, config.TierMedium)
	found := pollUntil(ctx, bound, s.interval, func() bool {
		p, err := s.probe(ctx, loc, 0)
		return err == nil && p.Count > 0 && p.Visible
	})
	if !found {
		s.logger.Warn("element not visible", "locator", loc.String(), "timeout", bound)
		return nil, false
	}
	return &Element{s: s, loc: loc}, true
}

// WaitClickable polls until the element is present, visible and enabled.
func (s *Session) WaitClickable(ctx context.Context, loc domain.Locator, timeout time.Duration) (*Element, bool) {
	bound := s.effective(timeout, config.TierMedium)
	found := pollUntil(ctx, bound, s.interval, func() bool {
		p, err := s.probe(ctx, loc, 0)
		return err == nil && p.Count > 0 && p.Visible && p.Enabled
	})
	if !found {
		s.logger.Warn("element not clickable", "locator", loc.String(), "timeout", bound)
		return nil, false
	}
	return &Element{s: s, loc: loc}, true
}

// LocateAll returns handles for every current match of loc, immediately and
// in document order. Empty on no match or on a driver-level lookup failure.
func (s *Session) LocateAll(ctx context.Context, loc domain.Locator) []*Element {
	p, err := s.probe(ctx, loc, 0)
	if err != nil || p.Count == 0 {
		return nil
	}
	elements := make([]*Element, p.Count)
	for i := range elements {
		elements[i] = &Element{s: s, loc: loc, index: i}
	}
	return elements
}

// Displayed samples loc exactly once and reports whether it currently
// resolves to a visible element.
func (s *Session) Displayed(ctx context.Context, loc domain.Locator) bool {
	p, err := s.probe(ctx, loc, 0)
	return err == nil && p.Count > 0 && p.Visible
}

// IsEnabled samples loc once and reports whether its first match is enabled.
func (s *Session) IsEnabled(ctx context.Context, loc domain.Locator) bool {
	p, err := s.probe(ctx, loc, 0)
	return err == nil && p.Count > 0 && p.Enabled
}

// ElementCount returns how many elements currently match loc.
func (s *Session) ElementCount(ctx context.Context, loc domain.Locator) int {
	p, err := s.probe(ctx, loc, 0)
	if err != nil {
		return 0
	}
	return p.Count
}

// Click waits for the element to become clickable and clicks it. False when
// resolution or the click action itself fails.
func (s *Session) Click(ctx context.Context, loc domain.Locator, timeout time.Duration) bool {
	ctx, span := tracer.StartSpan(ctx, "Session.Click",
		trace.WithAttributes(tracer.LocatorAttr(loc.String())))
	defer span.End()

	if _, ok := s.WaitClickable(ctx, loc, timeout); !ok {
		span.SetAttributes(tracer.OutcomeAttr(false))
		return false
	}
	sel, opt := actionQuery(loc)
	if err := s.run(s.waits.Tier(config.TierShort), chromedp.Click(sel, opt)); err != nil {
		s.logger.Warn("click failed", "locator", loc.String(), "error", err)
		span.SetAttributes(tracer.OutcomeAttr(false))
		return false
	}
	span.SetAttributes(tracer.OutcomeAttr(true))
	return true
}

// Type resolves the element and sends text to it, clearing the field first
// when clearFirst is set. False on any failure.
func (s *Session) Type(ctx context.Context, loc domain.Locator, text string, clearFirst bool) bool {
	ctx, span := tracer.StartSpan(ctx, "Session.Type",
		trace.WithAttributes(tracer.LocatorAttr(loc.String())))
	defer span.End()

	if _, ok := s.Locate(ctx, loc, 0); !ok {
		span.SetAttributes(tracer.OutcomeAttr(false))
		return false
	}
	sel, opt := actionQuery(loc)
	actions := make([]chromedp.Action, 0, 2)
	if clearFirst {
		actions = append(actions, chromedp.Clear(sel, opt))
	}
	actions = append(actions, chromedp.SendKeys(sel, text, opt))
	if err := s.run(s.waits.Tier(config.TierShort), actions...); err != nil {
		s.logger.Warn("text input failed", "locator", loc.String(), "error", err)
		span.SetAttributes(tracer.OutcomeAttr(false))
		return false
	}
	span.SetAttributes(tracer.OutcomeAttr(true))
	return true
}

// ReadText resolves the element and returns its rendered text (the value
// for form controls). Empty string when absent or on read failure.
func (s *Session) ReadText(ctx context.Context, loc domain.Locator) string {
	if _, ok := s.Locate(ctx, loc, 0); !ok {
		return ""
	}
	p, err := s.probe(ctx, loc, 0)
	if err != nil || p.Count == 0 {
		s.logger.Debug("text read failed", "locator", loc.String(), "error", err)
		return ""
	}
	return p.Text
}

// WaitTextContains polls until the element's text contains want. Long tier
// by default: this wait exists for slow dynamic content like AI responses.
func (s *Session) WaitTextContains(ctx context.Context, loc domain.Locator, want string, timeout time.Duration) bool {
	bound := s.effective(timeout, config.TierLong)
	found := pollUntil(ctx, bound, s.interval, func() bool {
		p, err := s.probe(ctx, loc, 0)
		return err == nil && p.Count > 0 && strings.Contains(p.Text, want)
	})
	if !found {
		s.logger.Warn("text not found in element",
			"locator", loc.String(), "want", want, "timeout", bound)
	}
	return found
}

// Hover resolves the element and dispatches pointer-over events to it.
func (s *Session) Hover(ctx context.Context, loc domain.Locator) bool {
	if _, ok := s.Locate(ctx, loc, 0); !ok {
		return false
	}
	var ok bool
	if err := s.run(s.waits.Tier(config.TierShort),
		chromedp.Evaluate(hoverJS(loc), &ok)); err != nil || !ok {
		s.logger.Warn("hover failed", "locator", loc.String(), "error", err)
		return false
	}
	return true
}

// SendKey resolves the element and sends a key sequence to it without
// clearing. Use the chromedp/kb constants for special keys (Enter, Tab).
func (s *Session) SendKey(ctx context.Context, loc domain.Locator, key string) bool {
	if _, ok := s.Locate(ctx, loc, 0); !ok {
		return false
	}
	sel, opt := actionQuery(loc)
	if err := s.run(s.waits.Tier(config.TierShort), chromedp.SendKeys(sel, key, opt)); err != nil {
		s.logger.Warn("send keys failed", "locator", loc.String(), "error", err)
		return false
	}
	return true
}

// ScrollIntoView resolves the element and scrolls it into the viewport.
func (s *Session) ScrollIntoView(ctx context.Context, loc domain.Locator) bool {
	if _, ok := s.Locate(ctx, loc, 0); !ok {
		return false
	}
	sel, opt := actionQuery(loc)
	if err := s.run(s.waits.Tier(config.TierShort), chromedp.ScrollIntoView(sel, opt)); err != nil {
		s.logger.Warn("scroll failed", "locator", loc.String(), "error", err)
		return false
	}
	return true
}

// GetAttribute returns the named attribute of the element's first match, or
// empty string when the element or attribute is absent.
func (s *Session) GetAttribute(ctx context.Context, loc domain.Locator, name string) string {
	if _, ok := s.Locate(ctx, loc, 0); !ok {
		return ""
	}
	var value string
	if err := s.run(s.waits.Implicit(), chromedp.Evaluate(attributeJS(loc, name), &value)); err != nil {
		s.logger.Debug("attribute read failed",
			"locator", loc.String(), "attribute", name, "error", err)
		return ""
	}
	return value
}
