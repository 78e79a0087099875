package browser

import (
	"context"
	"strings"
	"time"

	"eduassist-e2e/internal/domain"
	"eduassist-e2e/internal/infra/config"
)

// Condition is a predicate sampled against the live session by WaitFor.
// Conditions must be cheap single observations; WaitFor owns the polling.
type Condition func(ctx context.Context, s *Session) bool

// WaitFor polls cond until it holds or the timeout (medium tier by default)
// elapses. Returns whether the condition held within the bound.
func (s *Session) WaitFor(ctx context.Context, cond Condition, timeout time.Duration) bool {
	bound := s.effective(timeout, config.TierMedium)
	return pollUntil(ctx, bound, s.interval, func() bool {
		return cond(ctx, s)
	})
}

// Present holds when the locator matches at least one element.
func Present(loc domain.Locator) Condition {
	return func(ctx context.Context, s *Session) bool {
		p, err := s.probe(ctx, loc, 0)
		return err == nil && p.Count > 0
	}
}

// Visible holds when the locator's first match is visible.
func Visible(loc domain.Locator) Condition {
	return func(ctx context.Context, s *Session) bool {
		return s.Displayed(ctx, loc)
	}
}

// Clickable holds when the locator's first match is visible and enabled.
func Clickable(loc domain.Locator) Condition {
	return func(ctx context.Context, s *Session) bool {
		p, err := s.probe(ctx, loc, 0)
		return err == nil && p.Count > 0 && p.Visible && p.Enabled
	}
}

// Absent holds when the locator matches nothing, for waits on dismissal of
// spinners and overlays.
func Absent(loc domain.Locator) Condition {
	return func(ctx context.Context, s *Session) bool {
		p, err := s.probe(ctx, loc, 0)
		return err == nil && p.Count == 0
	}
}

// TextContains holds when the locator's first match contains want.
func TextContains(loc domain.Locator, want string) Condition {
	return func(ctx context.Context, s *Session) bool {
		p, err := s.probe(ctx, loc, 0)
		return err == nil && p.Count > 0 && strings.Contains(p.Text, want)
	}
}

// URLContains holds when the current URL contains fragment.
func URLContains(fragment string) Condition {
	return func(ctx context.Context, s *Session) bool {
		return strings.Contains(s.CurrentURL(ctx), fragment)
	}
}

// TitleContains holds when the page title contains fragment, ignoring case.
func TitleContains(fragment string) Condition {
	return func(ctx context.Context, s *Session) bool {
		return containsFold(s.Title(ctx), fragment)
	}
}

// ScriptTrue holds when the expression evaluates to true in page context.
func ScriptTrue(expression string) Condition {
	return func(ctx context.Context, s *Session) bool {
		result, ok := s.RunScript(ctx, expression)
		return ok && result == "true"
	}
}
