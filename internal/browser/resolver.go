package browser

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"eduassist-e2e/internal/domain"
	"eduassist-e2e/internal/infra/tracer"
)

// Driver is the slice of Session the Resolver needs. Session satisfies it;
// tests substitute a fake.
type Driver interface {
	Locate(ctx context.Context, loc domain.Locator, timeout time.Duration) (*Element, bool)
	LocateVisible(ctx context.Context, loc domain.Locator, timeout time.Duration) (*Element, bool)
	Click(ctx context.Context, loc domain.Locator, timeout time.Duration) bool
	Displayed(ctx context.Context, loc domain.Locator) bool
	CurrentURL(ctx context.Context) string
	Title(ctx context.Context) string
}

// ResolverOptions tune the fallback traversal.
type ResolverOptions struct {
	// PerAttempt bounds each individual locator try during a set traversal,
	// so one dead selector cannot stall the whole chain. Default 2s.
	PerAttempt time.Duration
	// Interval is the sleep between polling cycles. Default 500ms.
	Interval time.Duration
}

func (o ResolverOptions) withDefaults() ResolverOptions {
	if o.PerAttempt <= 0 {
		o.PerAttempt = 2 * time.Second
	}
	if o.Interval <= 0 {
		o.Interval = defaultPollInterval
	}
	return o
}

// Resolver turns an ordered LocatorSet into a single best-effort resolution
// and provides polling combinators over the driver's primitives. The set
// order is significant: callers put the most specific locator first and the
// Resolver never reorders.
type Resolver struct {
	d      Driver
	logger *slog.Logger
	opts   ResolverOptions
}

func NewResolver(d Driver, log *slog.Logger, opts ResolverOptions) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{d: d, logger: log, opts: opts.withDefaults()}
}

// FindFirst tries each locator in order with the per-attempt bound and
// returns the first one resolving to a present-and-visible element. Absent
// when the whole set is exhausted, so total time is bounded by
// len(set) x PerAttempt.
func (r *Resolver) FindFirst(ctx context.Context, set domain.LocatorSet) (*Element, bool) {
	ctx, span := tracer.StartSpan(ctx, "Resolver.FindFirst",
		trace.WithAttributes(tracer.LocatorAttr(set.String())))
	defer span.End()

	if err := set.Validate(); err != nil {
		r.logger.Warn("invalid locator set", "error", err)
		span.SetAttributes(tracer.OutcomeAttr(false))
		return nil, false
	}
	for _, loc := range set {
		if el, ok := r.d.LocateVisible(ctx, loc, r.opts.PerAttempt); ok {
			r.logger.Debug("locator resolved", "locator", loc.String())
			span.SetAttributes(tracer.OutcomeAttr(true))
			return el, true
		}
		r.logger.Debug("locator fallback", "locator", loc.String())
	}
	r.logger.Warn("no locator in set matched", "set", set.String())
	span.SetAttributes(tracer.OutcomeAttr(false))
	return nil, false
}

// ClickFirst traverses the set in order and succeeds on the first locator
// whose click lands.
func (r *Resolver) ClickFirst(ctx context.Context, set domain.LocatorSet) bool {
	ctx, span := tracer.StartSpan(ctx, "Resolver.ClickFirst",
		trace.WithAttributes(tracer.LocatorAttr(set.String())))
	defer span.End()

	if err := set.Validate(); err != nil {
		r.logger.Warn("invalid locator set", "error", err)
		span.SetAttributes(tracer.OutcomeAttr(false))
		return false
	}
	for _, loc := range set {
		if r.d.Click(ctx, loc, r.opts.PerAttempt) {
			span.SetAttributes(tracer.OutcomeAttr(true))
			return true
		}
	}
	r.logger.Warn("no locator in set was clickable", "set", set.String())
	span.SetAttributes(tracer.OutcomeAttr(false))
	return false
}

// WaitForAny polls the CSS selectors as a group, re-trying the full list
// each cycle, until one resolves to a visible element or the timeout
// expires. Each in-cycle check is an instant sample, so a selector that is
// already matching returns within one interval.
func (r *Resolver) WaitForAny(ctx context.Context, selectors []string, timeout time.Duration) (*Element, bool) {
	set := domain.CSSSet(selectors...)
	if err := set.Validate(); err != nil {
		r.logger.Warn("invalid selector list", "error", err)
		return nil, false
	}
	var matched domain.Locator
	found := pollUntil(ctx, timeout, r.opts.Interval, func() bool {
		for _, loc := range set {
			if r.d.Displayed(ctx, loc) {
				matched = loc
				return true
			}
		}
		return false
	})
	if !found {
		r.logger.Warn("no selector appeared", "selectors", strings.Join(selectors, ", "), "timeout", timeout)
		return nil, false
	}
	// The element is already displayed, so this resolves on its first sample.
	return r.d.LocateVisible(ctx, matched, r.opts.PerAttempt)
}

// WaitURLContains polls the current URL until it contains fragment.
func (r *Resolver) WaitURLContains(ctx context.Context, fragment string, timeout time.Duration) bool {
	ok := pollUntil(ctx, timeout, r.opts.Interval, func() bool {
		return strings.Contains(r.d.CurrentURL(ctx), fragment)
	})
	if !ok {
		r.logger.Warn("url fragment never appeared", "fragment", fragment, "timeout", timeout)
	}
	return ok
}

// WaitTitleContains polls the page title until it contains fragment,
// ignoring case.
func (r *Resolver) WaitTitleContains(ctx context.Context, fragment string, timeout time.Duration) bool {
	ok := pollUntil(ctx, timeout, r.opts.Interval, func() bool {
		return containsFold(r.d.Title(ctx), fragment)
	})
	if !ok {
		r.logger.Warn("title fragment never appeared", "fragment", fragment, "timeout", timeout)
	}
	return ok
}

// AnyDisplayed reports whether any locator in the set currently resolves to
// a visible element. Single sample per locator, no waiting.
func (r *Resolver) AnyDisplayed(ctx context.Context, set domain.LocatorSet) bool {
	for _, loc := range set {
		if r.d.Displayed(ctx, loc) {
			return true
		}
	}
	return false
}
