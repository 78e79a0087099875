package browser

import (
	"context"

	"eduassist-e2e/internal/domain"
)

// Element is a handle to one match of a locator within a Session. It holds
// no remote object reference: every method re-resolves the locator against
// the live DOM, so a handle stays usable across re-renders that replace the
// underlying node. The index selects among multiple matches (0 = first).
type Element struct {
	s     *Session
	loc   domain.Locator
	index int
}

// Locator returns the locator this handle resolves.
func (e *Element) Locator() domain.Locator { return e.loc }

// Text returns the element's current rendered text (the value for form
// controls), or empty string when the element no longer resolves.
func (e *Element) Text(ctx context.Context) string {
	p, err := e.s.probe(ctx, e.loc, e.index)
	if err != nil || p.Count <= e.index {
		return ""
	}
	return p.Text
}

// Visible reports whether the element currently resolves and is visible.
func (e *Element) Visible(ctx context.Context) bool {
	p, err := e.s.probe(ctx, e.loc, e.index)
	return err == nil && p.Count > e.index && p.Visible
}

// Enabled reports whether the element currently resolves and is enabled.
func (e *Element) Enabled(ctx context.Context) bool {
	p, err := e.s.probe(ctx, e.loc, e.index)
	return err == nil && p.Count > e.index && p.Enabled
}

// Attribute returns the named attribute, or empty string when the element
// or attribute is absent.
func (e *Element) Attribute(ctx context.Context, name string) string {
	return e.s.GetAttribute(ctx, e.loc, name)
}
