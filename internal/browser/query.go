package browser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"

	"eduassist-e2e/internal/domain"
)

// actionQuery maps a locator onto the selector string and query option used
// by chromedp interaction actions (click, send-keys, scroll).
func actionQuery(l domain.Locator) (string, chromedp.QueryOption) {
	switch l.Kind {
	case domain.KindID:
		return "#" + l.Value, chromedp.ByQuery
	case domain.KindXPath:
		return l.Value, chromedp.BySearch
	case domain.KindLinkText:
		return linkTextXPath(l.Value, false), chromedp.BySearch
	case domain.KindPartialLinkText:
		return linkTextXPath(l.Value, true), chromedp.BySearch
	default:
		return l.Value, chromedp.ByQuery
	}
}

// linkTextXPath translates a link-text locator into an anchor XPath.
func linkTextXPath(text string, partial bool) string {
	lit := xpathLiteral(text)
	if partial {
		return fmt.Sprintf("//a[contains(normalize-space(.), %s)]", lit)
	}
	return fmt.Sprintf("//a[normalize-space(.)=%s]", lit)
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so strings containing both quote kinds need concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// probeResult is one sampled observation of a locator against the live DOM.
type probeResult struct {
	Count   int    `json:"count"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
}

// probeJS builds a script that samples the element at idx among the
// locator's matches. The whole observation happens in one page round trip so
// a sample can never see half-updated state.
func probeJS(l domain.Locator, idx int) string {
	return fmt.Sprintf(`(() => {
	%s
	const el = els.length > %d ? els[%d] : null;
	let visible = false;
	let enabled = false;
	let text = "";
	if (el) {
		const style = window.getComputedStyle(el);
		visible = style.visibility !== "hidden" && style.display !== "none" &&
			!!(el.offsetWidth || el.offsetHeight || el.getClientRects().length);
		enabled = !el.disabled;
		if (el.tagName === "INPUT" || el.tagName === "TEXTAREA" || el.tagName === "SELECT") {
			text = el.value || "";
		} else {
			text = el.innerText || el.textContent || "";
		}
	}
	return {count: els.length, visible: visible, enabled: enabled, text: text};
})()`, finderJS(l), idx, idx)
}

// attributeJS builds a script that reads an attribute from the locator's
// first match, or empty string when absent.
func attributeJS(l domain.Locator, name string) string {
	return fmt.Sprintf(`(() => {
	%s
	if (els.length === 0) return "";
	return els[0].getAttribute(%s) || "";
})()`, finderJS(l), strconv.Quote(name))
}

// hoverJS builds a script that dispatches pointer-over events to the
// locator's first match, returning whether the element existed.
func hoverJS(l domain.Locator) string {
	return fmt.Sprintf(`(() => {
	%s
	if (els.length === 0) return false;
	const el = els[0];
	for (const type of ["pointerover", "mouseover", "mouseenter"]) {
		el.dispatchEvent(new MouseEvent(type, {bubbles: true, cancelable: true, view: window}));
	}
	return true;
})()`, finderJS(l))
}

// finderJS emits a statement binding `els` to the array of elements the
// locator currently matches, in document order.
func finderJS(l domain.Locator) string {
	switch l.Kind {
	case domain.KindID:
		return fmt.Sprintf(
			`const found = document.getElementById(%s); const els = found ? [found] : [];`,
			strconv.Quote(l.Value))
	case domain.KindXPath:
		return xpathFinderJS(l.Value)
	case domain.KindLinkText:
		return xpathFinderJS(linkTextXPath(l.Value, false))
	case domain.KindPartialLinkText:
		return xpathFinderJS(linkTextXPath(l.Value, true))
	default:
		return fmt.Sprintf(
			`const els = Array.from(document.querySelectorAll(%s));`,
			strconv.Quote(l.Value))
	}
}

func xpathFinderJS(expr string) string {
	return fmt.Sprintf(`const res = document.evaluate(%s, document, null,
		XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	const els = [];
	for (let i = 0; i < res.snapshotLength; i++) els.push(res.snapshotItem(i));`,
		strconv.Quote(expr))
}
