package domain

import "fmt"

// LocatorKind enumerates the supported element location strategies.
type LocatorKind int

const (
	KindCSS LocatorKind = iota
	KindXPath
	KindID
	KindLinkText
	KindPartialLinkText
)

// String returns the strategy name as used in diagnostics.
func (k LocatorKind) String() string {
	switch k {
	case KindCSS:
		return "css"
	case KindXPath:
		return "xpath"
	case KindID:
		return "id"
	case KindLinkText:
		return "link text"
	case KindPartialLinkText:
		return "partial link text"
	default:
		return "unknown"
	}
}

// Locator describes how to find one DOM element. It is an immutable value:
// construct once with one of the kind constructors and pass by value.
type Locator struct {
	Kind  LocatorKind
	Value string
}

// CSS creates a CSS-selector locator.
func CSS(selector string) Locator { return Locator{Kind: KindCSS, Value: selector} }

// XPath creates an XPath-expression locator.
func XPath(expr string) Locator { return Locator{Kind: KindXPath, Value: expr} }

// ID creates an element-ID locator.
func ID(id string) Locator { return Locator{Kind: KindID, Value: id} }

// LinkText creates a locator matching an anchor by its exact rendered text.
func LinkText(text string) Locator { return Locator{Kind: KindLinkText, Value: text} }

// PartialLinkText creates a locator matching an anchor whose rendered text
// contains the given substring.
func PartialLinkText(text string) Locator {
	return Locator{Kind: KindPartialLinkText, Value: text}
}

// IsZero reports whether the locator is the zero value.
func (l Locator) IsZero() bool { return l.Value == "" }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Kind, l.Value)
}

// LocatorSet is an ordered sequence of fallback locators for the same logical
// element across UI variants. Order is significant: the first locator that
// resolves wins, so callers list the most specific candidate first.
// Duplicates are harmless but wasteful.
type LocatorSet []Locator

// CSSSet builds a LocatorSet from CSS selectors, preserving order.
func CSSSet(selectors ...string) LocatorSet {
	set := make(LocatorSet, 0, len(selectors))
	for _, s := range selectors {
		set = append(set, CSS(s))
	}
	return set
}

// Validate reports whether the set is usable: non-empty with no zero-value
// entries.
func (s LocatorSet) Validate() error {
	if len(s) == 0 {
		return ErrEmptyLocatorSet
	}
	for i, l := range s {
		if l.IsZero() {
			return NewDomainError("LocatorSet.Validate", ErrInvalidLocator,
				fmt.Sprintf("empty value at index %d", i))
		}
	}
	return nil
}

func (s LocatorSet) String() string {
	out := ""
	for i, l := range s {
		if i > 0 {
			out += ", "
		}
		out += l.String()
	}
	return "[" + out + "]"
}
