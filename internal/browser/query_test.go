package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"eduassist-e2e/internal/domain"
)

func TestActionQuery(t *testing.T) {
	tests := []struct {
		name    string
		loc     domain.Locator
		wantSel string
	}{
		{"css", domain.CSS(".chat-input"), ".chat-input"},
		{"id", domain.ID("login-btn"), "#login-btn"},
		{"xpath", domain.XPath("//div[@role='main']"), "//div[@role='main']"},
		{"link text", domain.LinkText("Sign out"), "//a[normalize-space(.)='Sign out']"},
		{"partial link text", domain.PartialLinkText("Sign"), "//a[contains(normalize-space(.), 'Sign')]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, _ := actionQuery(tt.loc)
			assert.Equal(t, tt.wantSel, sel)
		})
	}
}

func TestActionQueryOptionNotNil(t *testing.T) {
	for _, loc := range []domain.Locator{domain.CSS("div"), domain.ID("x"), domain.XPath("//div")} {
		_, opt := actionQuery(loc)
		assert.NotNil(t, opt, "locator %s", loc)
	}
}

func TestXPathLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "'plain'"},
		{"it's", `"it's"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "both"`, `concat('it', "'", 's "both"')`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, xpathLiteral(tt.in), "input %q", tt.in)
	}
}

func TestFinderJS(t *testing.T) {
	js := finderJS(domain.ID("chat-box"))
	assert.Contains(t, js, "getElementById")
	assert.Contains(t, js, `"chat-box"`)

	js = finderJS(domain.CSS(".quiz-option"))
	assert.Contains(t, js, "querySelectorAll")

	js = finderJS(domain.XPath("//button"))
	assert.Contains(t, js, "document.evaluate")

	js = finderJS(domain.LinkText("Dashboard"))
	assert.Contains(t, js, "document.evaluate")
	assert.Contains(t, js, "normalize-space")
}

func TestProbeJSShape(t *testing.T) {
	js := probeJS(domain.CSS("input[name=email]"), 0)
	for _, frag := range []string{"count", "visible", "enabled", "text", "el.value", "getComputedStyle"} {
		if !strings.Contains(js, frag) {
			t.Errorf("probe script missing %q", frag)
		}
	}
}

func TestAttributeJSQuotesName(t *testing.T) {
	js := attributeJS(domain.CSS("a"), `href" onload="x`)
	assert.Contains(t, js, `"href\" onload=\"x"`)
}
