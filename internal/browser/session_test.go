package browser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduassist-e2e/internal/domain"
	"eduassist-e2e/internal/infra/config"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head><title>EduAssist Fixture</title></head>
<body>
  <h1 id="heading">Welcome back</h1>
  <input id="email" name="email" type="text">
  <button id="login-btn" onclick="document.getElementById('status').textContent='clicked'">Log in</button>
  <span id="status"></span>
  <div id="hidden" style="display:none">secret</div>
  <a href="/dashboard">Open dashboard</a>
  <script>
    setTimeout(() => {
      const late = document.createElement('div');
      late.id = 'late-panel';
      late.textContent = 'AI response ready';
      document.body.appendChild(late);
    }, 300);
  </script>
</body>
</html>`

// newLiveSession starts a real headless browser against a local fixture
// server, skipping when no browser binary is installed.
func newLiveSession(t *testing.T) (*Session, string) {
	t.Helper()
	if _, err := FindBinary(); err != nil {
		t.Skipf("no browser available: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if r.URL.Path == "/dashboard" {
			w.Write([]byte(`<html><head><title>Dashboard</title></head><body><p>ok</p></body></html>`))
			return
		}
		w.Write([]byte(fixtureHTML))
	}))
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.Browser.Headless = true

	s, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Navigate(context.Background(), srv.URL))
	return s, srv.URL
}

func TestSessionLocateAndText(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()

	el, ok := s.Locate(ctx, domain.ID("heading"), 5*time.Second)
	require.True(t, ok)
	assert.Equal(t, "Welcome back", el.Text(ctx))

	_, ok = s.Locate(ctx, domain.CSS(".does-not-exist"), 500*time.Millisecond)
	assert.False(t, ok, "missing element must soft-fail, not error")
}

func TestSessionTypeReadTextRoundTrip(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()

	loc := domain.ID("email")
	require.True(t, s.Type(ctx, loc, "demo@eduassist.com", true))
	assert.Equal(t, "demo@eduassist.com", s.ReadText(ctx, loc))

	// clearFirst replaces rather than appends.
	require.True(t, s.Type(ctx, loc, "second@eduassist.com", true))
	assert.Equal(t, "second@eduassist.com", s.ReadText(ctx, loc))
}

func TestSessionClick(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()

	require.True(t, s.Click(ctx, domain.ID("login-btn"), 5*time.Second))
	assert.True(t, s.WaitTextContains(ctx, domain.ID("status"), "clicked", 5*time.Second))

	assert.False(t, s.Click(ctx, domain.CSS("#no-such-button"), 500*time.Millisecond))
}

func TestSessionVisibility(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()

	assert.True(t, s.Displayed(ctx, domain.ID("heading")))
	assert.False(t, s.Displayed(ctx, domain.ID("hidden")), "display:none element is present but not visible")

	_, ok := s.Locate(ctx, domain.ID("hidden"), 2*time.Second)
	assert.True(t, ok, "presence wait must still find hidden elements")
	_, ok = s.LocateVisible(ctx, domain.ID("hidden"), 500*time.Millisecond)
	assert.False(t, ok)
}

func TestSessionWaitsForLateContent(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()

	// Injected by script 300ms after load.
	el, ok := s.Locate(ctx, domain.ID("late-panel"), 5*time.Second)
	require.True(t, ok)
	assert.Contains(t, el.Text(ctx), "AI response")
}

func TestSessionLinkTextAndNavigation(t *testing.T) {
	s, url := newLiveSession(t)
	ctx := context.Background()

	require.True(t, s.Click(ctx, domain.LinkText("Open dashboard"), 5*time.Second))

	r := NewResolver(s, nil, ResolverOptions{})
	assert.True(t, r.WaitURLContains(ctx, "/dashboard", 10*time.Second))
	assert.True(t, r.WaitTitleContains(ctx, "dashboard", 5*time.Second))

	require.NoError(t, s.Navigate(ctx, url))
	assert.Contains(t, s.Title(ctx), "Fixture")
}

func TestSessionRunScript(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()

	out, ok := s.RunScript(ctx, `1 + 2`)
	require.True(t, ok)
	assert.Equal(t, "3", out)

	out, ok = s.RunScript(ctx, `document.title`)
	require.True(t, ok)
	assert.Equal(t, "EduAssist Fixture", out)

	_, ok = s.RunScript(ctx, `throw new Error("boom")`)
	assert.False(t, ok)
}

func TestSessionAttributesAndCount(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()

	assert.Equal(t, "email", s.GetAttribute(ctx, domain.ID("email"), "name"))
	assert.Equal(t, "", s.GetAttribute(ctx, domain.ID("email"), "nonexistent"))
	assert.Equal(t, 1, s.ElementCount(ctx, domain.CSS("input")))
	assert.Equal(t, 0, s.ElementCount(ctx, domain.CSS(".nothing")))
}

func TestSessionScreenshot(t *testing.T) {
	s, _ := newLiveSession(t)
	s.screenshotDir = t.TempDir()

	path, ok := s.Screenshot(context.Background(), "fixture")
	require.True(t, ok)
	assert.FileExists(t, path)
}

func TestSessionCloseIdempotent(t *testing.T) {
	s, _ := newLiveSession(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close must be a no-op")
}

func TestSessionOperationsAfterClose(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()
	require.NoError(t, s.Close())

	_, ok := s.Locate(ctx, domain.ID("heading"), 100*time.Millisecond)
	assert.False(t, ok)
	assert.Equal(t, "", s.CurrentURL(ctx))
	assert.False(t, s.Click(ctx, domain.ID("login-btn"), 100*time.Millisecond))

	err := s.Navigate(ctx, "http://localhost:1")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestWaitForConditions(t *testing.T) {
	s, _ := newLiveSession(t)
	ctx := context.Background()

	assert.True(t, s.WaitFor(ctx, Present(domain.ID("heading")), 2*time.Second))
	assert.True(t, s.WaitFor(ctx, Clickable(domain.ID("login-btn")), 2*time.Second))
	assert.True(t, s.WaitFor(ctx, TitleContains("fixture"), 2*time.Second))
	assert.True(t, s.WaitFor(ctx, ScriptTrue(`document.readyState === "complete"`), 2*time.Second))
	assert.False(t, s.WaitFor(ctx, Absent(domain.ID("heading")), 500*time.Millisecond))
	assert.True(t, s.WaitFor(ctx, Absent(domain.CSS(".spinner")), 500*time.Millisecond))
}

func TestWaitStartTimesOut(t *testing.T) {
	done := make(chan error)
	err := waitStart(done, 20*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestWaitStartPropagatesStartError(t *testing.T) {
	done := make(chan error, 1)
	done <- errors.New("exec: no such file")
	err := waitStart(done, time.Second)
	assert.EqualError(t, err, "exec: no such file")

	ok := make(chan error, 1)
	ok <- nil
	assert.NoError(t, waitStart(ok, time.Second))
}

func TestNavigateOnClosedSession(t *testing.T) {
	s := &Session{closed: true, logger: slog.Default(), waits: config.Defaults().Waits}
	err := s.Navigate(context.Background(), "http://localhost:3000")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestNewFailsWhenNoStrategyWorks(t *testing.T) {
	cfg := config.Defaults()
	cfg.Browser.BinaryPath = "/nonexistent/browser"
	cfg.Browser.RemoteCDPURL = ""
	cfg.Waits.PageLoadTimeout = "2s"

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBrowserStart)
}
