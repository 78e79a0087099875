package browser

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/oklog/ulid/v2"
)

// Screenshot captures the current viewport to the configured screenshot
// directory under name plus a ULID suffix, so repeated captures from one
// scenario never collide. Soft-failing like every other diagnostic: a
// capture that cannot be taken or written is logged and reported false.
func (s *Session) Screenshot(ctx context.Context, name string) (string, bool) {
	if err := os.MkdirAll(s.screenshotDir, 0o755); err != nil {
		s.logger.Warn("screenshot dir unavailable", "dir", s.screenshotDir, "error", err)
		return "", false
	}

	var buf []byte
	capture := chromedp.ActionFunc(func(actx context.Context) error {
		data, err := page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			Do(actx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	})
	if err := s.run(s.waits.PageLoad(), capture); err != nil {
		s.logger.Warn("screenshot capture failed", "name", name, "error", err)
		return "", false
	}

	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	id := ulid.MustNew(ulid.Timestamp(t), entropy).String()
	path := filepath.Join(s.screenshotDir, fmt.Sprintf("%s_%s.png", name, id))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		s.logger.Warn("screenshot write failed", "path", path, "error", err)
		return "", false
	}
	s.logger.Info("screenshot saved", "path", path)
	return path, true
}
