package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/Josephaswisher/omniscribe/internal/errs"
)

// Screenshot captures the primary page to a PNG in the session's artifact
// directory and returns the written path. Screenshot failures are advisory:
// the error carries the ScreenshotFailed code and is also logged here as a
// warning, so callers may ignore it without losing the signal.
func (s *Session) Screenshot(name string, fullPage bool) (string, error) {
	dir := s.opts.ArtifactDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, sanitizeArtifactName(name)+".png")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		werr := errs.Wrap(errs.ScreenshotFailed, fmt.Sprintf("create artifact dir %s", dir), err)
		s.log.Warn("screenshot failed", "path", path, "error", err)
		return "", werr
	}

	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(fullPage),
	})
	if err != nil {
		werr := errs.Wrap(errs.ScreenshotFailed, fmt.Sprintf("capture %s", path), err)
		s.log.Warn("screenshot failed", "path", path, "error", err)
		return "", werr
	}

	s.log.Debug("screenshot saved", "path", path)
	return path, nil
}

func sanitizeArtifactName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".png")
	if name == "" {
		name = "screenshot"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "-", "..", "-")
	return replacer.Replace(name)
}
