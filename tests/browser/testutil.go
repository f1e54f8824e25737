// Package browser provides shared test utilities for Playwright harness tests.
// All browser test files use the shared fixture app via fixtureBaseURL(t) and
// fresh harness sessions via newSession(t), which skips when Playwright is not
// installed.
//
// Prerequisites:
// - Install Playwright browsers: go run github.com/playwright-community/playwright-go/cmd/playwright install chromium
// - Run tests with: go test -v ./tests/browser/...
package browser

import (
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Josephaswisher/omniscribe/internal/config"
	"github.com/Josephaswisher/omniscribe/internal/fixture"
	"github.com/Josephaswisher/omniscribe/internal/harness"
)

const (
	// Keep browser waits short: the fixture app is local and renders
	// synchronously, so anything slower than this is a real failure.
	browserMaxTimeout = 5 * time.Second
	browserNavTimeout = 10 * time.Second
	settleDelay       = 250 * time.Millisecond
)

var (
	fixtureMu     sync.Mutex
	fixtureServer *httptest.Server

	playwrightOnce sync.Once
	playwrightErr  error
)

// fixtureBaseURL starts the shared fixture app server on first use.
func fixtureBaseURL(t *testing.T) string {
	t.Helper()

	fixtureMu.Lock()
	defer fixtureMu.Unlock()
	if fixtureServer == nil {
		fixtureServer = httptest.NewServer(fixture.Handler())
	}
	return fixtureServer.URL
}

func cleanupFixtureServer() {
	fixtureMu.Lock()
	defer fixtureMu.Unlock()
	if fixtureServer != nil {
		fixtureServer.Close()
		fixtureServer = nil
	}
}

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupFixtureServer()
	os.Exit(code)
}

// sessionOptions returns harness options against the shared fixture app.
func sessionOptions(t *testing.T) harness.Options {
	t.Helper()
	return harness.Options{
		BaseURL:       fixtureBaseURL(t),
		Headless:      true,
		NavTimeout:    browserNavTimeout,
		ActionTimeout: browserMaxTimeout,
		ArtifactDir:   t.TempDir(),
	}
}

// requirePlaywright skips the test when Playwright (or its browsers) are not
// available on this machine. The probe launch runs once per test binary.
func requirePlaywright(t *testing.T) {
	t.Helper()

	playwrightOnce.Do(func() {
		session, err := harness.NewSession(harness.Options{
			BaseURL:  fixtureBaseURL(t),
			Headless: true,
		})
		if err != nil {
			playwrightErr = err
			return
		}
		playwrightErr = session.Close()
	})
	if playwrightErr != nil {
		t.Skip("Playwright not available:", playwrightErr)
	}
}

// newSession launches a fresh browser session, skipping the test when
// Playwright is not available.
func newSession(t *testing.T, opts harness.Options) *harness.Session {
	t.Helper()
	requirePlaywright(t)

	session, err := harness.NewSession(opts)
	if err != nil {
		t.Fatalf("Failed to launch browser session: %v", err)
	}
	t.Cleanup(func() {
		_ = session.Close()
	})
	return session
}

// fixtureConfig returns runner config pointed at the shared fixture app with
// test-friendly timings.
func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		BaseURL:        fixtureBaseURL(t),
		Headless:       true,
		ViewportWidth:  config.DefaultViewportWidth,
		ViewportHeight: config.DefaultViewportHeight,
		NavTimeout:     browserNavTimeout,
		ActionTimeout:  browserMaxTimeout,
		SettleDelay:    settleDelay,
		ArtifactDir:    t.TempDir(),
		Parallel:       1,
	}
}
