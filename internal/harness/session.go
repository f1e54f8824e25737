// Package harness drives a headless browser session against a deployed web
// application: navigation, element interaction, passive diagnostic capture,
// screenshots, and direct API probes.
//
// A Session owns one browser process, one context, and one primary page.
// Diagnostic listeners are registered at session creation, before any
// navigation, and append to an ordered log for the session's lifetime.
package harness

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/Josephaswisher/omniscribe/internal/errs"
	"github.com/Josephaswisher/omniscribe/internal/obs"
)

const (
	DefaultNavTimeout    = 30 * time.Second
	DefaultActionTimeout = 5 * time.Second
)

// Options configures a browser session.
type Options struct {
	BaseURL        string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	Permissions    []string // e.g. "microphone" for the recording flow
	NavTimeout     time.Duration
	ActionTimeout  time.Duration
	ArtifactDir    string
}

func (o *Options) fillDefaults() {
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = 390
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = 844
	}
	if o.NavTimeout <= 0 {
		o.NavTimeout = DefaultNavTimeout
	}
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = DefaultActionTimeout
	}
}

// Session is one browser process + context + primary page, with its own
// diagnostic log. Close is safe to call multiple times and on any exit path.
type Session struct {
	id   string
	opts Options
	log  *slog.Logger
	diag *DiagnosticLog

	pw      *playwright.Playwright
	browser playwright.Browser
	ctx     playwright.BrowserContext
	page    playwright.Page

	closeOnce sync.Once
	closeErr  error
	closed    bool
	closedMu  sync.Mutex
}

// NewSession launches a browser, creates a context and primary page, and
// registers the diagnostic listeners. On any setup failure everything
// acquired so far is released before returning.
func NewSession(opts Options) (*Session, error) {
	opts.fillDefaults()

	s := &Session{
		id:   uuid.NewString(),
		opts: opts,
		diag: NewDiagnosticLog(),
	}
	s.log = obs.Pkg("harness").With("session_id", s.id)

	pw, err := playwright.Run()
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "start playwright driver", err)
	}
	s.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, errs.Wrap(errs.Internal, "launch chromium", err)
	}
	s.browser = browser

	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	}
	if len(opts.Permissions) > 0 {
		ctxOpts.Permissions = opts.Permissions
	}
	ctx, err := browser.NewContext(ctxOpts)
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, errs.Wrap(errs.Internal, "create browser context", err)
	}
	s.ctx = ctx
	ctx.SetDefaultTimeout(float64(opts.ActionTimeout.Milliseconds()))
	ctx.SetDefaultNavigationTimeout(float64(opts.NavTimeout.Milliseconds()))

	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, errs.Wrap(errs.Internal, "create page", err)
	}
	s.page = page

	s.attachListeners(page)
	s.log.Debug("session started",
		"viewport", fmt.Sprintf("%dx%d", opts.ViewportWidth, opts.ViewportHeight),
		"headless", opts.Headless,
	)
	return s, nil
}

// attachListeners registers the passive diagnostic listeners on a page.
// Listeners must never propagate into scenario flow: a panic while recording
// is logged and dropped.
func (s *Session) attachListeners(page playwright.Page) {
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		defer s.recoverListener("console")
		s.diag.AppendConsole(msg.Type(), msg.Text())
	})
	page.OnPageError(func(err error) {
		defer s.recoverListener("pageerror")
		message := "unknown page error"
		if err != nil {
			message = err.Error()
		}
		s.diag.AppendPageError(message)
	})
	page.OnRequestFailed(func(request playwright.Request) {
		defer s.recoverListener("requestfailed")
		reason := "unknown"
		if ferr := request.Failure(); ferr != nil {
			reason = ferr.Error()
		}
		s.diag.AppendRequestFailed(request.URL(), reason)
	})
}

func (s *Session) recoverListener(kind string) {
	if r := recover(); r != nil {
		s.log.Warn("diagnostic listener failed", "listener", kind, "panic", fmt.Sprint(r))
	}
}

// ID returns the session's run identifier.
func (s *Session) ID() string { return s.id }

// Options returns the session's effective options.
func (s *Session) Options() Options { return s.opts }

// Diagnostics returns the session's diagnostic log.
func (s *Session) Diagnostics() *DiagnosticLog { return s.diag }

// Page returns the primary page.
func (s *Session) Page() playwright.Page { return s.page }

// Closed reports whether Close has completed.
func (s *Session) Closed() bool {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	return s.closed
}

// Close releases the page, context, browser, and driver. Idempotent; returns
// the first release error encountered.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var first error
		record := func(err error) {
			if err != nil && first == nil {
				first = err
			}
		}
		if s.page != nil {
			record(s.page.Close())
		}
		if s.ctx != nil {
			record(s.ctx.Close())
		}
		if s.browser != nil {
			record(s.browser.Close())
		}
		if s.pw != nil {
			record(s.pw.Stop())
		}
		s.closeErr = first
		s.closedMu.Lock()
		s.closed = true
		s.closedMu.Unlock()
		s.log.Debug("session closed", "events", s.diag.Len())
	})
	return s.closeErr
}

// WaitUntil selects the navigation completion condition.
type WaitUntil string

const (
	WaitNetworkIdle      WaitUntil = "networkidle"
	WaitDOMContentLoaded WaitUntil = "domcontentloaded"
	WaitLoad             WaitUntil = "load"
)

// NavOptions configures one navigation.
type NavOptions struct {
	WaitUntil WaitUntil     // defaults to networkidle
	Timeout   time.Duration // defaults to the session nav timeout
}

// Navigate loads a URL on the primary page and waits for the configured
// completion condition. A path starting with "/" is resolved against the
// session base URL.
func (s *Session) Navigate(url string, opts NavOptions) error {
	target := s.resolveURL(url)

	waitState, err := waitUntilState(opts.WaitUntil)
	if err != nil {
		return err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.opts.NavTimeout
	}

	s.log.Debug("navigate", "url", target, "wait_until", string(*waitState))
	_, err = s.page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: waitState,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return errs.Wrap(errs.NavigationFailed,
			fmt.Sprintf("navigate to %s (wait=%s, timeout=%s)", target, *waitState, timeout), err)
	}
	return nil
}

func waitUntilState(w WaitUntil) (*playwright.WaitUntilState, error) {
	switch w {
	case "", WaitNetworkIdle:
		return playwright.WaitUntilStateNetworkidle, nil
	case WaitDOMContentLoaded:
		return playwright.WaitUntilStateDomcontentloaded, nil
	case WaitLoad:
		return playwright.WaitUntilStateLoad, nil
	default:
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("unknown wait policy %q", w))
	}
}

func (s *Session) resolveURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return strings.TrimSuffix(s.opts.BaseURL, "/") + url
}

// WaitFor blocks for a fixed delay, letting the page settle.
func (s *Session) WaitFor(d time.Duration) {
	s.page.WaitForTimeout(float64(d.Milliseconds()))
}

// Title returns the primary page's title.
func (s *Session) Title() (string, error) {
	title, err := s.page.Title()
	if err != nil {
		return "", errs.Wrap(errs.Internal, "read page title", err)
	}
	return title, nil
}

// BodyText returns the visible text of the page body.
func (s *Session) BodyText() (string, error) {
	text, err := s.page.Locator("body").InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(float64(s.opts.ActionTimeout.Milliseconds())),
	})
	if err != nil {
		return "", errs.Wrap(errs.ElementNotFound, "read body text", err)
	}
	return text, nil
}

// Count returns the number of elements matching a selector.
func (s *Session) Count(selector string) (int, error) {
	n, err := s.page.Locator(selector).Count()
	if err != nil {
		return 0, errs.Wrap(errs.Internal, fmt.Sprintf("count %q", selector), err)
	}
	return n, nil
}
