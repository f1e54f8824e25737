package browser

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Josephaswisher/omniscribe/internal/errs"
	"github.com/Josephaswisher/omniscribe/internal/harness"
)

// TestBrowser_DiagnosticCaptureOrdering verifies the session's diagnostic log
// records console messages, page errors, and failed requests in capture order.
func TestBrowser_DiagnosticCaptureOrdering(t *testing.T) {
	session := newSession(t, sessionOptions(t))

	err := session.Navigate("/?boom=console&boom=warn&boom=throw&boom=fetch",
		harness.NavOptions{WaitUntil: harness.WaitNetworkIdle})
	if err != nil {
		t.Fatalf("Failed to navigate to boom page: %v", err)
	}
	// Give the deferred throw and the doomed fetch time to land.
	session.WaitFor(time.Second)

	events := session.Diagnostics().Events()
	if len(events) == 0 {
		t.Fatal("no diagnostic events captured")
	}

	for i, ev := range events {
		if ev.Seq != i+1 {
			t.Errorf("event %d has seq %d, want %d", i, ev.Seq, i+1)
		}
	}

	// Console messages from the same page arrive in emission order: the
	// ready log precedes the deliberate error and warning.
	readyIdx, errorIdx, warnIdx := -1, -1, -1
	var sawPageError bool
	var failedRequest *harness.DiagnosticEvent
	for i, ev := range events {
		switch {
		case ev.Kind == harness.EventConsole && strings.Contains(ev.Text, "shell ready"):
			readyIdx = i
		case ev.Kind == harness.EventConsole && ev.Level == "error" && strings.Contains(ev.Text, "deliberate console error"):
			errorIdx = i
		case ev.Kind == harness.EventConsole && ev.Level == "warning" && strings.Contains(ev.Text, "deliberate console warning"):
			warnIdx = i
		case ev.Kind == harness.EventPageError:
			sawPageError = true
		case ev.Kind == harness.EventRequestFailed:
			failedRequest = &events[i]
		}
	}

	if readyIdx < 0 || errorIdx < 0 || warnIdx < 0 {
		t.Fatalf("missing expected console events (ready=%d error=%d warn=%d) in %d events",
			readyIdx, errorIdx, warnIdx, len(events))
	}
	if readyIdx > errorIdx || errorIdx > warnIdx {
		t.Errorf("console ordering violated: ready=%d error=%d warn=%d", readyIdx, errorIdx, warnIdx)
	}
	if !sawPageError {
		t.Error("uncaught page error was not captured")
	}
	if failedRequest == nil {
		t.Fatal("failed request was not captured")
	}
	if !strings.Contains(failedRequest.URL, "unreachable") {
		t.Errorf("failed request URL = %q, want the doomed fetch target", failedRequest.URL)
	}
	if failedRequest.Reason == "" {
		t.Error("failed request has no failure reason")
	}
}

// TestBrowser_NavigateUnreachableFailsWithinTimeout verifies navigation to an
// unreachable host fails with a navigation error, bounded by the timeout.
func TestBrowser_NavigateUnreachableFailsWithinTimeout(t *testing.T) {
	opts := sessionOptions(t)
	opts.NavTimeout = 3 * time.Second
	session := newSession(t, opts)

	start := time.Now()
	// Port 9 (discard) refuses connections immediately on most hosts; either
	// way the nav timeout bounds the wait.
	err := session.Navigate("http://127.0.0.1:9/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected navigation to unreachable host to fail")
	}
	if code := errs.CodeOf(err); code != errs.NavigationFailed {
		t.Errorf("error code = %q, want %q (err: %v)", code, errs.NavigationFailed, err)
	}
	if elapsed > 15*time.Second {
		t.Errorf("navigation failure took %v, should be bounded by the 3s timeout", elapsed)
	}
}

func TestBrowser_NavigateRejectsUnknownWaitPolicy(t *testing.T) {
	session := newSession(t, sessionOptions(t))

	err := session.Navigate("/", harness.NavOptions{WaitUntil: "eventually"})
	if err == nil {
		t.Fatal("expected unknown wait policy to be rejected")
	}
	if code := errs.CodeOf(err); code != errs.InvalidArgument {
		t.Errorf("error code = %q, want %q", code, errs.InvalidArgument)
	}
}

// TestBrowser_FetchJSON verifies API probes return status and parsed body,
// without touching the primary page.
func TestBrowser_FetchJSON(t *testing.T) {
	session := newSession(t, sessionOptions(t))

	if err := session.Navigate("/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle}); err != nil {
		t.Fatalf("Failed to load app: %v", err)
	}
	eventsBefore := session.Diagnostics().Len()
	titleBefore, err := session.Title()
	if err != nil {
		t.Fatalf("Failed to read title: %v", err)
	}

	notes, err := session.FetchJSON("/api/notes")
	if err != nil {
		t.Fatalf("FetchJSON(/api/notes) failed: %v", err)
	}
	if notes.Status != http.StatusOK {
		t.Errorf("/api/notes status = %d, want 200", notes.Status)
	}
	if !notes.Get("notes").IsArray() {
		t.Errorf("/api/notes body missing notes array: %s", notes.Body)
	}

	parsers, err := session.FetchJSON("/api/parsers")
	if err != nil {
		t.Fatalf("FetchJSON(/api/parsers) failed: %v", err)
	}
	if parsers.Status != http.StatusOK {
		t.Errorf("/api/parsers status = %d, want 200", parsers.Status)
	}
	if count := parsers.Get("parsers.#").Int(); count < 1 {
		t.Errorf("/api/parsers returned %d parsers, want at least 1", count)
	}
	if name := parsers.Get("parsers.0.name").String(); name == "" {
		t.Errorf("first parser has no name: %s", parsers.Body)
	}

	// The probe ran on an auxiliary page: the primary page is untouched.
	titleAfter, err := session.Title()
	if err != nil {
		t.Fatalf("Failed to re-read title: %v", err)
	}
	if titleAfter != titleBefore {
		t.Errorf("probe changed primary page title: %q -> %q", titleBefore, titleAfter)
	}
	if after := session.Diagnostics().Len(); after < eventsBefore {
		t.Errorf("diagnostic log shrank across probe: %d -> %d", eventsBefore, after)
	}
}

func TestBrowser_FetchJSONRejectsNonJSONBody(t *testing.T) {
	session := newSession(t, sessionOptions(t))

	_, err := session.FetchJSON("/plain")
	if err == nil {
		t.Fatal("expected non-JSON body to fail the probe")
	}
	if code := errs.CodeOf(err); code != errs.ProbeFailed {
		t.Errorf("error code = %q, want %q (err: %v)", code, errs.ProbeFailed, err)
	}
}

// TestBrowser_ElementInteraction covers locate/click/innerText/boundingBox on
// the fixture shell.
func TestBrowser_ElementInteraction(t *testing.T) {
	session := newSession(t, sessionOptions(t))

	if err := session.Navigate("/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle}); err != nil {
		t.Fatalf("Failed to load app: %v", err)
	}

	navCount, err := session.Count("nav button")
	if err != nil {
		t.Fatalf("Count(nav button) failed: %v", err)
	}
	if navCount != 5 {
		t.Fatalf("nav button count = %d, want 5", navCount)
	}

	folders := session.Locate("nav button", 1)
	text, err := folders.InnerText()
	if err != nil {
		t.Fatalf("InnerText failed: %v", err)
	}
	if !strings.Contains(text, "Folders") {
		t.Errorf("nav button 1 text = %q, want to contain Folders", text)
	}

	if err := folders.Click(); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	session.WaitFor(settleDelay)

	body, err := session.BodyText()
	if err != nil {
		t.Fatalf("BodyText failed: %v", err)
	}
	for _, marker := range []string{"Personal", "Work", "Ideas"} {
		if !strings.Contains(body, marker) {
			t.Errorf("folders view missing %q", marker)
		}
	}

	box, err := session.Locate("nav button", 2).BoundingBox()
	if err != nil {
		t.Fatalf("BoundingBox failed: %v", err)
	}
	if box.Width <= 0 || box.Height <= 0 {
		t.Errorf("record button box %gx%g, want positive size", box.Width, box.Height)
	}
}

func TestBrowser_ElementNotFoundReportsQuery(t *testing.T) {
	opts := sessionOptions(t)
	opts.ActionTimeout = 2 * time.Second
	session := newSession(t, opts)

	if err := session.Navigate("/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle}); err != nil {
		t.Fatalf("Failed to load app: %v", err)
	}

	err := session.Locate("#no-such-element", 3).Click()
	if err == nil {
		t.Fatal("expected click on missing element to fail")
	}
	if code := errs.CodeOf(err); code != errs.ElementNotFound {
		t.Errorf("error code = %q, want %q (err: %v)", code, errs.ElementNotFound, err)
	}
	if msg := err.Error(); !strings.Contains(msg, "#no-such-element") || !strings.Contains(msg, "[3]") {
		t.Errorf("failure does not report the query used: %s", msg)
	}
}

// TestBrowser_ScreenshotFailureIsAdvisory verifies a failing screenshot
// produces an advisory-coded error and a working one writes a file.
func TestBrowser_ScreenshotFailureIsAdvisory(t *testing.T) {
	opts := sessionOptions(t)
	session := newSession(t, opts)

	if err := session.Navigate("/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle}); err != nil {
		t.Fatalf("Failed to load app: %v", err)
	}

	path, err := session.Screenshot("element-shot", true)
	if err != nil {
		t.Fatalf("Screenshot failed: %v", err)
	}
	if info, statErr := os.Stat(path); statErr != nil || info.Size() == 0 {
		t.Errorf("screenshot file %s missing or empty: %v", path, statErr)
	}

	// Point the artifact dir at a regular file so MkdirAll fails.
	blocked := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker file: %v", err)
	}
	badOpts := opts
	badOpts.ArtifactDir = filepath.Join(blocked, "nested")
	badSession := newSession(t, badOpts)
	if err := badSession.Navigate("/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle}); err != nil {
		t.Fatalf("Failed to load app: %v", err)
	}

	_, err = badSession.Screenshot("doomed", false)
	if err == nil {
		t.Fatal("expected screenshot into blocked dir to fail")
	}
	code := errs.CodeOf(err)
	if code != errs.ScreenshotFailed {
		t.Errorf("error code = %q, want %q", code, errs.ScreenshotFailed)
	}
	if errs.Fatal(code) {
		t.Error("screenshot failures must be advisory, not fatal")
	}
}

// TestBrowser_SessionCloseIsIdempotent verifies Close tolerates repeat calls
// and reports closed state.
func TestBrowser_SessionCloseIsIdempotent(t *testing.T) {
	session := newSession(t, sessionOptions(t))

	if session.Closed() {
		t.Fatal("fresh session reports closed")
	}
	if err := session.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if !session.Closed() {
		t.Error("session does not report closed after Close")
	}
	if err := session.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
}
