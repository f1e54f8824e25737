package harness

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// EventKind tags the source of a captured diagnostic event.
type EventKind string

const (
	EventConsole       EventKind = "console"
	EventPageError     EventKind = "pageerror"
	EventRequestFailed EventKind = "requestfailed"
)

// DiagnosticEvent is one captured console message, page error, or failed
// network request. Events are immutable after insertion.
type DiagnosticEvent struct {
	Seq  int
	Time time.Time
	Kind EventKind

	// Console fields
	Level string
	Text  string

	// Request-failed fields
	URL    string
	Reason string
}

func (e DiagnosticEvent) String() string {
	switch e.Kind {
	case EventConsole:
		return fmt.Sprintf("[CONSOLE %s] %s", strings.ToUpper(e.Level), e.Text)
	case EventPageError:
		return fmt.Sprintf("[PAGE ERROR] %s", e.Text)
	case EventRequestFailed:
		return fmt.Sprintf("[REQUEST FAILED] %s - %s", e.URL, e.Reason)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Text)
	}
}

// DiagnosticLog is an append-only, ordered event log owned by one session.
// Playwright delivers events from its dispatcher goroutine, so appends are
// mutex-guarded; readers get a snapshot copy.
type DiagnosticLog struct {
	mu     sync.Mutex
	events []DiagnosticEvent
	seq    int
}

// NewDiagnosticLog creates an empty log.
func NewDiagnosticLog() *DiagnosticLog {
	return &DiagnosticLog{}
}

func (l *DiagnosticLog) append(ev DiagnosticEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	ev.Seq = l.seq
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	l.events = append(l.events, ev)
}

// AppendConsole records a console message.
func (l *DiagnosticLog) AppendConsole(level, text string) {
	l.append(DiagnosticEvent{Kind: EventConsole, Level: level, Text: text})
}

// AppendPageError records an uncaught page error.
func (l *DiagnosticLog) AppendPageError(message string) {
	l.append(DiagnosticEvent{Kind: EventPageError, Text: message})
}

// AppendRequestFailed records a failed network request.
func (l *DiagnosticLog) AppendRequestFailed(url, reason string) {
	l.append(DiagnosticEvent{Kind: EventRequestFailed, URL: url, Reason: reason})
}

// Events returns a snapshot of all events in capture order.
func (l *DiagnosticLog) Events() []DiagnosticEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]DiagnosticEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of captured events.
func (l *DiagnosticLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// ConsoleErrors returns captured console messages at error level.
func (l *DiagnosticLog) ConsoleErrors() []DiagnosticEvent {
	return l.filter(func(ev DiagnosticEvent) bool {
		return ev.Kind == EventConsole && ev.Level == "error"
	})
}

// ConsoleWarnings returns captured console messages at warning level.
func (l *DiagnosticLog) ConsoleWarnings() []DiagnosticEvent {
	return l.filter(func(ev DiagnosticEvent) bool {
		return ev.Kind == EventConsole && ev.Level == "warning"
	})
}

// NetworkFailures returns page errors and failed requests.
func (l *DiagnosticLog) NetworkFailures() []DiagnosticEvent {
	return l.filter(func(ev DiagnosticEvent) bool {
		return ev.Kind == EventPageError || ev.Kind == EventRequestFailed
	})
}

// MatchingText returns events whose text contains any of the given fragments,
// case-insensitively. Used for triaging cloud/sync/API errors.
func (l *DiagnosticLog) MatchingText(fragments ...string) []DiagnosticEvent {
	return l.filter(func(ev DiagnosticEvent) bool {
		text := strings.ToLower(ev.Text)
		for _, fragment := range fragments {
			if strings.Contains(text, strings.ToLower(fragment)) {
				return true
			}
		}
		return false
	})
}

func (l *DiagnosticLog) filter(keep func(DiagnosticEvent) bool) []DiagnosticEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []DiagnosticEvent
	for _, ev := range l.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}
