package suite

import (
	"context"
	"net/http"
	"time"

	"github.com/Josephaswisher/omniscribe/internal/config"
	"github.com/Josephaswisher/omniscribe/internal/harness"
	"github.com/Josephaswisher/omniscribe/internal/obs"
	"github.com/Josephaswisher/omniscribe/internal/scenario"
)

// Diagnostics loads the app with full capture enabled, surveys the page
// structure, pokes the record button, probes the notes API, and summarizes
// every console message, page error, and failed request seen along the way.
func Diagnostics(cfg *config.Config) scenario.Scenario {
	settleDelay := settle(cfg)

	return scenario.Scenario{
		Name:    "diagnostics",
		Options: sessionOptions(cfg, "microphone"),
		Steps: []scenario.Step{
			{
				Name: "load app",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.Navigate("/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle}); err != nil {
						return err
					}
					s.WaitFor(settleDelay)
					_, serr := s.Screenshot("diagnostics-home", true)
					return serr
				},
			},
			{
				Name: "page census",
				Run: func(ctx context.Context, s *harness.Session) error {
					log := obs.From(ctx)

					title, err := s.Title()
					if err != nil {
						return err
					}

					headerVisible, err := s.Locate("header", 0).IsVisible()
					if err != nil {
						return err
					}
					if err := harness.True("header is visible", headerVisible, "header hidden or absent"); err != nil {
						return err
					}

					navCount, err := s.Count(NavButtons)
					if err != nil {
						return err
					}
					iconCount, err := s.Count(IconButtons)
					if err != nil {
						return err
					}
					totalCount, err := s.Count(AnyButton)
					if err != nil {
						return err
					}
					log.Info("page census",
						"title", title,
						"nav_buttons", navCount,
						"icon_buttons", iconCount,
						"total_buttons", totalCount,
					)

					if navCount < NavButtonCount {
						return harness.EqualsInt("nav button count", navCount, NavButtonCount)
					}

					body, err := s.BodyText()
					if err != nil {
						return err
					}
					log.Debug("visible body text", "preview", bodyPreview(body))
					return nil
				},
			},
			{
				Name: "record button",
				Run: func(ctx context.Context, s *harness.Session) error {
					recordBtn := s.Locate(NavButtons, NavRecord)
					visible, err := recordBtn.IsVisible()
					if err != nil {
						return err
					}
					if err := harness.True("record button visible", visible, "nav button 2 not visible"); err != nil {
						return err
					}
					if err := recordBtn.Click(); err != nil {
						return err
					}
					s.WaitFor(1500 * time.Millisecond)
					_, serr := s.Screenshot("diagnostics-recording", true)
					return serr
				},
			},
			{
				Name: "api probe",
				Run: func(ctx context.Context, s *harness.Session) error {
					res, err := s.FetchJSON(NotesPath)
					if err != nil {
						return err
					}
					obs.From(ctx).Info("notes probe",
						"status", res.Status,
						"notes", res.Get("notes.#").Int(),
					)
					return harness.EqualsInt("GET /api/notes status", res.Status, http.StatusOK)
				},
			},
			{
				Name: "diagnostic summary",
				Run: func(ctx context.Context, s *harness.Session) error {
					diag := s.Diagnostics()
					obs.From(ctx).Info("capture summary",
						"console_errors", len(diag.ConsoleErrors()),
						"console_warnings", len(diag.ConsoleWarnings()),
						"network_failures", len(diag.NetworkFailures()),
						"total_events", diag.Len(),
					)
					return nil
				},
			},
		},
	}
}

func bodyPreview(body string) string {
	const max = 500
	if len(body) <= max {
		return body
	}
	return body[:max]
}
