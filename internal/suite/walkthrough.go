package suite

import (
	"context"
	"net/http"
	"time"

	"github.com/Josephaswisher/omniscribe/internal/config"
	"github.com/Josephaswisher/omniscribe/internal/harness"
	"github.com/Josephaswisher/omniscribe/internal/scenario"
)

// Walkthrough exercises every non-microphone surface of the app in one pass:
// all five nav views, the settings overlay, both API endpoints, and the
// recorder UI.
func Walkthrough(cfg *config.Config) scenario.Scenario {
	settleDelay := settle(cfg)

	return scenario.Scenario{
		Name:    "walkthrough",
		Options: sessionOptions(cfg),
		Steps: []scenario.Step{
			{
				Name: "load app",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.Navigate("/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle}); err != nil {
						return err
					}
					s.WaitFor(settleDelay)
					title, err := s.Title()
					if err != nil {
						return err
					}
					return harness.Equals("page title", title, AppTitle)
				},
			},
			{
				Name: "home view",
				Run: func(ctx context.Context, s *harness.Session) error {
					body, err := s.BodyText()
					if err != nil {
						return err
					}
					return harness.Contains("home empty state", body, MarkerHomeEmpty)
				},
			},
			{
				Name: "folders tab",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.Locate(NavButtons, NavFolders).Click(); err != nil {
						return err
					}
					s.WaitFor(500 * time.Millisecond)
					body, err := s.BodyText()
					if err != nil {
						return err
					}
					if err := harness.ContainsAll("folders view", body,
						MarkerFolders, MarkerPersonal, MarkerWork, MarkerIdeas); err != nil {
						return err
					}
					_, serr := s.Screenshot("walkthrough-folders", false)
					return serr
				},
			},
			{
				Name: "search tab",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.Locate(NavButtons, NavSearch).Click(); err != nil {
						return err
					}
					s.WaitFor(500 * time.Millisecond)
					body, err := s.BodyText()
					if err != nil {
						return err
					}
					if err := harness.Contains("search view", body, MarkerSearch); err != nil {
						return err
					}
					_, serr := s.Screenshot("walkthrough-search", false)
					return serr
				},
			},
			{
				Name: "actions tab",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.Locate(NavButtons, NavActions).Click(); err != nil {
						return err
					}
					s.WaitFor(500 * time.Millisecond)
					body, err := s.BodyText()
					if err != nil {
						return err
					}
					if err := harness.Contains("actions view", body, MarkerActions); err != nil {
						return err
					}
					_, serr := s.Screenshot("walkthrough-actions", false)
					return serr
				},
			},
			{
				Name: "settings",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.LocateLast(HeaderButtons).Click(); err != nil {
						return err
					}
					s.WaitFor(500 * time.Millisecond)
					_, _ = s.Screenshot("walkthrough-settings", false)
					body, err := s.BodyText()
					if err != nil {
						return err
					}
					if err := harness.Contains("settings view", body, MarkerSettings); err != nil {
						return err
					}
					// Back out via the leading icon button.
					if err := s.Locate(IconButtons, 0).Click(); err != nil {
						return err
					}
					s.WaitFor(500 * time.Millisecond)
					return nil
				},
			},
			{
				Name: "api notes",
				Run: func(ctx context.Context, s *harness.Session) error {
					res, err := s.FetchJSON(NotesPath)
					if err != nil {
						return err
					}
					if err := harness.EqualsInt("GET /api/notes status", res.Status, http.StatusOK); err != nil {
						return err
					}
					return harness.True("notes key is an array",
						res.Get("notes").IsArray(), res.JSON().Raw)
				},
			},
			{
				Name: "api parsers",
				Run: func(ctx context.Context, s *harness.Session) error {
					res, err := s.FetchJSON(ParsersPath)
					if err != nil {
						return err
					}
					if err := harness.EqualsInt("GET /api/parsers status", res.Status, http.StatusOK); err != nil {
						return err
					}
					return harness.True("parsers key is an array",
						res.Get("parsers").IsArray(), res.JSON().Raw)
				},
			},
			{
				Name: "record ui",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.Locate(NavButtons, NavHome).Click(); err != nil {
						return err
					}
					s.WaitFor(300 * time.Millisecond)
					if err := s.Locate(NavButtons, NavRecord).Click(); err != nil {
						return err
					}
					s.WaitFor(time.Second)
					body, err := s.BodyText()
					if err != nil {
						return err
					}
					if err := harness.ContainsAll("record ui", body, MarkerRecording, MarkerRawParser); err != nil {
						return err
					}
					_, _ = s.Screenshot("walkthrough-record-ui", false)
					// Close the recorder overlay.
					if err := s.Locate(IconButtons, 0).Click(); err != nil {
						return err
					}
					s.WaitFor(500 * time.Millisecond)
					return nil
				},
			},
		},
	}
}
