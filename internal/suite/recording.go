package suite

import (
	"context"
	"fmt"
	"time"

	"github.com/Josephaswisher/omniscribe/internal/config"
	"github.com/Josephaswisher/omniscribe/internal/harness"
	"github.com/Josephaswisher/omniscribe/internal/obs"
	"github.com/Josephaswisher/omniscribe/internal/scenario"
)

// Recording drives the recording flow with microphone permission granted:
// open the recorder from the center nav button, verify the REC indicator and
// timer, let it run, then stop it.
func Recording(cfg *config.Config) scenario.Scenario {
	settleDelay := settle(cfg)

	return scenario.Scenario{
		Name:    "recording",
		Options: sessionOptions(cfg, "microphone"),
		Steps: []scenario.Step{
			{
				Name: "load app",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.Navigate("/", harness.NavOptions{WaitUntil: harness.WaitNetworkIdle}); err != nil {
						return err
					}
					s.WaitFor(settleDelay)
					return nil
				},
			},
			{
				Name: "find record button",
				Run: func(ctx context.Context, s *harness.Session) error {
					recordBtn := s.Locate(NavButtons, NavRecord)
					if err := recordBtn.WaitVisible(); err != nil {
						return err
					}
					box, err := recordBtn.BoundingBox()
					if err != nil {
						return err
					}
					obs.From(ctx).Info("record button located",
						"x", box.X, "y", box.Y, "width", box.Width, "height", box.Height)
					return harness.True("record button has a rendered box",
						box.Width > 0 && box.Height > 0,
						fmt.Sprintf("box %gx%g", box.Width, box.Height))
				},
			},
			{
				Name: "start recording",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.Locate(NavButtons, NavRecord).Click(); err != nil {
						return err
					}
					s.WaitFor(2 * time.Second)
					_, _ = s.Screenshot("recording-opened", true)

					recVisible, err := s.Locate("text="+MarkerRecording, 0).IsVisible()
					if err != nil {
						return err
					}
					if err := harness.True("REC indicator visible", recVisible, "no REC indicator"); err != nil {
						return err
					}

					timerVisible, err := s.Locate(TimerTextLocator, 0).IsVisible()
					if err != nil {
						return err
					}
					if err := harness.True("recording timer visible", timerVisible, "no mm:ss timer"); err != nil {
						return err
					}

					controls, err := s.Count(IconButtons)
					if err != nil {
						return err
					}
					obs.From(ctx).Info("recording started", "control_buttons", controls)
					return nil
				},
			},
			{
				Name: "record dwell",
				Run: func(ctx context.Context, s *harness.Session) error {
					s.WaitFor(3 * time.Second)
					_, serr := s.Screenshot("recording-3s", true)
					return serr
				},
			},
			{
				Name: "stop recording",
				Run: func(ctx context.Context, s *harness.Session) error {
					if err := s.LocateLast(AnyButton).Click(); err != nil {
						return err
					}
					s.WaitFor(settleDelay)
					_, serr := s.Screenshot("recording-after-stop", true)
					return serr
				},
			},
		},
	}
}
