// Package scenario executes ordered browser test scenarios and aggregates
// their results into a run report.
package scenario

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Josephaswisher/omniscribe/internal/errs"
	"github.com/Josephaswisher/omniscribe/internal/harness"
	"github.com/Josephaswisher/omniscribe/internal/obs"
)

// Step is one unit of a scenario: navigate, interact, assert, or probe.
type Step struct {
	Name string
	Run  func(ctx context.Context, s *harness.Session) error
}

// Scenario is an ordered sequence of steps run in one fresh browser session.
type Scenario struct {
	Name    string
	Options harness.Options
	Steps   []Step
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	Name     string
	Err      error
	Advisory bool
	Duration time.Duration
}

// Result is one scenario's outcome: the step reached, the failure (if any)
// with its error code and assertion detail, and the full ordered diagnostic
// event log captured by the session.
type Result struct {
	Scenario   string
	Passed     bool
	FailedStep string
	Err        error
	Code       errs.Code
	Assertion  *errs.AssertionError
	Steps      []StepResult
	Events     []harness.DiagnosticEvent
	Duration   time.Duration
}

// Runner executes scenarios. NewSession may be overridden in tests.
type Runner struct {
	NewSession func(harness.Options) (*harness.Session, error)
}

// NewRunner returns a runner backed by real browser sessions.
func NewRunner() *Runner {
	return &Runner{NewSession: harness.NewSession}
}

// Run executes one scenario in its own session. The session is closed on
// every exit path; a fatal step failure triggers a final diagnostic
// screenshot before teardown.
func (r *Runner) Run(ctx context.Context, sc Scenario) *Result {
	log := obs.Pkg("scenario").With("scenario", sc.Name)
	start := time.Now()
	result := &Result{Scenario: sc.Name}

	session, err := r.NewSession(sc.Options)
	if err != nil {
		result.FailedStep = "session start"
		result.Err = err
		result.Code = errs.CodeOf(err)
		result.Duration = time.Since(start)
		log.Error("session start failed", "error", err)
		return result
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("session teardown", "error", err)
		}
		result.Events = session.Diagnostics().Events()
		result.Duration = time.Since(start)
	}()

	log = log.With("session_id", session.ID())
	result.Passed = true

	for _, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			result.Passed = false
			result.FailedStep = step.Name
			result.Err = err
			result.Code = errs.Internal
			log.Warn("scenario cancelled", "step", step.Name)
			return result
		}

		stepStart := time.Now()
		stepCtx := obs.WithCorrelation(ctx, obs.Correlation{
			SessionID: session.ID(),
			Scenario:  sc.Name,
			Step:      step.Name,
		})
		log.Info("step", "step", step.Name)
		err := runStep(stepCtx, step, session)
		sr := StepResult{Name: step.Name, Err: err, Duration: time.Since(stepStart)}

		if err != nil {
			code := errs.CodeOf(err)
			if !errs.Fatal(code) {
				sr.Advisory = true
				result.Steps = append(result.Steps, sr)
				log.Warn("advisory step failure", "step", step.Name, "error", err)
				continue
			}

			result.Steps = append(result.Steps, sr)
			result.Passed = false
			result.FailedStep = step.Name
			result.Err = err
			result.Code = code
			result.Assertion = errs.AssertionOf(err)
			log.Error("step failed", "step", step.Name, "code", string(code), "error", err)

			// Best effort: capture the failing render before teardown.
			_, _ = session.Screenshot(sc.Name+"-failure", true)
			return result
		}
		result.Steps = append(result.Steps, sr)
	}
	return result
}

// runStep executes one step, converting a panic into an internal error so a
// misbehaving step still yields teardown and a report.
func runStep(ctx context.Context, step Step, session *harness.Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.New(errs.Internal, fmt.Sprintf("step %q panicked: %v", step.Name, r))
		}
	}()
	return step.Run(ctx, session)
}

// RunAll executes scenarios with at most parallel running concurrently. Each
// scenario owns an independent session; a failure in one never aborts the
// others. Results are returned in input order.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario, parallel int) []*Result {
	if parallel <= 0 {
		parallel = 1
	}

	results := make([]*Result, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, sc := range scenarios {
		g.Go(func() error {
			results[i] = r.Run(gctx, sc)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
