package scenario

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// Report aggregates scenario results for one run.
type Report struct {
	Results []*Result
}

// Passed returns the number of passing scenarios.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Failed returns the number of failing scenarios.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// ExitCode returns the process exit status: non-zero on any unrecovered failure.
func (r *Report) ExitCode() int {
	if r.Failed() > 0 {
		return 1
	}
	return 0
}

// Print writes a human-readable summary: per-scenario pass/fail, the step
// reached on failure with expected/actual for assertions, and the full
// ordered diagnostic event log of every failing scenario.
func (r *Report) Print(w io.Writer) {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	dim := color.New(color.Faint)

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, "SCENARIO RESULTS")
	fmt.Fprintln(w, "==================================================")

	for _, res := range r.Results {
		if res.Passed {
			pass.Fprintf(w, "  ✓ %s", res.Scenario)
			fmt.Fprintf(w, " (%d steps, %s)\n", len(res.Steps), res.Duration.Round(time.Millisecond))
		} else {
			fail.Fprintf(w, "  ✗ %s", res.Scenario)
			fmt.Fprintf(w, " failed at step %q [%s]\n", res.FailedStep, res.Code)
			if res.Assertion != nil {
				fmt.Fprintf(w, "      expected: %s\n", res.Assertion.Expected)
				fmt.Fprintf(w, "      actual:   %s\n", res.Assertion.Actual)
			} else if res.Err != nil {
				fmt.Fprintf(w, "      error: %v\n", res.Err)
			}
		}

		for _, step := range res.Steps {
			if step.Advisory && step.Err != nil {
				dim.Fprintf(w, "      advisory: step %q: %v\n", step.Name, step.Err)
			}
		}

		if !res.Passed && len(res.Events) > 0 {
			dim.Fprintf(w, "      diagnostic log (%d events):\n", len(res.Events))
			for _, ev := range res.Events {
				dim.Fprintf(w, "        %3d %s\n", ev.Seq, ev.String())
			}
		}
	}

	fmt.Fprintln(w, "--------------------------------------------------")
	if r.Failed() == 0 {
		pass.Fprintf(w, "  %d passed", r.Passed())
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "  %d passed, ", r.Passed())
		fail.Fprintf(w, "%d failed", r.Failed())
		fmt.Fprintln(w)
	}
}
