package harness

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Josephaswisher/omniscribe/internal/errs"
)

const assertPreviewChars = 200

// Contains asserts that haystack contains needle, returning a typed assertion
// error on mismatch. The label names the expectation in the failure report.
func Contains(label, haystack, needle string) error {
	if strings.Contains(haystack, needle) {
		return nil
	}
	return &errs.AssertionError{
		Label:    label,
		Expected: fmt.Sprintf("text containing %q", needle),
		Actual:   preview(haystack),
	}
}

// ContainsAll asserts that haystack contains every needle.
func ContainsAll(label, haystack string, needles ...string) error {
	var missing []string
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			missing = append(missing, needle)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &errs.AssertionError{
		Label:    label,
		Expected: fmt.Sprintf("text containing all of %q", needles),
		Actual:   fmt.Sprintf("missing %q in %s", missing, preview(haystack)),
	}
}

// Equals asserts that actual equals expected.
func Equals(label, actual, expected string) error {
	if actual == expected {
		return nil
	}
	return &errs.AssertionError{
		Label:    label,
		Expected: expected,
		Actual:   actual,
	}
}

// EqualsInt asserts that actual equals expected.
func EqualsInt(label string, actual, expected int) error {
	if actual == expected {
		return nil
	}
	return &errs.AssertionError{
		Label:    label,
		Expected: fmt.Sprintf("%d", expected),
		Actual:   fmt.Sprintf("%d", actual),
	}
}

// True asserts that a condition holds, with a description of what was checked.
func True(label string, ok bool, actual string) error {
	if ok {
		return nil
	}
	return &errs.AssertionError{
		Label:    label,
		Expected: "condition to hold",
		Actual:   actual,
	}
}

// preview returns a single-line truncated form of page text for failure
// output. Truncation lands on a rune boundary so the report stays valid UTF-8.
func preview(text string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), "\n", "\\n")
	if len(normalized) <= assertPreviewChars {
		return normalized
	}
	cut := assertPreviewChars
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "... [truncated]"
}
