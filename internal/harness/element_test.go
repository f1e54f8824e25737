package harness

import (
	"strings"
	"testing"

	"github.com/Josephaswisher/omniscribe/internal/errs"
)

func TestLocate_RejectsInvalidNegativeIndex(t *testing.T) {
	t.Parallel()

	// The invalid index is caught before any page access, so a bare session
	// is enough.
	s := &Session{opts: Options{}}

	el := s.Locate("nav button", -2)

	if err := el.Click(); errs.CodeOf(err) != errs.InvalidArgument {
		t.Errorf("Click error code = %q, want %q (err: %v)", errs.CodeOf(err), errs.InvalidArgument, err)
	}
	if _, err := el.InnerText(); errs.CodeOf(err) != errs.InvalidArgument {
		t.Errorf("InnerText error code = %q, want %q", errs.CodeOf(err), errs.InvalidArgument)
	}
	if _, err := el.IsVisible(); errs.CodeOf(err) != errs.InvalidArgument {
		t.Errorf("IsVisible error code = %q, want %q", errs.CodeOf(err), errs.InvalidArgument)
	}
	if err := el.WaitVisible(); errs.CodeOf(err) != errs.InvalidArgument {
		t.Errorf("WaitVisible error code = %q, want %q", errs.CodeOf(err), errs.InvalidArgument)
	}
	if _, err := el.BoundingBox(); errs.CodeOf(err) != errs.InvalidArgument {
		t.Errorf("BoundingBox error code = %q, want %q", errs.CodeOf(err), errs.InvalidArgument)
	}

	err := el.Click()
	if err == nil || !strings.Contains(err.Error(), "nav button") || !strings.Contains(err.Error(), "-2") {
		t.Errorf("failure does not report the query used: %v", err)
	}
}

func TestElement_Describe(t *testing.T) {
	t.Parallel()

	s := &Session{opts: Options{}}

	if got := (&Element{session: s, selector: "button", index: 3}).describe(); got != "button [3]" {
		t.Errorf("describe() = %q, want %q", got, "button [3]")
	}
	if got := (&Element{session: s, selector: "button", index: lastIndex}).describe(); got != "button (last)" {
		t.Errorf("describe() = %q, want %q", got, "button (last)")
	}
}
