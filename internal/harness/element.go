package harness

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/Josephaswisher/omniscribe/internal/errs"
)

// lastIndex selects the final match of a selector, mirroring locator.Last.
const lastIndex = -1

// Element is a handle to the nth element matching a selector. The selector and
// index are retained so failures report the exact query that did not resolve.
type Element struct {
	session  *Session
	selector string
	index    int
	locator  playwright.Locator
	err      error
}

// Locate returns a handle to the nth element matching selector on the primary
// page. The only negative index accepted is -1 (last match); anything else is
// an invalid query and every interaction on the handle reports it. Nothing is
// resolved until an interaction method waits for the element.
func (s *Session) Locate(selector string, index int) *Element {
	e := &Element{
		session:  s,
		selector: selector,
		index:    index,
	}
	if index < lastIndex {
		e.err = errs.New(errs.InvalidArgument,
			fmt.Sprintf("locate %s: index %d is not a valid position", selector, index))
		return e
	}

	base := s.page.Locator(selector)
	switch {
	case index == lastIndex:
		e.locator = base.Last()
	case index == 0:
		e.locator = base.First()
	default:
		e.locator = base.Nth(index)
	}
	return e
}

// LocateLast returns a handle to the final element matching selector.
func (s *Session) LocateLast(selector string) *Element {
	return s.Locate(selector, lastIndex)
}

func (e *Element) describe() string {
	if e.index == lastIndex {
		return fmt.Sprintf("%s (last)", e.selector)
	}
	return fmt.Sprintf("%s [%d]", e.selector, e.index)
}

func (e *Element) timeoutMS() float64 {
	return float64(e.session.opts.ActionTimeout.Milliseconds())
}

// classify maps a locator failure onto the element error taxonomy: if no
// element matches the selector at all the query itself failed, otherwise the
// match exists but never became actionable.
func (e *Element) classify(op string, cause error) error {
	count, countErr := e.session.page.Locator(e.selector).Count()
	if countErr == nil {
		needed := e.index + 1
		if e.index == lastIndex {
			needed = 1
		}
		if count < needed {
			return errs.Wrap(errs.ElementNotFound,
				fmt.Sprintf("%s: no element for %s (%d matches)", op, e.describe(), count), cause)
		}
	}
	return errs.Wrap(errs.ElementNotInteractable,
		fmt.Sprintf("%s: element %s not actionable within %s", op, e.describe(), e.session.opts.ActionTimeout), cause)
}

// Click clicks the element, waiting until it is actionable.
func (e *Element) Click() error {
	if e.err != nil {
		return e.err
	}
	err := e.locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(e.timeoutMS()),
	})
	if err != nil {
		return e.classify("click", err)
	}
	return nil
}

// InnerText returns the element's rendered text, waiting for it to attach.
func (e *Element) InnerText() (string, error) {
	if e.err != nil {
		return "", e.err
	}
	text, err := e.locator.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(e.timeoutMS()),
	})
	if err != nil {
		return "", e.classify("inner text", err)
	}
	return text, nil
}

// IsVisible reports whether the element is currently visible. A non-matching
// selector yields false, not an error, mirroring the underlying driver.
func (e *Element) IsVisible() (bool, error) {
	if e.err != nil {
		return false, e.err
	}
	visible, err := e.locator.IsVisible()
	if err != nil {
		return false, errs.Wrap(errs.Internal,
			fmt.Sprintf("visibility check for %s", e.describe()), err)
	}
	return visible, nil
}

// WaitVisible blocks until the element is visible or the action timeout lapses.
func (e *Element) WaitVisible() error {
	if e.err != nil {
		return e.err
	}
	err := e.locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(e.timeoutMS()),
	})
	if err != nil {
		return e.classify("wait visible", err)
	}
	return nil
}

// BoundingBox returns the element's layout box, waiting for it to attach.
func (e *Element) BoundingBox() (*playwright.Rect, error) {
	if e.err != nil {
		return nil, e.err
	}
	box, err := e.locator.BoundingBox()
	if err != nil {
		return nil, e.classify("bounding box", err)
	}
	if box == nil {
		return nil, errs.New(errs.ElementNotFound,
			fmt.Sprintf("bounding box: element %s is not rendered", e.describe()))
	}
	return box, nil
}
