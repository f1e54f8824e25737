package harness

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/tidwall/gjson"

	"github.com/Josephaswisher/omniscribe/internal/errs"
)

// ProbeResult is the response of a direct API probe: status code plus the raw
// body, with gjson accessors for assertions on the parsed JSON.
type ProbeResult struct {
	URL    string
	Status int
	Body   []byte
}

// JSON returns the parsed body.
func (r *ProbeResult) JSON() gjson.Result {
	return gjson.ParseBytes(r.Body)
}

// Get returns the value at a gjson path, e.g. "notes.#" or "parsers.0.name".
func (r *ProbeResult) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// FetchJSON issues a GET against a URL through an auxiliary page in the same
// browser context, so the primary page's navigation state and diagnostic
// stream are untouched. The body must parse as JSON.
func (s *Session) FetchJSON(url string) (*ProbeResult, error) {
	target := s.resolveURL(url)

	probePage, err := s.ctx.NewPage()
	if err != nil {
		return nil, errs.Wrap(errs.ProbeFailed, "open probe page", err)
	}
	defer func() {
		_ = probePage.Close()
	}()

	resp, err := probePage.Goto(target, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(s.opts.NavTimeout.Milliseconds())),
	})
	if err != nil {
		return nil, errs.Wrap(errs.ProbeFailed, fmt.Sprintf("probe %s", target), err)
	}
	if resp == nil {
		return nil, errs.New(errs.ProbeFailed, fmt.Sprintf("probe %s returned no response", target))
	}

	body, err := resp.Body()
	if err != nil {
		return nil, errs.Wrap(errs.ProbeFailed, fmt.Sprintf("read probe body from %s", target), err)
	}
	if !gjson.ValidBytes(body) {
		return nil, errs.New(errs.ProbeFailed,
			fmt.Sprintf("probe %s returned non-JSON body (%d bytes, status %d)", target, len(body), resp.Status()))
	}

	s.log.Debug("probe", "url", target, "status", resp.Status(), "bytes", len(body))
	return &ProbeResult{
		URL:    target,
		Status: resp.Status(),
		Body:   body,
	}, nil
}
