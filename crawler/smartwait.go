package crawler

import (
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/use-agent/siphon/internal/errs"
)

const smartWaitPollInterval = 100 * time.Millisecond

// smartWait dispatches wait_for per spec §4.7 step 9:
//   - "js:EXPR", a bare "() => …", or a bare "function…" → poll EXPR inside
//     the page until truthy or timeout.
//   - "css:SEL" → wait for the selector until timeout; no JS retry.
//   - anything else (a bare selector) → wait for the selector; if it has not
//     appeared when the timeout ends, poll it as a JS expression for a
//     further timeout.
func smartWait(p *rod.Page, waitFor string, timeout time.Duration) error {
	switch {
	case strings.HasPrefix(waitFor, "js:"):
		return pollJS(p, strings.TrimPrefix(waitFor, "js:"), timeout)
	case strings.HasPrefix(waitFor, "css:"):
		return waitSelector(p, strings.TrimPrefix(waitFor, "css:"), timeout)
	case looksLikeJS(waitFor):
		return pollJS(p, waitFor, timeout)
	default:
		if err := waitSelector(p, waitFor, timeout); err != nil {
			return pollJS(p, waitFor, timeout)
		}
		return nil
	}
}

func looksLikeJS(expr string) bool {
	trimmed := strings.TrimSpace(expr)
	return strings.HasPrefix(trimmed, "()") || strings.HasPrefix(trimmed, "function")
}

func pollJS(p *rod.Page, expr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	js := expr
	if !strings.Contains(js, "=>") && !strings.HasPrefix(strings.TrimSpace(js), "function") {
		js = "() => (" + js + ")"
	}
	for time.Now().Before(deadline) {
		res, err := p.Eval(js)
		if err == nil && res.Value.Bool() {
			return nil
		}
		time.Sleep(smartWaitPollInterval)
	}
	return errs.Rendering("smart-wait JS condition timed out", nil)
}

func waitSelector(p *rod.Page, selector string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := p.Element(selector); err == nil {
			return nil
		}
		time.Sleep(smartWaitPollInterval)
	}
	return errs.Rendering("smart-wait selector never appeared", nil)
}
