package crawler

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/siphon/browser"
	"github.com/use-agent/siphon/internal/errs"
	"github.com/use-agent/siphon/runcfg"
	"github.com/use-agent/siphon/urlref"
)

// HTTPStrategy implements the http(s):// navigation branch of spec §4.7,
// generalizing the teacher's doScrapeRod (scraper/page.go) step order:
// stealth -> cookies -> hijack -> headers -> navigate -> visibility ->
// images -> viewport -> scan -> JS -> smart-wait -> iframes -> overlays ->
// retrieve -> pdf/screenshot.
type HTTPStrategy struct {
	Browser *browser.Manager
	Hooks   *browser.Hooks
}

func (s *HTTPStrategy) Crawl(ctx context.Context, ref urlref.Ref, cfg runcfg.RunConfig) (*Response, error) {
	if ref.Kind != urlref.Web {
		return nil, errs.Configuration("HTTPStrategy only handles web references", nil)
	}

	timeout := cfg.PageTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Step 1: obtain a page keyed by the session id.
	page, _, err := s.Browser.GetPage(ctx, cfg.SessionID, cfg.UserAgent)
	if err != nil {
		return nil, err
	}
	p := page.Context(ctx)

	if cfg.SessionID != "" {
		s.Browser.WatchDownloads(cfg.SessionID, page, "")
	}

	// Step 2: stealth init script + permissive cookie + navigator-override.
	if cfg.Magic {
		_, _ = p.EvalOnNewDocument(stealth.JS)
	}
	s.addPermissiveCookie(p, ref.Raw)
	for _, c := range cfg.Cookies {
		s.addCookie(p, c, ref.Raw)
	}
	if cfg.SimulateUser || cfg.OverrideNavigator || cfg.Magic {
		_, _ = p.EvalOnNewDocument(navigatorOverrideJS)
	}

	router := setupHijack(p, hostFromURL(ref.Raw), cfg.ExcludeExternalImages)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	if len(cfg.ExtraHeaders) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: toNetworkHeaders(cfg.ExtraHeaders)}.Call(p)
	}

	var statusCode int
	var respHeaders map[string]string

	// Step 3: navigate (unless js-only).
	if !cfg.JSOnly {
		if s.Hooks != nil {
			if err := s.Hooks.Run(ctx, browser.BeforeGoto, page); err != nil {
				return nil, err
			}
		}

		// watchMainResponse enables the Network domain, which conflicts with
		// the Fetch domain HijackRequests uses (ERR_BLOCKED_BY_CLIENT on
		// Chromium 145+) — only watch when no hijack router is mounted. With
		// a router mounted, status still comes from Resource Timing below,
		// just without headers.
		var nav *navCapture
		if router == nil {
			nav = watchMainResponse(p)
		}
		if err := p.Navigate(ref.Raw); err != nil {
			return nil, categorizeNavError(err)
		}
		if err := waitUntilCondition(p, cfg.WaitUntil); err != nil {
			return nil, categorizeNavError(err)
		}
		if nav != nil {
			statusCode, respHeaders = nav.snapshot()
		}
		if statusCode == 0 {
			statusCode, _ = captureNavigationInfo(p)
		}

		if s.Hooks != nil {
			if err := s.Hooks.Run(ctx, browser.AfterGoto, page); err != nil {
				return nil, err
			}
		}
	}

	// Step 4: wait for body attached + visible.
	if err := waitBodyVisible(p, cfg); err != nil {
		return nil, err
	}

	// Step 5: wait for images / viewport-adjust prerequisite.
	if cfg.WaitForImages || cfg.AdjustViewportToContent {
		waitImagesComplete(p)
	}

	// Step 6: adjust viewport to content.
	if cfg.AdjustViewportToContent {
		adjustViewportToContent(p)
	}

	// Step 7: scan full page.
	if cfg.ScanFullPage {
		scanFullPage(p, cfg.ScrollDelay)
	}

	// Step 8: execute user JS + on-execution-started + simulate-user.
	for _, code := range cfg.JSCode {
		_, _ = p.Eval(code)
	}
	if s.Hooks != nil {
		if err := s.Hooks.Run(ctx, browser.OnExecutionStarted, page); err != nil {
			return nil, err
		}
	}
	if cfg.SimulateUser {
		simulateUser(p)
	}

	// Step 9: smart-wait.
	if cfg.WaitFor != "" {
		if err := smartWait(p, cfg.WaitFor, timeout); err != nil {
			return nil, errs.Rendering("wait_for condition timed out", err)
		}
	}

	// Step 10: refresh image intrinsic dimensions.
	refreshImageDimensions(p)

	// Step 11: inline iframes.
	if cfg.ProcessIframes {
		inlineIframes(p)
	}

	// Step 12: before-retrieve-html + delay + overlay removal.
	if s.Hooks != nil {
		if err := s.Hooks.Run(ctx, browser.BeforeRetrieveHTML, page); err != nil {
			return nil, err
		}
	}
	if cfg.DelayBeforeReturnHTML > 0 {
		sleepCtx(ctx, cfg.DelayBeforeReturnHTML)
	}
	if cfg.RemoveOverlayElements {
		removeOverlays(p)
	}

	// Step 13: retrieve HTML + before-return-html.
	html, err := p.HTML()
	if err != nil {
		return nil, categorizeNavError(err)
	}
	if s.Hooks != nil {
		if err := s.Hooks.Run(ctx, browser.BeforeReturnHTML, page); err != nil {
			return nil, err
		}
	}

	resp := &Response{
		HTML:            html,
		ResponseHeaders: respHeaders,
		StatusCode:      statusCode,
		SessionID:       cfg.SessionID,
		FinalURL:        evalString(p, `() => window.location.href`),
	}
	if resp.FinalURL == "" {
		resp.FinalURL = ref.Raw
	}

	// Step 14: pdf / screenshot.
	if cfg.PDF {
		if stream, err := p.PDF(&proto.PagePrintToPDF{}); err == nil {
			resp.PDF, _ = io.ReadAll(stream)
		}
	}
	if cfg.Screenshot {
		if cfg.ScreenshotWaitFor > 0 {
			sleepCtx(ctx, cfg.ScreenshotWaitFor)
		}
		resp.Screenshot = captureScreenshot(p, cfg.ScreenshotHeightThreshold)
	}

	// Step 15: delayed-content closure, reading from the still-open page.
	resp.GetDelayedContent = func(ctx context.Context, delay time.Duration) (string, error) {
		sleepCtx(ctx, delay)
		return page.Context(ctx).HTML()
	}
	if cfg.SessionID != "" {
		resp.Downloads = s.Browser.Downloads(cfg.SessionID)
	} else {
		_ = page.Close()
	}

	return resp, nil
}

const navigatorOverrideJS = `() => {
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
}`

func (s *HTTPStrategy) addPermissiveCookie(p *rod.Page, rawURL string) {
	domain := hostFromURL(rawURL)
	_, _ = proto.NetworkSetCookie{
		Name: "siphon_consent", Value: "1", Domain: domain, Path: "/",
	}.Call(p)
}

func (s *HTTPStrategy) addCookie(p *rod.Page, c runcfg.Cookie, rawURL string) {
	domain := c.Domain
	if domain == "" {
		domain = hostFromURL(rawURL)
	}
	path := c.Path
	if path == "" {
		path = "/"
	}
	_, _ = proto.NetworkSetCookie{
		Name: c.Name, Value: c.Value, Domain: domain, Path: path,
	}.Call(p)
}

func hostFromURL(raw string) string {
	rest := strings.TrimPrefix(raw, "https://")
	rest = strings.TrimPrefix(rest, "http://")
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func waitUntilCondition(p *rod.Page, until runcfg.WaitUntil) error {
	switch until {
	case runcfg.NetworkIdle:
		wait := p.WaitRequestIdle(300*time.Millisecond, nil, nil, nil)
		wait()
		return nil
	case runcfg.Load:
		return p.WaitLoad()
	default: // DOMContentLoaded
		return p.WaitDOMStable(300*time.Millisecond, 0.1)
	}
}

// captureNavigationInfo is the fallback status-code source for browsers or
// navigations where watchMainResponse's Network-domain event never fires
// (e.g. a response served from the back-forward cache). Resource Timing
// never exposes response headers cross-origin, so it can't stand in for
// watchMainResponse on that front.
func captureNavigationInfo(p *rod.Page) (int, map[string]string) {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	status := 0
	if err == nil {
		status = res.Value.Int()
	}
	return status, map[string]string{}
}

func evalString(p *rod.Page, js string) string {
	res, err := p.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func toNetworkHeaders(h map[string]string) proto.NetworkHeaders {
	out := make(proto.NetworkHeaders, len(h))
	for k, v := range h {
		out[k] = gson.New(v)
	}
	return out
}

func categorizeNavError(err error) error {
	if err == nil {
		return nil
	}
	return errs.Navigation("navigation to target URL failed", err)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

