package crawler

import (
	"time"

	"github.com/go-rod/rod"

	"github.com/use-agent/siphon/internal/errs"
	"github.com/use-agent/siphon/runcfg"
)

const visibilityPollInterval = 100 * time.Millisecond

// waitBodyVisible waits for <body> to attach, then polls until it is
// actually visible (display/visibility/opacity all non-hiding), per spec
// §4.7 step 4. If polling times out and ignore-body-visibility is set, this
// returns nil and the crawl continues (nothing is logged); otherwise it fails.
func waitBodyVisible(p *rod.Page, cfg runcfg.RunConfig) error {
	if _, err := p.Element("body"); err != nil {
		if cfg.IgnoreBodyVisibility {
			return nil
		}
		return errs.Rendering("body element never attached", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		res, err := p.Eval(`() => {
			const b = document.body;
			if (!b) return false;
			const s = window.getComputedStyle(b);
			return s.display !== 'none' && s.visibility !== 'hidden' && s.opacity !== '0';
		}`)
		if err == nil && res.Value.Bool() {
			return nil
		}
		time.Sleep(visibilityPollInterval)
	}

	if cfg.IgnoreBodyVisibility {
		return nil
	}
	return errs.Rendering("body never became visible within timeout", nil)
}

// waitImagesComplete waits (best-effort, tolerating a timeout) for every
// image on the page to finish loading, per spec §4.7 step 5.
func waitImagesComplete(p *rod.Page) {
	_ = p.WaitDOMStable(300*time.Millisecond, 0.1)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		res, err := p.Eval(`() => Array.from(document.images).every(img => img.complete)`)
		if err == nil && res.Value.Bool() {
			return
		}
		time.Sleep(visibilityPollInterval)
	}
}

// refreshImageDimensions injects a script that updates each image's
// intrinsic width/height attributes from its decoded naturalWidth/
// naturalHeight, improving the scrape stage's image scoring (spec §4.7
// step 10).
func refreshImageDimensions(p *rod.Page) {
	_, _ = p.Eval(`() => {
		document.querySelectorAll('img').forEach(img => {
			if (img.naturalWidth) img.setAttribute('width', img.naturalWidth);
			if (img.naturalHeight) img.setAttribute('height', img.naturalHeight);
		});
	}`)
}
