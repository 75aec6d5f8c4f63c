package crawler

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
)

// inlineIframes assigns each iframe a synthetic id, waits for its content
// frame to load, and inlines its body as a div.extracted-iframe-content-{i}
// on the parent page, per spec §4.7 step 11. Frames that never expose a
// content frame are skipped silently (best-effort; nothing is logged).
func inlineIframes(p *rod.Page) {
	frames, err := p.Elements("iframe")
	if err != nil {
		return
	}

	for i, frame := range frames {
		_, _ = frame.Eval(fmt.Sprintf(`() => { this.dataset.siphonFrameId = %d; }`, i))

		page, err := frame.Frame()
		if err != nil {
			continue
		}
		page = page.Timeout(5 * time.Second)

		body, err := page.Element("body")
		if err != nil {
			continue
		}
		html, err := body.HTML()
		if err != nil {
			continue
		}

		_, _ = p.Eval(fmt.Sprintf(`(html) => {
			const el = document.querySelector('[data-siphon-frame-id="%d"]');
			if (!el) return;
			const div = document.createElement('div');
			div.className = 'extracted-iframe-content-%d';
			div.innerHTML = html;
			el.replaceWith(div);
		}`, i, i), html)
	}
}
