package crawler

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// adjustViewportToContent reads the page's scroll dimensions and overrides
// the device metrics to exactly that width and height at scale factor 1, so
// the whole page fits in one frame (spec §4.7 step 6). The configured
// viewport width is not kept and no down-scaling is applied. Failures here
// are ignored, never fatal.
func adjustViewportToContent(p *rod.Page) {
	res, err := p.Eval(`() => ({w: document.documentElement.scrollWidth, h: document.documentElement.scrollHeight})`)
	if err != nil {
		return
	}
	width := res.Value.Get("w").Int()
	height := res.Value.Get("h").Int()
	if width <= 0 || height <= 0 {
		return
	}

	_ = proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}.Call(p)
}

// scanFullPage iteratively scrolls by one viewport, sleeping scrollDelay
// between steps and recomputing scroll height each step to absorb
// lazy-loaded content, stopping once the current position reaches total
// height, then scrolls back to top (spec §4.7 step 7).
func scanFullPage(p *rod.Page, scrollDelay time.Duration) {
	if scrollDelay <= 0 {
		scrollDelay = 200 * time.Millisecond
	}

	for {
		res, err := p.Eval(`() => ({
			y: window.scrollY,
			vh: window.innerHeight,
			total: document.documentElement.scrollHeight
		})`)
		if err != nil {
			break
		}
		y := res.Value.Get("y").Int()
		vh := res.Value.Get("vh").Int()
		total := res.Value.Get("total").Int()

		if y+vh >= total {
			break
		}
		_, _ = p.Eval(`(vh) => window.scrollBy(0, vh)`, vh)
		time.Sleep(scrollDelay)
	}

	_, _ = p.Eval(`() => window.scrollTo(0, 0)`)
}
