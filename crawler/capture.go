package crawler

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"image/png"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var errNoSlicesDecoded = errors.New("no screenshot slices could be decoded")

// captureScreenshot captures a full-page screenshot, or — when the page's
// content height exceeds heightThreshold — vertically concatenated PNG
// slices into one final image (spec §4.7 step 14; Open Question resolution
// recorded in SPEC_FULL.md §9). Falls back to a plain blackFramePNG on
// failure.
func captureScreenshot(p *rod.Page, heightThreshold int) string {
	metrics, err := p.Eval(`() => document.documentElement.scrollHeight`)
	if err != nil {
		return blackFramePNG(err.Error())
	}
	height := metrics.Value.Int()

	if heightThreshold <= 0 || height <= heightThreshold {
		img, err := p.Screenshot(true, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
		if err != nil {
			return blackFramePNG(err.Error())
		}
		return encodeBase64(img)
	}

	return captureSlicedScreenshot(p, height, heightThreshold)
}

// captureSlicedScreenshot scrolls through the page in heightThreshold-sized
// bands, screenshotting each band and stacking the results into one tall
// PNG, avoiding the single-capture height limits some CDP drivers impose.
func captureSlicedScreenshot(p *rod.Page, totalHeight, sliceHeight int) string {
	viewportWidth := 1920
	if res, err := p.Eval(`() => window.innerWidth`); err == nil {
		viewportWidth = res.Value.Int()
	}

	var slices [][]byte
	for y := 0; y < totalHeight; y += sliceHeight {
		_, _ = p.Eval(`(y) => window.scrollTo(0, y)`, y)
		img, err := p.Screenshot(false, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
		if err != nil {
			continue
		}
		slices = append(slices, img)
	}
	_, _ = p.Eval(`() => window.scrollTo(0, 0)`)

	if len(slices) == 0 {
		return blackFramePNG("no screenshot slices captured")
	}

	stacked, err := stackPNGs(slices, viewportWidth)
	if err != nil {
		return blackFramePNG(err.Error())
	}
	return encodeBase64(stacked)
}

func stackPNGs(slices [][]byte, width int) ([]byte, error) {
	decoded := make([]image.Image, 0, len(slices))
	totalHeight := 0
	for _, s := range slices {
		img, err := png.Decode(bytes.NewReader(s))
		if err != nil {
			continue
		}
		decoded = append(decoded, img)
		totalHeight += img.Bounds().Dy()
	}
	if len(decoded) == 0 {
		return nil, errNoSlicesDecoded
	}

	out := image.NewRGBA(image.Rect(0, 0, width, totalHeight))
	y := 0
	for _, img := range decoded {
		b := img.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
