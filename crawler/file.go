package crawler

import (
	"context"
	"os"

	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/siphon/browser"
	"github.com/use-agent/siphon/internal/errs"
	"github.com/use-agent/siphon/runcfg"
	"github.com/use-agent/siphon/urlref"
)

// LocalStrategy implements the file:// and raw: branches of spec §4.7:
// read the content directly, skipping all browser work, except that a
// screenshot request still needs a throwaway page to render into.
type LocalStrategy struct {
	Browser *browser.Manager
}

func (s *LocalStrategy) Crawl(ctx context.Context, ref urlref.Ref, cfg runcfg.RunConfig) (*Response, error) {
	var html string

	switch ref.Kind {
	case urlref.File:
		data, err := os.ReadFile(ref.Value)
		if err != nil {
			return nil, errs.Navigation("failed to read local file", err)
		}
		html = string(data)
	case urlref.Raw:
		html = ref.Value
	default:
		return nil, errs.Configuration("LocalStrategy only handles file:// and raw: references", nil)
	}

	resp := &Response{
		HTML:       html,
		StatusCode: 200,
		FinalURL:   ref.Raw,
	}

	if cfg.Screenshot {
		shot, err := s.renderScreenshot(ctx, html)
		if err != nil {
			resp.Screenshot = blackFramePNG(err.Error())
		} else {
			resp.Screenshot = shot
		}
	}

	return resp, nil
}

// renderScreenshot opens a throwaway page, sets its content to html, and
// captures a screenshot — the only browser work the file/raw branches do.
func (s *LocalStrategy) renderScreenshot(ctx context.Context, html string) (string, error) {
	if s.Browser == nil {
		return "", errs.Configuration("screenshot requested but no browser manager configured", nil)
	}
	page, _, err := s.Browser.GetPage(ctx, "", "")
	if err != nil {
		return "", err
	}
	defer func() { _ = page.Close() }()

	if err := page.SetDocumentContent(html); err != nil {
		return "", errs.Rendering("failed to set page content", err)
	}

	img, err := page.Screenshot(true, &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng})
	if err != nil {
		return "", errs.Rendering("failed to capture screenshot", err)
	}
	return encodeBase64(img), nil
}
