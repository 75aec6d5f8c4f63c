package browser

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/use-agent/siphon/config"
)

// applyStealthFlags mirrors the teacher's NewScraper flag set verbatim
// (scraper/scraper.go): disable the automation-controlled blink feature and
// every background-throttling/first-run flag that makes headless Chrome
// fingerprintable.
func applyStealthFlags(l *launcher.Launcher) {
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-ipc-flooding-protection"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
}

func applyViewportFlags(l *launcher.Launcher, cfg config.BrowserConfig) {
	l.Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", cfg.Viewport.Width, cfg.Viewport.Height))
}

// applyLightModeFlags disables GPU/extensions/background-network work,
// trading rendering fidelity for throughput on high-concurrency crawls.
func applyLightModeFlags(l *launcher.Launcher) {
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-software-rasterizer"))
	l.Set(flags.Flag("disable-background-networking"))
	l.Set(flags.Flag("disable-sync"))
	l.Set(flags.Flag("metrics-recording-only"))
	l.Set(flags.Flag("mute-audio"))
}

// applyTextOnlyFlags disables image decoding at the browser level, saving
// bandwidth when the run never needs image content.
func applyTextOnlyFlags(l *launcher.Launcher) {
	l.Set(flags.Flag("blink-settings"), "imagesEnabled=false")
}
