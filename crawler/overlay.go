package crawler

import "github.com/go-rod/rod"

// removeOverlays clicks known close buttons then deletes high-z-index,
// fixed/sticky-positioned, modal-like nodes and empty blocks, adapted from
// the teacher's removeOverlays (scraper/page.go) with an added close-button
// click pass per spec §4.7 step 12.
func removeOverlays(p *rod.Page) {
	const clickCloseButtons = `() => {
		const selectors = [
			'[class*="close"]', '[aria-label*="close" i]', '[class*="dismiss"]',
			'.cookie-accept', '.consent-accept', '[id*="accept"]',
		];
		for (const sel of selectors) {
			document.querySelectorAll(sel).forEach(el => {
				try { el.click(); } catch (e) {}
			});
		}
	}`
	_, _ = p.Eval(clickCloseButtons)

	const removeOverlayNodes = `() => {
		const els = document.querySelectorAll('*');
		for (const el of els) {
			const style = window.getComputedStyle(el);
			const pos = style.position;
			if (pos === 'fixed' || pos === 'sticky') {
				const z = parseInt(style.zIndex, 10);
				if (z >= 900 || style.zIndex === 'auto') {
					el.remove();
				}
			}
		}
		const selectors = [
			'[class*="cookie"]', '[class*="consent"]', '[class*="overlay"]',
			'[id*="cookie"]', '[id*="consent"]', '[id*="overlay"]',
			'[class*="popup"]', '[id*="popup"]',
			'[class*="gdpr"]', '[id*="gdpr"]',
			'[class*="modal"]', '[id*="modal"]',
		];
		for (const sel of selectors) {
			document.querySelectorAll(sel).forEach(el => {
				const style = window.getComputedStyle(el);
				if (style.position === 'fixed' || style.position === 'sticky' || style.position === 'absolute') {
					el.remove();
				}
			});
		}
		document.querySelectorAll('div,section,span').forEach(el => {
			if (!el.textContent.trim() && el.children.length === 0) el.remove();
		});
		document.documentElement.style.overflow = '';
		document.body.style.overflow = '';
	}`
	_, _ = p.Eval(removeOverlayNodes)
}
