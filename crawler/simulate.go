package crawler

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/ysmood/gson"
)

// simulateUser performs a small mouse move/click and an arrow-down keypress,
// per spec §4.7 step 8 — enough motion to defeat naive bot-detection
// heuristics that watch for a page that never receives input events.
func simulateUser(p *rod.Page) {
	_ = p.Mouse.MoveTo(gson.Point{X: 100, Y: 100})
	_ = p.Mouse.MoveTo(gson.Point{X: 150, Y: 160})
	_ = p.Mouse.Click(input.MouseButtonLeft, 1)
	_ = p.Keyboard.Type(input.ArrowDown)
}
