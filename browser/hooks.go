package browser

import (
	"context"

	"github.com/go-rod/rod"

	"github.com/use-agent/siphon/internal/errs"
)

// HookKey names one of the lifecycle hook points, fixed per spec §4.2/§5.
type HookKey string

const (
	OnBrowserCreated    HookKey = "on-browser-created"
	OnUserAgentUpdated  HookKey = "on-user-agent-updated"
	OnExecutionStarted  HookKey = "on-execution-started"
	BeforeGoto          HookKey = "before-goto"
	AfterGoto           HookKey = "after-goto"
	BeforeRetrieveHTML  HookKey = "before-retrieve-html"
	BeforeReturnHTML    HookKey = "before-return-html"
)

// HookFunc is a single lifecycle hook. page is nil for process-lifetime
// hooks (on-browser-created); ctx carries cancellation from the crawl.
type HookFunc func(ctx context.Context, page *rod.Page) error

// Hooks is a sync/async-aware dispatcher for the five navigation hook keys
// plus the two process-lifetime hooks, fixed in the order spec.md §5 states:
// before-goto → after-goto → on-execution-started → before-retrieve-html →
// before-return-html. Unlike the teacher (which has no hook concept at all),
// this is new, grounded on spec.md's own ordering contract.
type Hooks struct {
	handlers map[HookKey][]registeredHook
}

type registeredHook struct {
	fn    HookFunc
	async bool
}

// On registers fn for key. async only affects fire (the process-lifetime
// hooks), which launches async handlers as goroutines; Run always calls
// every handler inline and returns the first error as a crawl failure.
func (h *Hooks) On(key HookKey, fn HookFunc, async bool) {
	if h.handlers == nil {
		h.handlers = make(map[HookKey][]registeredHook)
	}
	h.handlers[key] = append(h.handlers[key], registeredHook{fn: fn, async: async})
}

// fire runs every handler registered for key in registration order. Sync
// hooks run inline; async hooks are launched as goroutines and their errors
// are reported through errCh if non-nil (callers that don't need errors,
// e.g. the process-lifetime hooks, pass a nil channel).
func (h *Hooks) fire(ctx context.Context, key HookKey, page *rod.Page, errCh chan<- error) {
	for _, rh := range h.handlers[key] {
		if rh.async {
			go func(fn HookFunc) {
				if err := fn(ctx, page); err != nil && errCh != nil {
					errCh <- errs.Hook(string(key)+" hook failed", err)
				}
			}(rh.fn)
			continue
		}
		if err := rh.fn(ctx, page); err != nil && errCh != nil {
			errCh <- errs.Hook(string(key)+" hook failed", err)
		}
	}
}

// Run executes every handler registered for key synchronously (used on the
// navigation path, where hook errors must be observed in order before the
// next pipeline step runs).
func (h *Hooks) Run(ctx context.Context, key HookKey, page *rod.Page) error {
	for _, rh := range h.handlers[key] {
		if err := rh.fn(ctx, page); err != nil {
			return errs.Hook(string(key)+" hook failed", err)
		}
	}
	return nil
}
