package crawler

import (
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// navCapture records the main-document response's status code and headers
// off the CDP Network domain, since the teacher's Resource Timing trick
// (performance.getEntriesByType) can see a status code but never headers
// (browsers don't expose them there for cross-origin-safety reasons).
type navCapture struct {
	mu      sync.Mutex
	status  int
	headers map[string]string
}

// watchMainResponse subscribes to Network.responseReceived and records the
// first Document-typed response (the navigated page itself, as opposed to
// its sub-resources). Must be called before Navigate so the subscription is
// live when the response arrives.
func watchMainResponse(p *rod.Page) *navCapture {
	c := &navCapture{headers: map[string]string{}}

	_, _ = proto.NetworkEnable{}.Call(p)

	go p.EachEvent(func(e *proto.NetworkResponseReceived) {
		if e.Type != proto.NetworkResourceTypeDocument {
			return
		}
		headers := make(map[string]string, len(e.Response.Headers))
		for k, v := range e.Response.Headers {
			headers[k] = v.Str()
		}
		c.record(int(e.Response.Status), headers)
	})()

	return c
}

func (c *navCapture) record(status int, headers map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != 0 {
		return // first Document response wins
	}
	c.status = status
	c.headers = headers
}

// snapshot returns what's been captured so far. Safe to call once navigation
// has settled (after the wait-until condition resolves).
func (c *navCapture) snapshot() (int, map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.headers
}
