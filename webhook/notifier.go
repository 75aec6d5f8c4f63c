package webhook

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/siphon/result"
)

func nowUnix() int64 { return time.Now().Unix() }

// retryDelays are the backoff intervals between delivery attempts: first try
// immediately, then at 1s, 5s, 30s.
var retryDelays = []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second}

// Notifier turns a completed CrawlResult into a signed, retried webhook
// delivery. Unlike the teacher's job-level Deliver/DeliverAsync pair (keyed
// by JobID and fired once per finished batch), a Notifier is fired from the
// orchestrator's synchronous per-result completion callback, so the retry
// loop and its logging carry the crawled URL and status code rather than a
// job ID.
type Notifier struct {
	URL    string
	Secret string

	// Now returns the current unix timestamp; overridable in tests.
	Now func() int64
}

// NewNotifier returns a Notifier posting to url, signed with secret (may be
// empty to disable signing).
func NewNotifier(url, secret string) *Notifier {
	return &Notifier{URL: url, Secret: secret}
}

// Notify delivers r asynchronously as a "crawl.completed" or "crawl.failed"
// event depending on r.Success, retrying per retryDelays on failure.
func (n *Notifier) Notify(r *result.CrawlResult) {
	if n == nil || n.URL == "" || r == nil {
		return
	}

	eventType := "crawl.completed"
	if !r.Success {
		eventType = "crawl.failed"
	}

	now := n.Now
	if now == nil {
		now = nowUnix
	}

	event := &Event{
		Type:      eventType,
		URL:       r.URL,
		Timestamp: now(),
		Data:      r,
	}

	go n.deliverWithRetry(event, r.StatusCode)
}

// deliverWithRetry runs the backoff loop, logging each attempt against the
// crawled URL and the status code the crawl itself returned.
func (n *Notifier) deliverWithRetry(event *Event, crawlStatusCode int) {
	for attempt, delay := range retryDelays {
		if delay > 0 {
			time.Sleep(delay)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := deliver(ctx, n.URL, n.Secret, event)
		cancel()
		if err == nil {
			slog.Info("webhook delivered", "url", n.URL, "event", event.Type,
				"crawl_url", event.URL, "crawl_status", crawlStatusCode, "attempt", attempt+1)
			return
		}
		slog.Warn("webhook delivery failed", "url", n.URL, "event", event.Type,
			"crawl_url", event.URL, "crawl_status", crawlStatusCode, "attempt", attempt+1, "error", err)
	}
	slog.Error("webhook delivery exhausted all retries", "url", n.URL, "event", event.Type,
		"crawl_url", event.URL, "crawl_status", crawlStatusCode)
}
