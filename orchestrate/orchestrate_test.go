package orchestrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/use-agent/siphon/cache"
	"github.com/use-agent/siphon/config"
	"github.com/use-agent/siphon/crawler"
	"github.com/use-agent/siphon/internal/logx"
	"github.com/use-agent/siphon/runcfg"
	"github.com/use-agent/siphon/urlref"
)

type fakeStrategy struct {
	calls int
	resp  *crawler.Response
	err   error
}

func (f *fakeStrategy) Crawl(_ context.Context, _ urlref.Ref, _ runcfg.RunConfig) (*crawler.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func testLogger(t *testing.T) *logx.Logger {
	t.Helper()
	dir := t.TempDir()
	log, err := logx.New(config.LogConfig{
		Level:  "error",
		LogDir: dir,
	})
	if err != nil {
		t.Fatalf("logx.New() error = %v", err)
	}
	return log
}

func openTestStore(t *testing.T) *cache.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := cache.Open(dir, 2)
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRun_RawURLSucceedsWithoutBrowser(t *testing.T) {
	strategy := &fakeStrategy{resp: &crawler.Response{
		HTML:       "<html><body><p>hello world, this is a test page</p></body></html>",
		StatusCode: 200,
	}}
	store := openTestStore(t)
	log := testLogger(t)

	o := New(strategy, store, log)
	cfg := runcfg.Defaults()
	cfg.CacheMode = runcfg.Bypass

	res, err := o.Run(context.Background(), "raw:<html><body><p>hello world</p></body></html>", cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got error: %s", res.ErrorMessage)
	}
}

func TestRun_InvalidURLProducesFailedResult(t *testing.T) {
	strategy := &fakeStrategy{}
	store := openTestStore(t)
	log := testLogger(t)

	o := New(strategy, store, log)
	res, err := o.Run(context.Background(), "not-a-valid-scheme", runcfg.Defaults())
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (failure absorbed into result)", err)
	}
	if res.Success {
		t.Error("expected Success=false for an unrecognized URL scheme")
	}
	if res.ErrorMessage == "" {
		t.Error("expected a non-empty ErrorMessage")
	}
	if strategy.calls != 0 {
		t.Errorf("strategy should never be invoked for an invalid URL, got %d calls", strategy.calls)
	}
}

func TestRun_NavigationErrorProducesFailedResult(t *testing.T) {
	strategy := &fakeStrategy{err: errors.New("boom")}
	store := openTestStore(t)
	log := testLogger(t)

	o := New(strategy, store, log)
	cfg := runcfg.Defaults()
	cfg.CacheMode = runcfg.Bypass

	res, err := o.Run(context.Background(), "https://example.com", cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Success {
		t.Error("expected Success=false when the strategy returns an error")
	}
}

func TestRun_CacheHitSkipsStrategy(t *testing.T) {
	strategy := &fakeStrategy{resp: &crawler.Response{HTML: "<html><body>x</body></html>", StatusCode: 200}}
	store := openTestStore(t)
	log := testLogger(t)

	o := New(strategy, store, log)
	cfg := runcfg.Defaults()

	first, err := o.Run(context.Background(), "https://example.com/page", cfg)
	if err != nil || !first.Success {
		t.Fatalf("first Run() failed: err=%v success=%v msg=%s", err, first.Success, first.ErrorMessage)
	}
	if strategy.calls != 1 {
		t.Fatalf("expected exactly 1 strategy call after first Run, got %d", strategy.calls)
	}

	second, err := o.Run(context.Background(), "https://example.com/page", cfg)
	if err != nil || !second.Success {
		t.Fatalf("second Run() failed: err=%v success=%v", err, second.Success)
	}
	if strategy.calls != 1 {
		t.Errorf("expected cache hit to skip the strategy, but calls = %d", strategy.calls)
	}
}

func TestRunMany_PreservesInputOrder(t *testing.T) {
	strategy := &fakeStrategy{resp: &crawler.Response{HTML: "<html><body>x</body></html>", StatusCode: 200}}
	store := openTestStore(t)
	log := testLogger(t)

	o := New(strategy, store, log)
	cfg := runcfg.Defaults()
	cfg.CacheMode = runcfg.Bypass

	urls := []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
	}
	results, err := o.RunMany(context.Background(), urls, cfg)
	if err != nil {
		t.Fatalf("RunMany() error = %v", err)
	}
	if len(results) != len(urls) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(urls))
	}
	for i, u := range urls {
		if results[i].URL != u {
			t.Errorf("results[%d].URL = %q, want %q", i, results[i].URL, u)
		}
	}
}

func TestHostOf(t *testing.T) {
	cases := map[string]string{
		"https://example.com/page":      "example.com",
		"http://sub.example.com:8080/x": "sub.example.com:8080",
		"example.com":                   "example.com",
	}
	for in, want := range cases {
		if got := hostOf(in); got != want {
			t.Errorf("hostOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJitter_NeverExceedsMax(t *testing.T) {
	max := 50 * time.Millisecond
	for i := 0; i < 20; i++ {
		if got := jitter(max); got < 0 || got >= max {
			t.Fatalf("jitter(%v) = %v, out of [0, max)", max, got)
		}
	}
}
