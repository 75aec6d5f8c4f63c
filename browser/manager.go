// Package browser owns the headless browser process, its session pool, and
// the lifecycle hook dispatcher, generalizing the teacher's Scraper
// (scraper/scraper.go, scraper/page.go) from a single global page pool to
// named, independently evictable sessions.
package browser

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/siphon/config"
	"github.com/use-agent/siphon/internal/errs"
	"github.com/use-agent/siphon/internal/logx"
	"github.com/use-agent/siphon/useragent"
)

// defaultSessionTTL matches spec §4.2's default eviction window.
const defaultSessionTTL = 1800 * time.Second

// Download is a single completed browser download (spec §3 browser.Download).
type Download struct {
	URL      string
	Path     string
	Started  time.Time
	Finished time.Time
}

// Manager owns the browser process and every live session. No package-level
// state: every Manager instance is independently configurable and disposable
// (spec.md REDESIGN FLAGS: "global writable state → instance-owned state").
type Manager struct {
	cfg    config.BrowserConfig
	log    *logx.Logger
	hooks  *Hooks
	ttl    time.Duration

	browser     *rod.Browser
	userDataDir string // cfg.UserDataDir in managed mode; empty otherwise

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	closed   bool

	stopEviction chan struct{}
}

type sessionEntry struct {
	page       *rod.Page
	context    *rod.Browser // embedded-mode isolated context (rod models this as an incognito Browser)
	userAgent  string
	lastUsed   time.Time
	isEmbedded bool
	downloads  []Download
}

// New launches the browser per cfg (managed or embedded mode) and starts the
// session-eviction loop. Callers must call Close on shutdown.
func New(cfg config.BrowserConfig, log *logx.Logger, hooks *Hooks) (*Manager, error) {
	if hooks == nil {
		hooks = &Hooks{}
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != nil && cfg.Proxy.Server != "" {
		l = l.Proxy(cfg.Proxy.Server)
	}
	if cfg.Channel != "" {
		l = l.Set(flags.Flag("browser-channel"), cfg.Channel)
	}
	if cfg.UseManagedBrowser {
		dir := cfg.UserDataDir
		if dir == "" {
			dir = launcher.DefaultUserDataDirPath()
		}
		l = l.UserDataDir(dir)
		if cfg.DebugPort != 0 {
			l = l.Set(flags.Flag("remote-debugging-port"), strconv.Itoa(cfg.DebugPort))
		}
	}

	applyStealthFlags(l)
	applyViewportFlags(l, cfg)
	if cfg.LightMode {
		applyLightModeFlags(l)
	}
	if cfg.TextOnly {
		applyTextOnlyFlags(l)
	}
	for _, a := range cfg.ExtraArgs {
		l = l.Append(flags.Flag(a), "")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errs.Rendering("failed to launch browser", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, errs.Rendering("failed to connect to browser", err)
	}

	m := &Manager{
		cfg:          cfg,
		log:          log,
		hooks:        hooks,
		ttl:          defaultSessionTTL,
		browser:      b,
		sessions:     make(map[string]*sessionEntry),
		stopEviction: make(chan struct{}),
	}

	if cfg.UseManagedBrowser {
		m.userDataDir = cfg.UserDataDir
	}

	hooks.fire(context.Background(), OnBrowserCreated, nil, nil)

	go m.evictionLoop()
	return m, nil
}

// SetTTL overrides the default session eviction window (used by tests).
func (m *Manager) SetTTL(d time.Duration) { m.ttl = d }

// GetPage returns the page and owning browser for sessionID, creating a new
// session if one doesn't exist yet. An empty sessionID gets a fresh
// throwaway page that is never pooled.
func (m *Manager) GetPage(ctx context.Context, sessionID, ua string) (*rod.Page, *rod.Browser, error) {
	if sessionID == "" {
		page, err := m.newPage(ua)
		if err != nil {
			return nil, nil, err
		}
		return page, m.browser, nil
	}

	m.mu.Lock()
	if entry, ok := m.sessions[sessionID]; ok {
		entry.lastUsed = time.Now()
		m.mu.Unlock()
		return entry.page, m.browser, nil
	}
	m.mu.Unlock()

	identity := ua
	if identity == "" {
		identity = useragent.Random().UserAgent
	}

	page, err := m.newPage(identity)
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	m.sessions[sessionID] = &sessionEntry{
		page:      page,
		userAgent: identity,
		lastUsed:  time.Now(),
	}
	m.mu.Unlock()

	m.hooks.fire(ctx, OnUserAgentUpdated, page, nil)
	return page, m.browser, nil
}

func (m *Manager) newPage(ua string) (*rod.Page, error) {
	page, err := m.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errs.Rendering("failed to create page", err)
	}
	if ua != "" {
		_ = proto.NetworkSetUserAgentOverride{UserAgent: ua}.Call(page)
	}
	return page, nil
}

// KillSession closes the session's page and removes it from the pool. Every
// session page is opened on the shared browser, so no per-session context
// is closed here.
func (m *Manager) KillSession(id string) {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	_ = entry.page.Close()
}

// evictionLoop fire-and-forget evicts sessions idle past the TTL, per spec
// §4.2 ("each call cleans expired sessions asynchronously"), generalized
// here into a periodic sweep instead of a per-call check.
func (m *Manager) evictionLoop() {
	ticker := time.NewTicker(m.ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopEviction:
			return
		case <-ticker.C:
			m.evictExpired()
		}
	}
}

func (m *Manager) evictExpired() {
	now := time.Now()
	var expired []string

	m.mu.Lock()
	for id, entry := range m.sessions {
		if now.Sub(entry.lastUsed) > m.ttl {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		if m.log != nil {
			m.log.Debug("evicting expired session", "session_id", id)
		}
		m.KillSession(id)
	}
}

// Close closes all sessions, closes the browser, and stops the eviction loop.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	close(m.stopEviction)
	for _, id := range ids {
		m.KillSession(id)
	}
	m.browser.MustClose()
}
