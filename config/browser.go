package config

// EngineKind selects the headless-browser family to drive.
type EngineKind int

const (
	Chromium EngineKind = iota
	Firefox
	WebKit
)

// ProxyConfig configures an upstream proxy for all browser traffic.
type ProxyConfig struct {
	Server string
	User   string
	Pass   string
}

// Viewport is a browser window size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// UAMode selects how the browser manager picks a User-Agent string.
type UAMode int

const (
	UAFixed UAMode = iota
	UARandom
)

// BrowserConfig is the process-lifetime immutable browser configuration
// (spec §3 BrowserConfig). Built via functional options through NewBrowserConfig
// so the zero value is never used directly, mirroring the teacher's
// env-driven config construction generalized to a builder.
type BrowserConfig struct {
	Engine            EngineKind
	Headless          bool
	UseManagedBrowser bool
	UserDataDir       string
	Channel           string
	Proxy             *ProxyConfig
	Viewport          Viewport
	AcceptDownloads   bool
	DownloadsPath     string
	StorageStatePath  string
	IgnoreTLSErrors   bool
	JSEnabled         bool
	SleepOnClose      bool
	Verbose           bool

	Cookies      []HeaderCookie
	ExtraHeaders map[string]string

	UserAgent     string
	UAMode        UAMode
	TextOnly      bool
	LightMode     bool
	ExtraArgs     []string
	DebugPort     int

	BrowserBin string
	NoSandbox  bool
	MaxPages   int
}

// HeaderCookie is a cookie set at browser-context scope (as opposed to a
// per-request runcfg.Cookie, which can override it for a single crawl).
type HeaderCookie struct {
	Name, Value, Domain, Path string
}

// Option mutates a BrowserConfig during construction.
type Option func(*BrowserConfig)

// NewBrowserConfig builds a BrowserConfig from sane defaults plus options.
func NewBrowserConfig(opts ...Option) BrowserConfig {
	c := BrowserConfig{
		Engine:        Chromium,
		Headless:      true,
		JSEnabled:     true,
		Viewport:      Viewport{Width: 1920, Height: 1080},
		MaxPages:      10,
		ExtraHeaders:  map[string]string{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithHeadless(v bool) Option            { return func(c *BrowserConfig) { c.Headless = v } }
func WithManagedBrowser(v bool) Option       { return func(c *BrowserConfig) { c.UseManagedBrowser = v } }
func WithUserDataDir(dir string) Option      { return func(c *BrowserConfig) { c.UserDataDir = dir } }
func WithChannel(ch string) Option           { return func(c *BrowserConfig) { c.Channel = ch } }
func WithProxy(p ProxyConfig) Option         { return func(c *BrowserConfig) { c.Proxy = &p } }
func WithViewport(w, h int) Option           { return func(c *BrowserConfig) { c.Viewport = Viewport{Width: w, Height: h} } }
func WithDownloads(path string) Option {
	return func(c *BrowserConfig) {
		c.AcceptDownloads = true
		c.DownloadsPath = path
	}
}
func WithUserAgent(ua string, mode UAMode) Option {
	return func(c *BrowserConfig) {
		c.UserAgent = ua
		c.UAMode = mode
	}
}
func WithTextOnly(v bool) Option  { return func(c *BrowserConfig) { c.TextOnly = v } }
func WithLightMode(v bool) Option { return func(c *BrowserConfig) { c.LightMode = v } }
func WithExtraArgs(args ...string) Option {
	return func(c *BrowserConfig) { c.ExtraArgs = append(c.ExtraArgs, args...) }
}
func WithDebugPort(port int) Option  { return func(c *BrowserConfig) { c.DebugPort = port } }
func WithBrowserBin(bin string) Option { return func(c *BrowserConfig) { c.BrowserBin = bin } }
func WithNoSandbox(v bool) Option    { return func(c *BrowserConfig) { c.NoSandbox = v } }
func WithMaxPages(n int) Option      { return func(c *BrowserConfig) { c.MaxPages = n } }
