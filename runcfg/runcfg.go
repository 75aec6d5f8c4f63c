// Package runcfg defines the per-request crawl configuration (CrawlerRunConfig
// in spec terms) and the cache-mode enum it carries.
package runcfg

import (
	"time"

	"github.com/use-agent/siphon/useragent"
)

// CacheMode controls whether a crawl reads and/or writes the result cache.
type CacheMode int

const (
	// Enabled reads then writes — the default.
	Enabled CacheMode = iota
	// Disabled never reads or writes; "caching is off for this config".
	Disabled
	// ReadOnly reads but never writes.
	ReadOnly
	// WriteOnly writes but never reads.
	WriteOnly
	// Bypass never reads or writes either, same as Disabled observably;
	// the distinction is "this one call wants a fresh fetch" (see SPEC_FULL.md §9).
	Bypass
)

func (m CacheMode) String() string {
	switch m {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	case ReadOnly:
		return "read_only"
	case WriteOnly:
		return "write_only"
	case Bypass:
		return "bypass"
	default:
		return "unknown"
	}
}

// CanRead reports whether this mode permits a cache lookup.
func (m CacheMode) CanRead() bool {
	return m == Enabled || m == ReadOnly
}

// CanWrite reports whether this mode permits a cache write.
func (m CacheMode) CanWrite() bool {
	return m == Enabled || m == WriteOnly
}

// WaitUntil controls what navigation condition resolves Navigate.
type WaitUntil int

const (
	Load WaitUntil = iota
	DOMContentLoaded
	NetworkIdle
)

// ParserKind selects the HTML parsing backend used by the scrape stage.
type ParserKind int

const (
	ParserLexbor ParserKind = iota
	ParserHTML5
)

// Cookie is a single cookie to inject before navigation.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

// RunConfig is the per-request crawl configuration (spec §3 CrawlerRunConfig).
type RunConfig struct {
	WordCountThreshold int

	ExtractionStrategy string // name registered via orchestrate.WithExtractStrategy
	ChunkingStrategy   string
	MarkdownGenerator  string
	ContentFilter      string // "bm25" | "pruning" | ""

	OnlyText             bool
	CSSSelector          string
	ExcludedTags         []string
	ExcludedSelectors    []string
	KeepDataAttributes   bool
	RemoveForms          bool
	Prettify             bool
	Parser               ParserKind
	FetchSSLCert         bool

	CacheMode CacheMode
	SessionID string

	WaitUntil               WaitUntil
	PageTimeout              time.Duration
	WaitFor                  string // "", "css:SEL", "js:EXPR", or bare selector/JS
	WaitForImages            bool
	DelayBeforeReturnHTML    time.Duration

	MeanDelay time.Duration
	MaxRange  time.Duration

	SemaphoreCount int

	JSCode   []string
	JSOnly   bool

	IgnoreBodyVisibility bool
	ScanFullPage         bool
	ScrollDelay          time.Duration

	ProcessIframes        bool
	RemoveOverlayElements bool
	SimulateUser          bool
	OverrideNavigator     bool
	Magic                 bool

	AdjustViewportToContent bool

	Screenshot                bool
	ScreenshotWaitFor         time.Duration
	ScreenshotHeightThreshold int

	PDF bool

	ImageDescriptionMinWordThreshold int
	ImageScoreThreshold              float64
	ExcludeExternalImages            bool
	ExcludeSocialMediaDomains        bool
	ExcludeExternalLinks             bool
	ExcludeSocialMediaLinks          bool
	ExcludeDomains                   []string

	Cookies       []Cookie
	ExtraHeaders  map[string]string
	UserAgent     string

	Verbose    bool
	LogConsole bool
}

// Defaults returns a RunConfig with the process defaults from spec §3/§4.7.
func Defaults() RunConfig {
	return RunConfig{
		WordCountThreshold:    10,
		CacheMode:             Enabled,
		WaitUntil:             DOMContentLoaded,
		PageTimeout:           60 * time.Second,
		MeanDelay:             0,
		MaxRange:              0,
		SemaphoreCount:        5,
		ScrollDelay:           200 * time.Millisecond,
		ScreenshotHeightThreshold: 20000,
		ImageScoreThreshold:   1,
	}
}

// ApplyMagic applies the "magic mode" convenience: simulate-user + override-navigator
// + stealth init script + random UA, per the glossary definition. The stealth
// init script itself is injected by the crawl strategy when it sees Magic set;
// this method only settles the config-level flags and picks the UA.
func (c RunConfig) ApplyMagic() RunConfig {
	if !c.Magic {
		return c
	}
	c.SimulateUser = true
	c.OverrideNavigator = true
	if c.UserAgent == "" {
		c.UserAgent = useragent.Random().UserAgent
	}
	return c
}
