// Package config holds siphon's ambient configuration: the process-lifetime
// BrowserConfig (browser.go) plus the server/auth/rate-limit/log/cache
// settings read from the environment at startup.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string
	Port int
	Mode string // "debug", "release", "test"
}

// ScraperConfig controls crawl-wide timeouts and default resource blocking.
type ScraperConfig struct {
	DefaultTimeout       time.Duration
	MaxTimeout           time.Duration
	NavigationTimeout    time.Duration
	BlockedResourceTypes []string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	Enabled bool
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting on the HTTP surface.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// CacheConfig controls the on-disk content-addressed cache.
type CacheConfig struct {
	BaseDirectory string
	MaxOpenConns  int
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Console    bool
}

// Load reads configuration from environment variables with sane defaults,
// in the teacher's envOr/envIntOr/... style.
func Load() *Config {
	home, _ := os.UserHomeDir()
	defaultBase := home + "/.siphon"

	return &Config{
		Server: ServerConfig{
			Host: envOr("SIPHON_HOST", "0.0.0.0"),
			Port: envIntOr("SIPHON_PORT", 8080),
			Mode: envOr("SIPHON_MODE", "release"),
		},
		Browser: NewBrowserConfig(
			WithHeadless(envBoolOr("SIPHON_HEADLESS", true)),
			WithNoSandbox(envBoolOr("SIPHON_NO_SANDBOX", false)),
			WithMaxPages(envIntOr("SIPHON_MAX_PAGES", 10)),
			WithBrowserBin(os.Getenv("SIPHON_BROWSER_BIN")),
		),
		Scraper: ScraperConfig{
			DefaultTimeout:    envDurationOr("SIPHON_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:        envDurationOr("SIPHON_MAX_TIMEOUT", 120*time.Second),
			NavigationTimeout: envDurationOr("SIPHON_NAV_TIMEOUT", 15*time.Second),
			BlockedResourceTypes: envSliceOr("SIPHON_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SIPHON_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SIPHON_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SIPHON_RATE_RPS", 5.0),
			Burst:             envIntOr("SIPHON_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			BaseDirectory: envOr("SIPHON_BASE_DIRECTORY", defaultBase),
			MaxOpenConns:  envIntOr("SIPHON_CACHE_MAX_CONNS", 4),
		},
		Log: LogConfig{
			Level:      envOr("SIPHON_LOG_LEVEL", "info"),
			LogDir:     envOr("SIPHON_LOG_DIR", defaultBase+"/logs"),
			MaxSizeMB:  envIntOr("SIPHON_LOG_MAX_SIZE_MB", 10),
			MaxBackups: envIntOr("SIPHON_LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envIntOr("SIPHON_LOG_MAX_AGE_DAYS", 28),
			Compress:   envBoolOr("SIPHON_LOG_COMPRESS", true),
			Console:    envBoolOr("SIPHON_LOG_CONSOLE", true),
		},
	}
}

// --- helper functions (env parsing, teacher's idiom) ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
