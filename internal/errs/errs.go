// Package errs defines siphon's error taxonomy: configuration, navigation,
// rendering, cache, and hook errors, each carrying a stable code so callers
// (and the HTTP layer) can branch without string matching.
package errs

import "fmt"

// Error codes. Configuration/navigation/rendering/cache/hook mirror the
// taxonomy a crawl result's error message must disambiguate.
const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeNavigation    = "NAVIGATION_ERROR"
	CodeRendering     = "RENDERING_ERROR"
	CodeCache         = "CACHE_ERROR"
	CodeHook          = "HOOK_ERROR"
	CodeTimeout       = "TIMEOUT"
	CodeInternal      = "INTERNAL_ERROR"
)

// CrawlError is siphon's internal error type. It wraps an underlying error
// (if any) with a stable code and a human-readable message, and supports
// unwrapping via errors.Is/errors.As.
type CrawlError struct {
	Code    string
	Message string
	Err     error
}

func (e *CrawlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CrawlError) Unwrap() error {
	return e.Err
}

// New creates a CrawlError with the given code, message, and wrapped cause.
func New(code, message string, cause error) *CrawlError {
	return &CrawlError{Code: code, Message: message, Err: cause}
}

// Configuration wraps a caller-bug error (bad selector, unknown scheme, ...).
func Configuration(message string, cause error) *CrawlError {
	return New(CodeConfiguration, message, cause)
}

// Navigation wraps a per-URL fetch failure (timeout, DNS, TLS, HTTP status).
func Navigation(message string, cause error) *CrawlError {
	return New(CodeNavigation, message, cause)
}

// Rendering wraps a non-fatal page-rendering failure.
func Rendering(message string, cause error) *CrawlError {
	return New(CodeRendering, message, cause)
}

// Cache wraps a cache-layer failure. Per spec these are never fatal to a
// crawl — callers treat them as a miss and continue.
func Cache(message string, cause error) *CrawlError {
	return New(CodeCache, message, cause)
}

// Hook wraps a failing lifecycle hook; hook errors DO propagate as crawl
// failures, unlike rendering/cache errors.
func Hook(message string, cause error) *CrawlError {
	return New(CodeHook, message, cause)
}
