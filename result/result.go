// Package result defines the artifacts a crawl produces: the top-level
// CrawlResult and its nested Markdown/Media/Links/SSL substructures.
package result

// CrawlResult is the terminal artifact of a single-URL crawl.
type CrawlResult struct {
	URL         string `json:"url"`
	HTML        string `json:"html"`
	CleanedHTML string `json:"cleaned_html,omitempty"`

	Markdown string         `json:"markdown,omitempty"`
	MarkdownV2 MarkdownResult `json:"markdown_v2"`

	ExtractedContent string `json:"extracted_content,omitempty"`

	Media Media `json:"media"`
	Links Links `json:"links"`

	Metadata map[string]string `json:"metadata,omitempty"`

	Screenshot string `json:"screenshot,omitempty"` // base64 PNG
	PDF        []byte `json:"pdf,omitempty"`

	ResponseHeaders map[string]string `json:"response_headers,omitempty"`
	StatusCode      int               `json:"status_code"`
	SSLCertificate  *SSLInfo          `json:"ssl_certificate,omitempty"`

	SessionID       string   `json:"session_id,omitempty"`
	DownloadedFiles []string `json:"downloaded_files,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`
	Success      bool   `json:"success"`
}

// MarkdownResult is the structured dual raw/fit Markdown output (§4.6).
type MarkdownResult struct {
	RawMarkdown           string `json:"raw_markdown"`
	MarkdownWithCitations string `json:"markdown_with_citations"`
	ReferencesMarkdown    string `json:"references_markdown"`
	FitMarkdown           string `json:"fit_markdown,omitempty"`
	FitHTML               string `json:"fit_html,omitempty"`
}

// Media is the image/video/audio inventory extracted during scraping.
type Media struct {
	Images []MediaItem `json:"images,omitempty"`
	Videos []MediaItem `json:"videos,omitempty"`
	Audio  []MediaItem `json:"audio,omitempty"`
}

// MediaItem describes a single media element found on the page.
type MediaItem struct {
	URL         string  `json:"url"`
	Score       float64 `json:"score,omitempty"`
	Description string  `json:"desc,omitempty"`
	Alt         string  `json:"alt,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
}

// Links is the internal/external link inventory.
type Links struct {
	Internal []LinkItem `json:"internal,omitempty"`
	External []LinkItem `json:"external,omitempty"`
}

// LinkItem describes a single anchor extracted from the page.
type LinkItem struct {
	URL   string `json:"href"`
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
}

// SSLInfo carries the leaf certificate details fetch-ssl-cert requested.
type SSLInfo struct {
	Issuer    string `json:"issuer,omitempty"`
	Subject   string `json:"subject,omitempty"`
	NotBefore string `json:"not_before,omitempty"`
	NotAfter  string `json:"not_after,omitempty"`
}

// Failed builds a failed CrawlResult for a given URL and error, matching the
// orchestrator boundary contract: success=false, non-empty error message,
// everything else zero-valued.
func Failed(url, errMessage string) *CrawlResult {
	return &CrawlResult{
		URL:          url,
		Success:      false,
		ErrorMessage: errMessage,
	}
}
