package cache

import (
	"database/sql"
	"encoding/json"

	"github.com/use-agent/siphon/internal/errs"
	"github.com/use-agent/siphon/markdown"
	"github.com/use-agent/siphon/result"
)

// Put persists r under urlHash. Per spec §4.3: every referenced content file
// is written to disk before the index row commits, so a crash mid-write
// never leaves a row pointing at a missing file.
func (s *Store) Put(urlHash string, r *result.CrawlResult) error {
	s.acquire()
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()

	htmlHash, err := s.putBlob("html", []byte(r.HTML))
	if err != nil {
		return errs.Cache("failed to write html blob", err)
	}
	cleanedHash, err := s.putBlob("cleaned_html", []byte(r.CleanedHTML))
	if err != nil {
		return errs.Cache("failed to write cleaned_html blob", err)
	}
	markdownHash, err := s.putBlob("markdown", []byte(r.MarkdownV2.RawMarkdown))
	if err != nil {
		return errs.Cache("failed to write markdown blob", err)
	}
	extractedHash, err := s.putBlob("extracted", []byte(r.ExtractedContent))
	if err != nil {
		return errs.Cache("failed to write extracted blob", err)
	}
	var screenshotHash string
	hasScreenshot := r.Screenshot != ""
	if hasScreenshot {
		screenshotHash, err = s.putBlob("screenshot", []byte(r.Screenshot))
		if err != nil {
			return errs.Cache("failed to write screenshot blob", err)
		}
	}

	headersJSON, _ := json.Marshal(r.ResponseHeaders)
	mediaJSON, _ := json.Marshal(r.Media)
	linksJSON, _ := json.Marshal(r.Links)
	metadataJSON, _ := json.Marshal(r.Metadata)
	downloadsJSON, _ := json.Marshal(r.DownloadedFiles)

	_, err = s.db.Exec(`
		INSERT INTO crawl_cache (
			url_hash, url, status_code, success, error_message,
			response_headers, media, links, metadata, downloaded_files,
			html_hash, cleaned_html_hash, markdown_hash, extracted_hash, screenshot_hash,
			has_screenshot, has_pdf
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(url_hash) DO UPDATE SET
			url=excluded.url, status_code=excluded.status_code, success=excluded.success,
			error_message=excluded.error_message, response_headers=excluded.response_headers,
			media=excluded.media, links=excluded.links, metadata=excluded.metadata,
			downloaded_files=excluded.downloaded_files, html_hash=excluded.html_hash,
			cleaned_html_hash=excluded.cleaned_html_hash, markdown_hash=excluded.markdown_hash,
			extracted_hash=excluded.extracted_hash, screenshot_hash=excluded.screenshot_hash,
			has_screenshot=excluded.has_screenshot, has_pdf=excluded.has_pdf
	`, urlHash, r.URL, r.StatusCode, r.Success, r.ErrorMessage,
		string(headersJSON), string(mediaJSON), string(linksJSON), string(metadataJSON), string(downloadsJSON),
		htmlHash, cleanedHash, markdownHash, extractedHash, screenshotHash,
		hasScreenshot, len(r.PDF) > 0,
	)
	if err != nil {
		return errs.Cache("failed to upsert cache row", err)
	}
	return nil
}

// Get looks up urlHash. needScreenshot/needPDF mirror the run-config's
// requested optional artifacts: per spec §4.3 scenario 5, a row is usable
// only if every requested optional artifact was actually cached, otherwise
// it's treated as a miss.
func (s *Store) Get(urlHash string, needScreenshot, needPDF bool) (*result.CrawlResult, bool) {
	s.acquire()
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		url, errorMessage                                                 string
		statusCode                                                        int
		success                                                           bool
		headersJSON, mediaJSON, linksJSON, metadataJSON, downloadsJSON    string
		htmlHash, cleanedHash, markdownHash, extractedHash, screenshotHash sql.NullString
		hasScreenshot, hasPDF                                              bool
	)

	row := s.db.QueryRow(`
		SELECT url, status_code, success, error_message, response_headers, media, links,
		       metadata, downloaded_files, html_hash, cleaned_html_hash, markdown_hash,
		       extracted_hash, screenshot_hash, has_screenshot, has_pdf
		FROM crawl_cache WHERE url_hash = ?
	`, urlHash)
	err := row.Scan(&url, &statusCode, &success, &errorMessage, &headersJSON, &mediaJSON, &linksJSON,
		&metadataJSON, &downloadsJSON, &htmlHash, &cleanedHash, &markdownHash, &extractedHash,
		&screenshotHash, &hasScreenshot, &hasPDF)
	if err != nil {
		return nil, false
	}

	if needScreenshot && !hasScreenshot {
		return nil, false
	}
	// PDF bytes are never written to the cache (has_pdf only records that
	// one was produced), so a run that needs a PDF can never be served here.
	if needPDF {
		return nil, false
	}

	html, ok := s.getBlob("html", htmlHash.String)
	if !ok {
		return nil, false
	}
	cleanedHTML, ok := s.getBlob("cleaned_html", cleanedHash.String)
	if !ok {
		return nil, false
	}
	rawMarkdown, ok := s.getBlob("markdown", markdownHash.String)
	if !ok {
		return nil, false
	}
	extracted, ok := s.getBlob("extracted", extractedHash.String)
	if !ok {
		return nil, false
	}
	var screenshot []byte
	if hasScreenshot {
		screenshot, ok = s.getBlob("screenshot", screenshotHash.String)
		if !ok {
			return nil, false
		}
	}

	withCitations, references := markdown.RewriteCitations(string(rawMarkdown))

	r := &result.CrawlResult{
		URL:              url,
		HTML:             string(html),
		CleanedHTML:      string(cleanedHTML),
		ExtractedContent: string(extracted),
		StatusCode:       statusCode,
		Success:          success,
		ErrorMessage:     errorMessage,
		Screenshot:       string(screenshot),
		Markdown:         withCitations,
	}
	r.MarkdownV2.RawMarkdown = string(rawMarkdown)
	r.MarkdownV2.MarkdownWithCitations = withCitations
	r.MarkdownV2.ReferencesMarkdown = references
	_ = json.Unmarshal([]byte(headersJSON), &r.ResponseHeaders)
	_ = json.Unmarshal([]byte(mediaJSON), &r.Media)
	_ = json.Unmarshal([]byte(linksJSON), &r.Links)
	_ = json.Unmarshal([]byte(metadataJSON), &r.Metadata)
	_ = json.Unmarshal([]byte(downloadsJSON), &r.DownloadedFiles)

	return r, true
}

// Clear drops all rows and every content-addressed file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM crawl_cache`); err != nil {
		return errs.Cache("failed to clear index", err)
	}
	for _, folder := range folders {
		entries, err := s.listBlobFiles(folder)
		if err != nil {
			continue
		}
		for _, p := range entries {
			_ = removeFile(p)
		}
	}
	return nil
}

// Size returns the number of rows currently indexed.
func (s *Store) Size() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM crawl_cache`).Scan(&n)
	if err != nil {
		return 0, errs.Cache("failed to count cache rows", err)
	}
	return n, nil
}

// Flush compacts the sqlite file (VACUUM).
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`VACUUM`); err != nil {
		return errs.Cache("failed to vacuum index", err)
	}
	return nil
}
