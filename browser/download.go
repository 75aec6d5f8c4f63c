package browser

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// WatchDownloads sets the page's download behavior to dir and installs an
// event handler that, when a download begins, records the path chosen for it
// (with a numeric suffix appended on filename collision) against the owning
// session. The handler does not wait for the download to finish, so Started
// and Finished carry the same moment. An empty dir falls back to the browser
// config's DownloadsPath when AcceptDownloads is set; with no directory
// either way it does nothing.
func (m *Manager) WatchDownloads(sessionID string, page *rod.Page, dir string) {
	if dir == "" && m.cfg.AcceptDownloads {
		dir = m.cfg.DownloadsPath
	}
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}

	_ = proto.BrowserSetDownloadBehavior{
		Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
		DownloadPath: dir,
	}.Call(page)

	go page.EachEvent(func(e *proto.PageDownloadWillBegin) {
		started := time.Now()
		suggested := e.SuggestedFilename
		if suggested == "" {
			suggested = "download"
		}
		dest := uniquePath(dir, suggested)
		finished := time.Now()

		if m.log != nil {
			m.log.Debug("download started", "session_id", sessionID, "path", dest)
		}

		m.mu.Lock()
		if entry, ok := m.sessions[sessionID]; ok {
			entry.downloads = append(entry.downloads, Download{
				URL:      e.URL,
				Path:     dest,
				Started:  started,
				Finished: finished,
			})
		}
		m.mu.Unlock()
	})()
}

// Downloads returns the accumulated download list for sessionID.
func (m *Manager) Downloads(sessionID string) []Download {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]Download, len(entry.downloads))
	copy(out, entry.downloads)
	return out
}

func uniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, base+"-"+strconv.Itoa(i)+ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
