package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// putBlob writes content under folder/{sha256(content)} and returns the hash.
// Writing the same content twice is an idempotent no-op (spec §4.3: "hash
// collisions are idempotent no-ops").
func (s *Store) putBlob(field string, content []byte) (string, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	folder, ok := folders[field]
	if !ok {
		folder = field
	}
	path := filepath.Join(s.baseDir, folder, hash)

	if _, err := os.Stat(path); err == nil {
		return hash, nil // already on disk, nothing to do
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return hash, nil
}

// getBlob reads folder/{hash}. Returns ok=false (never an error) when the
// file is missing, so callers can treat the row as absent per spec §4.3
// ("reads that find a referenced file missing treat the row as absent").
func (s *Store) getBlob(field, hash string) ([]byte, bool) {
	if hash == "" {
		return nil, true // field was never populated; not a missing-file error
	}
	folder, ok := folders[field]
	if !ok {
		folder = field
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, folder, hash))
	if err != nil {
		return nil, false
	}
	return data, true
}

// listBlobFiles lists the full paths of every blob under folder.
func (s *Store) listBlobFiles(folder string) ([]string, error) {
	dir := filepath.Join(s.baseDir, folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func removeFile(path string) error {
	return os.Remove(path)
}
