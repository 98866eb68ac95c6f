// Package artifact stores failure screenshots and hands back reference URLs.
// Upload failures always degrade to "no artifact"; callers never treat a
// missing screenshot as fatal.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Uploader accepts a raw image buffer keyed by story id and a filesystem-safe
// timestamp and returns a reference URL.
type Uploader interface {
	Upload(storyID, timestamp string, data []byte) (string, error)
}

// Timestamp returns the given time as an ISO-8601 string with `:` and `.`
// replaced so it is safe as a filename on every platform.
func Timestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format(time.RFC3339Nano))
}

// LocalStore writes artifacts under a root directory and serves references
// joined onto a base URL.
type LocalStore struct {
	Root    string
	BaseURL string
}

// NewLocalStore returns a store rooted at dir. baseURL may be empty, in which
// case references are plain file paths.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Root: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload stores the buffer at <root>/<storyID>/<timestamp>.png and returns
// its reference.
func (s *LocalStore) Upload(storyID, timestamp string, data []byte) (string, error) {
	dir := filepath.Join(s.Root, storyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating artifact directory %q: %w", dir, err)
	}
	name := timestamp + ".png"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact %q: %w", path, err)
	}
	if s.BaseURL == "" {
		return path, nil
	}
	return s.BaseURL + "/" + storyID + "/" + name, nil
}
