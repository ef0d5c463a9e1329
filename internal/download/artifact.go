// Package download watches the browser's download directory: it detects a
// transfer starting, follows its progress, tells a stalled transfer from a
// finished one, and moves leftovers from earlier runs out of the way.
package download

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultSuffix marks a file Chrome is still writing.
const DefaultSuffix = ".crdownload"

// Artifact is an in-progress download file as last observed.
type Artifact struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Name returns the base name of the artifact.
func (a Artifact) Name() string {
	return filepath.Base(a.Path)
}

// FindArtifacts lists the regular files in dir whose name ends with suffix.
// Files that vanish while listing are ignored.
func FindArtifacts(dir, suffix string) ([]Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read download dir: %w", err)
	}

	var out []Artifact
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		out = append(out, Artifact{
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return out, nil
}

// Newest returns the most recently modified artifact.
func Newest(artifacts []Artifact) (Artifact, bool) {
	if len(artifacts) == 0 {
		return Artifact{}, false
	}
	newest := artifacts[0]
	for _, a := range artifacts[1:] {
		if a.ModTime.After(newest.ModTime) {
			newest = a
		}
	}
	return newest, true
}

// EnsureDir creates dir if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create download dir %s: %w", dir, err)
	}
	return nil
}
