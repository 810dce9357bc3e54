// Package backup copies files into a timestamped backup directory before the
// normalize CLI overwrites them.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dir is one run's backup directory. All files saved through the same Dir
// land under a single timestamp, mirroring their original relative paths.
type Dir struct {
	root string
}

// New creates a backup directory handle rooted at
// root/<timestamp-with-dashes>. The directory itself is created lazily on
// first save, so dry runs never leave empty backup directories behind.
func New(root string, now time.Time) *Dir {
	stamp := now.UTC().Format("2006-01-02T15-04-05")
	return &Dir{root: filepath.Join(root, stamp)}
}

// Path returns the run's backup root.
func (d *Dir) Path() string { return d.root }

// Save copies srcRoot/relPath into the backup directory under the same
// relative path, returning the backup file's location.
func (d *Dir) Save(srcRoot, relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(srcRoot, relPath))
	if err != nil {
		return "", fmt.Errorf("reading original for backup: %w", err)
	}

	dst := filepath.Join(d.root, relPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup copy: %w", err)
	}
	return dst, nil
}
