package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// WorkDirs hands out per-run working directories under the media root.
// Each pipeline run owns its directory exclusively and removes it when the
// run ends. Directories left behind by a previous process (eg a crash
// mid-run) are wiped at startup, so disk usage can't grow without bound.
type WorkDirs struct {
	Root string
}

// NewWorkDirs wipes and recreates the root directory.
func NewWorkDirs(root string) (*WorkDirs, error) {
	if err := os.MkdirAll(root, 0777); err != nil {
		return nil, fmt.Errorf("Failed to create working directory root '%v': %w", root, err)
	}
	all, _ := filepath.Glob(filepath.Join(root, "*"))
	for _, fn := range all {
		os.RemoveAll(fn)
	}
	return &WorkDirs{Root: root}, nil
}

// New creates a fresh working directory for one run.
func (w *WorkDirs) New() (string, error) {
	return os.MkdirTemp(w.Root, "run-")
}
