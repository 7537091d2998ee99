package cleanup

import (
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/afero"
)

var logger = slog.Default()

// SetLogger overrides the cleanup logger (useful for CLI configured logging).
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Tracker remembers output files that are still being written. Anything
// still registered when Cleanup runs is treated as partial and removed.
type Tracker struct {
	fs    afero.Fs
	files map[string]struct{}
	mu    sync.Mutex
}

// NewTracker creates a tracker that removes files through fs.
func NewTracker(fs afero.Fs) *Tracker {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Tracker{
		fs:    fs,
		files: make(map[string]struct{}),
	}
}

// Register marks path as partial until Commit is called.
func (t *Tracker) Register(path string) {
	if path == "" || path == "-" {
		return // stdout is never tracked
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[path] = struct{}{}
}

// Commit marks path as complete so Cleanup leaves it alone.
func (t *Tracker) Commit(path string) {
	if path == "" || path == "-" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.files, path)
}

// Pending returns a copy of the paths not yet committed.
func (t *Tracker) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	files := make([]string, 0, len(t.files))
	for path := range t.files {
		files = append(files, path)
	}
	return files
}

// Cleanup removes every pending file.
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	files := make([]string, 0, len(t.files))
	for path := range t.files {
		files = append(files, path)
	}
	t.files = make(map[string]struct{})
	t.mu.Unlock()

	for _, path := range files {
		if err := t.fs.Remove(path); err != nil && !os.IsNotExist(err) {
			// Best effort cleanup - errors are non-critical
			logger.Warn("cleanup_failed", "file", path, "error", err)
			continue
		}
		logger.Debug("cleanup_removed", "file", path)
	}
}
