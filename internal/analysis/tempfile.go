package analysis

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/telemetry"
)

const tempFilePrefix = "legaldoc-"

// allowedExtensions is the upload whitelist, checked before anything is
// written to disk.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// AllowedExtension reports whether ext passes the upload whitelist
// (case-insensitive).
func AllowedExtension(ext string) bool {
	_, ok := allowedExtensions[strings.ToLower(strings.TrimSpace(ext))]
	return ok
}

// SaveTempFile writes the upload to dir under a generated unique name that
// keeps the original extension. The caller must remove the file when done.
func SaveTempFile(dir, ext string, r io.Reader) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, tempFilePrefix+uuid.NewString()+strings.ToLower(ext))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// RemoveTempFile deletes the temp file if one was created. Failures are
// logged, never escalated; an already-gone file is a no-op.
func RemoveTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		telemetry.Error("tempfile.remove_failed", map[string]any{
			"path": path,
			"err":  err.Error(),
		})
	}
}

// Sweeper periodically removes temp files older than MaxAge, as a safety net
// for cleanup interrupted by a crash. It may race with per-request cleanup;
// deleting an already-deleted file is not an error.
type Sweeper struct {
	Dir      string
	MaxAge   time.Duration
	Interval time.Duration
}

// NewSweeper builds a sweeper with the standard one-hour age and interval.
func NewSweeper(dir string) *Sweeper {
	return &Sweeper{
		Dir:      dir,
		MaxAge:   time.Hour,
		Interval: time.Hour,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.SweepOnce(time.Now())
			if removed > 0 {
				telemetry.Info("tempfile.sweep", map[string]any{
					"dir":     s.Dir,
					"removed": removed,
				})
			}
		}
	}
}

// SweepOnce removes files created by this service whose modification time is
// older than MaxAge and returns how many were removed.
func (s *Sweeper) SweepOnce(now time.Time) int {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), tempFilePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < s.MaxAge {
			continue
		}
		err = os.Remove(filepath.Join(s.Dir, entry.Name()))
		if err == nil || errors.Is(err, os.ErrNotExist) {
			removed++
		}
	}
	metrics.AddTempSweepRemoved(removed)
	return removed
}
