// Package printer hands rendered pages to the platform print spooler.
package printer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Print writes the PNG data to a temporary file and submits it to the
// system print spooler. The temporary file is left in place until the
// spooler has had a chance to read it; stale files are cleaned up on
// the next call.
func Print(pngData []byte) error {
	dir := filepath.Join(os.TempDir(), "print-composer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create spool directory: %w", err)
	}
	cleanupStale(dir)

	path := filepath.Join(dir, fmt.Sprintf("page-%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, pngData, 0o644); err != nil {
		return fmt.Errorf("failed to write spool file: %w", err)
	}

	if err := spool(path); err != nil {
		return fmt.Errorf("failed to submit print job: %w", err)
	}
	return nil
}

// cleanupStale removes spool files older than an hour. The spooler copies
// the file when the job is queued, so anything that old is safe to drop.
func cleanupStale(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-time.Hour)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}
