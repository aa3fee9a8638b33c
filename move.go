package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// Directory permissions.
const dirPerm = 0o755

// ensureCategories creates a subfolder for every category under folder.
// Pre-existing directories are accepted as-is, and nothing is ever deleted
// or renamed, so calling it again on a half-migrated folder is harmless.
func (s *sorter) ensureCategories(folder string) error {
	for _, label := range categories {
		dir := filepath.Join(folder, label)
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("%w: %s: %v", errCategoryDir, dir, err)
		}
	}
	return nil
}

// dispose moves a classified file into its category subfolder and returns
// the destination path. An existing file at the destination is overwritten,
// so a rerun over a partially migrated folder converges instead of failing.
// In dry-run mode the move is logged and skipped.
func (s *sorter) dispose(src, label, folder string) (string, error) {
	dest := filepath.Join(folder, label, filepath.Base(src))

	if s.params.DryRun {
		log.WithFields(log.Fields{"type": "DRY RUN", "src": src, "dest": dest}).Info("Skip moving file")
		return dest, nil
	}

	if err := moveFile(src, dest); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{"src": src, "dest": dest}).Debug("Moved file")

	return dest, nil
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// two paths live on different filesystems.
func moveFile(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyFile(src, dest); err != nil {
		return err
	}

	return os.Remove(src)
}

// Copies src to dest, truncating any existing file at dest.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); err != nil {
			log.WithFields(log.Fields{"path": src, "error": err}).Error("Error closing source file")
		}
	}()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
