package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// CreateExclusive creates a new file with O_EXCL flag to ensure atomic creation.
// Returns error if the file already exists.
func CreateExclusive(path string, perm os.FileMode) (*os.File, error) {
	// O_EXCL ensures the file doesn't exist and creates it atomically
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

// Move moves a file or directory from src to dst.
// If the move fails due to being on different devices and fallbackCopy is true,
// it will fall back to copy and delete.
func Move(src, dst string, fallbackCopy bool) error {
	// Ensure the destination directory exists
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	// Try rename(2) first
	if err := os.Rename(src, dst); err != nil {
		if !fallbackCopy {
			return fmt.Errorf("failed to move file: %w", err)
		}
		return copyAndDelete(src, dst)
	}

	return nil
}

// copyAndDelete is the cross-device fallback: copy src to dst, then
// remove the original. A failed source removal takes the copy with it so
// the item never exists twice.
func copyAndDelete(src, dst string) error {
	if err := cp.Copy(src, dst); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	if err := os.RemoveAll(src); err != nil {
		_ = os.RemoveAll(dst)
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}

	return nil
}

// DirSize returns the total size in bytes of the file or directory at path.
func DirSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var size int64
	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			size += fi.Size()
		}
		return nil
	})
	return size, err
}
