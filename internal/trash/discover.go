package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// FindAllTrashDirectories returns the home trash root plus every valid
// external trash directory ($topdir/.Trash/$uid and $topdir/.Trash-$uid)
// found on mounted filesystems. Used by prune; normal operations only
// ever touch the home trash.
func FindAllTrashDirectories(homeOverride string) ([]string, error) {
	home, err := Open(homeOverride)
	if err != nil {
		return nil, err
	}
	dirs := []string{home.Root()}

	mounts, err := mountPoints()
	if err != nil {
		// External trashes are best-effort; the home trash alone is
		// still useful.
		return dirs, nil
	}

	uid := os.Getuid()
	uidStr := strconv.Itoa(uid)

	for _, mount := range mounts {
		for _, candidate := range []string{
			filepath.Join(mount, ".Trash", uidStr),
			filepath.Join(mount, fmt.Sprintf(".Trash-%d", uid)),
		} {
			if isValidExternalTrash(candidate) {
				dirs = append(dirs, candidate)
			}
		}
	}

	return dirs, nil
}

// isValidExternalTrash checks that the candidate looks like a trash
// directory we can prune (has files/ and info/ subdirectories).
func isValidExternalTrash(root string) bool {
	fi, err := os.Lstat(root)
	if err != nil || !fi.IsDir() {
		return false
	}
	for _, sub := range []string{"files", "info"} {
		fi, err := os.Lstat(filepath.Join(root, sub))
		if err != nil || !fi.IsDir() {
			return false
		}
	}
	return true
}
