// Package trash implements the trash-directory engine: where a deleted
// file goes, how stored names avoid collisions, how trashinfo metadata is
// persisted, and how restore reconciles an item with its original location.
package trash

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/trash-go/trash/internal/env"
)

// Directory is a trash root with its two subareas laid out according to
// the XDG trash specification:
//
//	<root>/files/<storedName>
//	<root>/info/<storedName>.trashinfo
type Directory struct {
	// Root directory (e.g., ~/.local/share/Trash)
	root string

	// Files directory (root/files)
	filesDir string

	// Info directory (root/info)
	infoDir string
}

// Open resolves the trash root and lazily creates the files and info
// areas with any missing parents. Resolution order: the explicit override,
// then $XDG_DATA_HOME/Trash, then ~/.local/share/Trash.
func Open(override string) (*Directory, error) {
	root := override
	if root == "" {
		dataDir, err := env.DataHome()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		root = filepath.Join(dataDir, "Trash")
	}
	slog.Debug("open trash directory", "root", root)

	d := &Directory{
		root:     root,
		filesDir: filepath.Join(root, "files"),
		infoDir:  filepath.Join(root, "info"),
	}

	if err := os.MkdirAll(d.filesDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create files directory: %w", err)
	}
	if err := os.MkdirAll(d.infoDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create info directory: %w", err)
	}

	return d, nil
}

// Root returns the trash root directory.
func (d *Directory) Root() string { return d.root }

// FilesDir returns the payload area.
func (d *Directory) FilesDir() string { return d.filesDir }

// InfoDir returns the metadata area.
func (d *Directory) InfoDir() string { return d.infoDir }

// FilePath returns the payload path for a stored name.
func (d *Directory) FilePath(storedName string) string {
	return filepath.Join(d.filesDir, storedName)
}

// Entries returns the stored names currently in the files area, in the
// stable (lexical) order os.ReadDir provides.
func (d *Directory) Entries() ([]string, error) {
	entries, err := os.ReadDir(d.filesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read files directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
