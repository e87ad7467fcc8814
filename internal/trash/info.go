package trash

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trash-go/trash/internal/fs"
)

const (
	// According to XDG spec
	infoHeader = "[Trash Info]"
	infoSuffix = ".trashinfo"
	timeFormat = "2006-01-02T15:04:05"
)

// Missing is the sentinel value reported for fields of an absent or
// corrupt trashinfo record. Callers must treat it as a recoverable
// degraded state, never a failure.
const Missing = "missing"

// Info is the persisted metadata of one trashed item.
type Info struct {
	// Path is the absolute original path of the item
	Path string

	// DeletionDate is the local removal time, second precision,
	// formatted as YYYY-MM-DDTHH:MM:SS. Kept as the raw record string
	// so the sentinel and round-tripping stay exact.
	DeletionDate string
}

// DeletedAt parses the DeletionDate field in local time.
func (i *Info) DeletedAt() (time.Time, error) {
	return time.ParseInLocation(timeFormat, i.DeletionDate, time.Local)
}

// IsMissing reports whether this record carries sentinel fields.
func (i *Info) IsMissing() bool {
	return i.Path == Missing
}

// Store reads and writes trashinfo records in an info area, keyed by
// stored name.
type Store struct {
	dir string
}

// NewStore creates a Store over the given info directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the record path for a stored name.
func (s *Store) Path(storedName string) string {
	return filepath.Join(s.dir, storedName+infoSuffix)
}

// Exists reports whether a record exists for the stored name.
func (s *Store) Exists(storedName string) bool {
	_, err := os.Stat(s.Path(storedName))
	return err == nil
}

// Write persists a record for the stored name. The record file is created
// exclusively so a concurrent writer cannot silently clobber it.
func (s *Store) Write(storedName, originalPath string, deletedAt time.Time) error {
	content := new(strings.Builder)
	fmt.Fprintln(content, infoHeader)
	fmt.Fprintf(content, "Path=%s\n", originalPath)
	fmt.Fprintf(content, "DeletionDate=%s\n", deletedAt.Format(timeFormat))

	f, err := fs.CreateExclusive(s.Path(storedName), 0600)
	if err != nil {
		return fmt.Errorf("failed to create info file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content.String()); err != nil {
		// Try to remove the file if write fails
		os.Remove(s.Path(storedName))
		return fmt.Errorf("failed to write info file: %w", err)
	}

	return nil
}

// Read returns the record for the stored name. An absent record, or one
// missing the Path key, yields sentinel fields instead of an error.
func (s *Store) Read(storedName string) *Info {
	f, err := os.Open(s.Path(storedName))
	if err != nil {
		return &Info{Path: Missing, DeletionDate: Missing}
	}
	defer f.Close()

	return parseInfo(f)
}

// Delete removes the record for the stored name. Deleting an absent
// record is not an error.
func (s *Store) Delete(storedName string) error {
	if err := os.Remove(s.Path(storedName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove info file: %w", err)
	}
	return nil
}

// parseInfo reads a trashinfo record. The format is a flat key-value
// section under a [Trash Info] header; unknown keys are ignored.
func parseInfo(r io.Reader) *Info {
	scanner := bufio.NewScanner(r)
	info := &Info{Path: Missing, DeletionDate: Missing}
	var headerFound bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line == infoHeader {
			headerFound = true
			continue
		}

		// Skip until header is found
		if !headerFound {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "Path":
			if value != "" {
				info.Path = value
			}
		case "DeletionDate":
			if value != "" {
				info.DeletionDate = value
			}
		}
	}

	// A record without a Path is as good as no record at all
	if info.Path == Missing {
		info.DeletionDate = Missing
	}

	return info
}
