package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/trash-go/trash/internal/trash"
	"github.com/trash-go/trash/internal/ui"
)

// OrphanedFile represents an orphaned metadata file with additional details
type OrphanedFile struct {
	DeletedAt     time.Time
	OriginalPath  string
	TrashInfoPath string
}

var ErrInvalidArgument = errors.New("prune requires an argument (e.g., orphans, 30d)")

// PruneFunc represents a function that performs a pruning operation
type PruneFunc func() error

// Prune handles the pruning of trash contents: "orphans" removes
// trashinfo records whose payload is gone, an age argument ("30d",
// "2m", "1y") permanently deletes items older than that.
func (c *CLI) Prune(args []string) error {
	slog.Debug("pruning trash contents started")
	defer slog.Debug("pruning trash contents finished")

	if len(args) == 0 {
		return ErrInvalidArgument
	}

	var ages []time.Duration
	var pruneFuncs []PruneFunc

	for _, arg := range args {
		switch arg {
		case "orphans":
			pruneFuncs = append(pruneFuncs, c.pruneOrphans)
		case "":
			return ErrInvalidArgument
		default:
			age, err := parseAge(arg)
			if err != nil {
				slog.Error("failed to parse age", "error", err)
				return fmt.Errorf("unknown prune arguments: %s", arg)
			}
			ages = append(ages, age)
		}
	}

	if len(ages) > 0 {
		pruneFuncs = append(pruneFuncs, func() error {
			return c.pruneOlderThan(ages)
		})
	}

	for _, fn := range pruneFuncs {
		if err := fn(); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLI) trashRoot() string {
	if c.option.TrashDir != "" {
		return c.option.TrashDir
	}
	return c.config.Core.TrashDir
}

// pruneOrphans removes metadata records without corresponding trashed files
func (c *CLI) pruneOrphans() error {
	trashDirs, err := trash.FindAllTrashDirectories(c.trashRoot())
	if err != nil {
		return fmt.Errorf("failed to get trash dirs: %w", err)
	}

	var orphanedFiles []OrphanedFile
	for _, trashDir := range trashDirs {
		files, err := findOrphanedMetadata(trashDir)
		if err != nil {
			slog.Error("failed to find orphaned metadata in trash dir", "dir", trashDir, "error", err)
			continue
		}
		orphanedFiles = append(orphanedFiles, files...)
	}

	if len(orphanedFiles) == 0 {
		fmt.Println("No orphaned metadata files found.")
		return nil
	}

	printOrphanedFilesTable(orphanedFiles)

	// Confirm deletion unless forced
	if !c.option.Force {
		prompter := ui.NewPrompter(os.Stdin, os.Stdout)
		if !prompter.Ask(fmt.Sprintf("Are you sure you want to remove %d orphaned metadata files?", len(orphanedFiles))) {
			fmt.Println("Pruning canceled.")
			return nil
		}
	}

	var failedRemovals []string
	for _, file := range orphanedFiles {
		if err := os.Remove(file.TrashInfoPath); err != nil {
			slog.Error("failed to remove orphaned metadata file", "file", file.TrashInfoPath, "error", err)
			failedRemovals = append(failedRemovals, file.TrashInfoPath)
		}
	}

	if len(failedRemovals) > 0 {
		fmt.Printf("Failed to remove %d files:\n", len(failedRemovals))
		for _, file := range failedRemovals {
			fmt.Println(file)
		}
		return fmt.Errorf("some orphaned metadata files could not be removed")
	}

	fmt.Printf("Successfully removed %d orphaned metadata files.\n", len(orphanedFiles))

	return nil
}

// findOrphanedMetadata finds trashinfo records without corresponding payloads
func findOrphanedMetadata(trashDir string) ([]OrphanedFile, error) {
	infoDir := filepath.Join(trashDir, "info")
	filesDir := filepath.Join(trashDir, "files")
	store := trash.NewStore(infoDir)

	var orphanedFiles []OrphanedFile

	entries, err := os.ReadDir(infoDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read info directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), ".trashinfo") {
			continue
		}

		if strings.HasPrefix(entry.Name(), "._") {
			// exclude mac resource fork
			continue
		}

		storedName := strings.TrimSuffix(entry.Name(), ".trashinfo")

		if _, err := os.Stat(filepath.Join(filesDir, storedName)); os.IsNotExist(err) {
			info := store.Read(storedName)
			deletedAt, _ := info.DeletedAt()
			orphanedFiles = append(orphanedFiles, OrphanedFile{
				DeletedAt:     deletedAt,
				OriginalPath:  info.Path,
				TrashInfoPath: store.Path(storedName),
			})
		}
	}

	return orphanedFiles, nil
}

// pruneOlderThan permanently deletes items deleted longer ago than the
// smallest given age, payload and metadata record together.
func (c *CLI) pruneOlderThan(ages []time.Duration) error {
	cutoff := ages[0]
	for _, age := range ages {
		if age < cutoff {
			cutoff = age
		}
	}
	slog.Debug("age-based pruning", "cutoff", cutoff.String(), "age_count", len(ages))

	trashDirs, err := trash.FindAllTrashDirectories(c.trashRoot())
	if err != nil {
		return fmt.Errorf("failed to get trash dirs: %w", err)
	}

	removed := 0
	for _, trashDir := range trashDirs {
		filesDir := filepath.Join(trashDir, "files")
		store := trash.NewStore(filepath.Join(trashDir, "info"))

		entries, err := os.ReadDir(filesDir)
		if err != nil {
			slog.Error("failed to read files directory", "dir", filesDir, "error", err)
			continue
		}

		for _, entry := range entries {
			info := store.Read(entry.Name())
			deletedAt, err := info.DeletedAt()
			if err != nil {
				// No usable deletion date; leave the item alone
				continue
			}
			if time.Since(deletedAt) < cutoff {
				continue
			}

			if err := os.RemoveAll(filepath.Join(filesDir, entry.Name())); err != nil {
				slog.Error("failed to remove item", "name", entry.Name(), "error", err)
				continue
			}
			if err := store.Delete(entry.Name()); err != nil {
				slog.Error("failed to remove trash info", "name", entry.Name(), "error", err)
			}
			removed++

			if c.option.Verbose {
				fmt.Printf("Pruned %s (deleted %s)\n", entry.Name(), humanize.Time(deletedAt))
			}
		}
	}

	fmt.Printf("Pruned %d items older than %s.\n", removed, cutoff)
	return nil
}

// printOrphanedFilesTable prints a formatted table of orphaned files
func printOrphanedFilesTable(files []OrphanedFile) {
	green := color.New(color.FgHiGreen).SprintFunc()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{green("Deleted At"), green("Size"), green("Path")})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, file := range files {
		size := "-"
		if info, err := os.Stat(file.TrashInfoPath); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		table.Append([]string{
			file.DeletedAt.Format("2006-01-02 15:04:05"),
			size,
			file.TrashInfoPath,
		})
	}
	table.Render()
	fmt.Println()
}

var unitMap = map[string]string{
	"d":      "d",
	"day":    "d",
	"days":   "d",
	"m":      "m",
	"month":  "m",
	"months": "m",
	"y":      "y",
	"year":   "y",
	"years":  "y",
}

func splitNumberAndUnit(input string) (string, string, error) {
	input = strings.TrimSpace(input)
	numPart := strings.Builder{}
	unitPart := strings.Builder{}

	for _, r := range input {
		switch {
		case unicode.IsDigit(r):
			numPart.WriteRune(r)
		case unicode.IsLetter(r):
			unitPart.WriteRune(r)
		default:
			return "", "", errors.New("invalid char included")
		}
	}
	return numPart.String(), unitPart.String(), nil
}

func parseAge(input string) (time.Duration, error) {
	numStr, unit, err := splitNumberAndUnit(strings.ToLower(input))
	if err != nil {
		return 0, fmt.Errorf("invalid chars in age: %s", input)
	}

	num, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, fmt.Errorf("invalid number in age: %s", input)
	}

	mappedUnit, exists := unitMap[unit]
	if !exists {
		return 0, fmt.Errorf("unsupported age unit: %s", unit)
	}

	unitDurations := map[string]time.Duration{
		"d": 24 * time.Hour,
		"m": 30 * 24 * time.Hour,
		"y": 365 * 24 * time.Hour,
	}
	return time.Duration(num) * unitDurations[mappedUnit], nil
}
