package trash

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/docker/go-units"
	"github.com/gobwas/glob"
	"github.com/k1LoW/duration"
	"github.com/trash-go/trash/internal/config"
	"github.com/trash-go/trash/internal/fs"
)

// Filterable defines the interface that trashed items must implement to be filtered
type Filterable interface {
	// GetName returns the stored name of the item
	GetName() string
	// GetPath returns the current path in trash
	GetPath() string
	// GetDeletedAt returns when the item was trashed
	GetDeletedAt() time.Time
}

// FilterOptions holds filtering configuration
type FilterOptions struct {
	Include config.IncludeConfig
	Exclude config.ExcludeConfig
}

// Filter applies the listing filter rules to a slice of items
func Filter[T Filterable](items []T, opts FilterOptions) []T {
	items = rejectByNames(items, opts.Exclude.Files)
	items = rejectByPatterns(items, opts.Exclude.Patterns)
	items = rejectByGlobs(items, opts.Exclude.Globs)
	items = rejectBySize(items, opts.Exclude.Size, fs.DirSize)
	items = filterByPeriod(items, opts.Include.Period)
	return items
}

func rejectByNames[T Filterable](items []T, excludeFiles []string) []T {
	if len(excludeFiles) == 0 {
		return items
	}

	var filtered []T
	for _, item := range items {
		excluded := false
		for _, exclude := range excludeFiles {
			if item.GetName() == exclude {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func rejectByPatterns[T Filterable](items []T, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}

	var filtered []T
	for _, item := range items {
		excluded := false
		for _, pattern := range patterns {
			if matched, err := regexp.MatchString(pattern, item.GetName()); err == nil && matched {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func rejectByGlobs[T Filterable](items []T, globs []string) []T {
	if len(globs) == 0 {
		return items
	}

	var filtered []T
	for _, item := range items {
		excluded := false
		for _, g := range globs {
			if glob.MustCompile(g).Match(item.GetName()) {
				excluded = true
				break
			}
		}
		if !excluded {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func rejectBySize[T Filterable](items []T, size config.SizeConfig, sizeFunc func(string) (int64, error)) []T {
	if size.Min == "" && size.Max == "" {
		return items
	}

	var filtered []T
	for _, item := range items {
		itemSize, err := sizeFunc(item.GetPath())
		if err != nil {
			continue // Skip items we can't size
		}

		include := true
		if size.Min != "" {
			if min, err := units.FromHumanSize(size.Min); err == nil {
				if itemSize <= min {
					include = false
				}
			}
		}
		if size.Max != "" {
			if max, err := units.FromHumanSize(size.Max); err == nil {
				if max <= itemSize {
					include = false
				}
			}
		}
		if include {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func filterByPeriod[T Filterable](items []T, period int) []T {
	if period <= 0 {
		return items
	}

	d, err := duration.Parse(fmt.Sprintf("%d days", period))
	if err != nil {
		slog.Error("failed to parse duration", "error", err)
		return items
	}

	var filtered []T
	for _, item := range items {
		if time.Since(item.GetDeletedAt()) < d {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
