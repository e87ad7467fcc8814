package trash

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
	"github.com/trash-go/trash/internal/fs"
	"github.com/trash-go/trash/internal/ui"
)

// Op identifies one trash operation. The set is closed; dispatch goes
// through a fixed handler table and anything else is an "unknown
// command" failure.
type Op int

const (
	OpRemove Op = iota
	OpList
	OpEmpty
	OpRestore
	OpCat
	OpUnknown
)

// ParseOp maps a command name (including aliases) to its Op.
func ParseOp(name string) Op {
	switch name {
	case "remove", "rm", "delete", "del":
		return OpRemove
	case "list", "ls":
		return OpList
	case "empty", "clean", "void":
		return OpEmpty
	case "restore", "rest":
		return OpRestore
	case "cat":
		return OpCat
	default:
		return OpUnknown
	}
}

// Policy is the flag bundle applied uniformly across operations.
type Policy struct {
	// Verbose echoes each action taken
	Verbose bool

	// Force suppresses per-item error reports and auto-confirms
	// destructive prompts. Suppressed failures do not count.
	Force bool

	// Recursive permits operating on directories, not just files
	Recursive bool

	// Interactive prompts before each destructive action
	Interactive bool

	// Color enables syntax highlighting for cat output. The caller is
	// responsible for disabling it off-terminal.
	Color bool
}

// Options configures an Engine beyond its policy bundle.
type Options struct {
	Policy Policy

	// Filter restricts what list shows (user-configured excludes)
	Filter FilterOptions

	// FallbackCopy enables copy+delete when a move crosses devices
	FallbackCopy bool

	// Stdin is where prompts read their answers (default os.Stdin)
	Stdin io.Reader

	// Stdout receives normal output (default os.Stdout)
	Stdout io.Writer

	// Stderr receives error reports (default os.Stderr)
	Stderr io.Writer

	// Now supplies deletion timestamps (default time.Now)
	Now func() time.Time
}

// Engine orchestrates the trash operations over one Directory. Every
// operation returns the number of items that failed; a batch is always
// attempted to the end, never aborted by a single item.
type Engine struct {
	dir      *Directory
	store    *Store
	policy   Policy
	filter   FilterOptions
	fallback bool
	prompter *ui.Prompter
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
}

// NewEngine creates an Engine over dir.
func NewEngine(dir *Directory, opts Options) *Engine {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		dir:      dir,
		store:    NewStore(dir.InfoDir()),
		policy:   opts.Policy,
		filter:   opts.Filter,
		fallback: opts.FallbackCopy,
		prompter: ui.NewPrompter(opts.Stdin, opts.Stdout),
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		now:      opts.Now,
	}
}

// Directory returns the trash directory this engine operates on.
func (e *Engine) Directory() *Directory { return e.dir }

// Run dispatches one operation by command name and returns its failure
// count, suitable for use directly as a process exit code.
func (e *Engine) Run(cmd string, specs []string) int {
	handlers := map[Op]func([]string) int{
		OpRemove:  e.Remove,
		OpList:    e.List,
		OpEmpty:   e.Empty,
		OpRestore: e.Restore,
		OpCat:     e.Cat,
	}

	op := ParseOp(cmd)
	handler, ok := handlers[op]
	if !ok {
		return e.report("", fmt.Errorf("unknown command %s", cmd))
	}

	slog.Debug("dispatch", "command", cmd, "specs", specs)
	return handler(specs)
}

// Remove moves live files or directories into the trash. Paths are
// absolute or CWD-relative, not trash-relative.
func (e *Engine) Remove(paths []string) int {
	if len(paths) == 0 {
		return e.report("", errors.New("no files to remove"))
	}

	errs := 0
	for _, path := range paths {
		if e.policy.Interactive && !e.prompter.Ask(fmt.Sprintf("Trash %s?", path)) {
			continue
		}

		if unsafe, _ := fs.IsUnsafePath(path); unsafe {
			errs += e.report(path, errors.New("refusing to trash unsafe path"))
			continue
		}

		fi, err := os.Lstat(path)
		if err != nil {
			errs += e.report(path, err)
			continue
		}
		isDir := fi.IsDir()

		if isDir && !e.policy.Recursive {
			errs += e.report(path, ErrIsDirectory)
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			errs += e.report(path, err)
			continue
		}

		storedName := e.dir.EnsureUnique(filepath.Base(abs))
		if err := fs.Move(path, e.dir.FilePath(storedName), e.fallback); err != nil {
			errs += e.report(path, err)
			continue
		}

		if isDir {
			e.vprintf("Trashed directory: %s\n", path)
		} else {
			e.vprintf("Trashed file: %s\n", path)
		}

		if err := e.store.Write(storedName, abs, e.now()); err != nil {
			errs += e.report(path, err)
		}
	}
	return errs
}

// Item is one entry of the files area together with its metadata.
type Item struct {
	// Name is the stored name in the files area
	Name string

	// TrashPath is the payload path
	TrashPath string

	// Info is the trashinfo record (sentinel fields when degraded)
	Info *Info

	// IsDir indicates a directory payload
	IsDir bool
}

func (it *Item) GetName() string { return it.Name }
func (it *Item) GetPath() string { return it.TrashPath }
func (it *Item) GetDeletedAt() time.Time {
	t, _ := it.Info.DeletedAt()
	return t
}

// List prints the trash contents, one line per item:
//
//	<deletionDate> <originalPath>[/] ==> <storedName>[/]
//
// Directories carry a trailing slash on both sides.
func (e *Engine) List(specs []string) int {
	names, err := e.resolve(specs, true)
	if err != nil {
		return e.report("", err)
	}
	if len(names) == 0 {
		return 0
	}
	sort.Strings(names)

	errs := 0
	var items []*Item
	for _, name := range names {
		path := e.dir.FilePath(name)
		fi, err := os.Lstat(path)
		if err != nil {
			errs += e.report(name, errors.New("does not exist"))
			continue
		}
		items = append(items, &Item{
			Name:      name,
			TrashPath: path,
			Info:      e.store.Read(name),
			IsDir:     fi.IsDir(),
		})
	}

	for _, it := range Filter(items, e.filter) {
		orig, stored := it.Info.Path, it.Name
		if it.IsDir {
			orig += "/"
			stored += "/"
		}
		fmt.Fprintf(e.stdout, "%s %s ==> %s\n", it.Info.DeletionDate, orig, stored)
	}
	return errs
}

// Empty permanently deletes trash contents. With no specifications and
// without force, a single whole-trash confirmation is asked first.
func (e *Engine) Empty(specs []string) int {
	if len(specs) == 0 && !e.policy.Force {
		if !e.prompter.Ask("Are you sure you want to empty all trash?") {
			return 0
		}
	}

	names, err := e.resolve(specs, true)
	if err != nil {
		return e.report("", err)
	}

	errs := 0
	for _, name := range names {
		if e.policy.Interactive && !e.prompter.Ask(fmt.Sprintf("Permanently delete %s?", name)) {
			continue
		}

		path := e.dir.FilePath(name)
		fi, statErr := os.Lstat(path)

		var delErr error
		if statErr == nil && fi.IsDir() && e.policy.Recursive {
			delErr = os.RemoveAll(path)
		} else {
			// Plain single-entry removal. Fails on non-empty
			// directories without recursive mode; that OS error is
			// the intended report.
			delErr = os.Remove(path)
		}
		if delErr != nil {
			errs += e.report(name, delErr)
			continue
		}

		e.vprintf("Removed %s\n", name)

		if err := e.store.Delete(name); err != nil {
			errs += e.report(name, err)
		}
	}
	return errs
}

// Cat prints trash contents to stdout without restoring them.
func (e *Engine) Cat(specs []string) int {
	names, err := e.resolve(specs, false)
	if err != nil {
		return e.report("", err)
	}
	if len(names) == 0 {
		return e.report("", errors.New("no files to cat"))
	}

	errs := 0
	for _, name := range names {
		path := e.dir.FilePath(name)
		fi, statErr := os.Lstat(path)

		var catErr error
		if statErr == nil && fi.IsDir() && e.policy.Recursive {
			catErr = e.catDir(path)
		} else {
			// Reading a directory as a file fails; that is the
			// surfaced error for directories without recursive mode.
			catErr = e.catFile(path)
		}
		if catErr != nil {
			errs += e.report(name, catErr)
		}
	}
	return errs
}

func (e *Engine) catDir(dir string) error {
	e.vprintf("Directory: %s\n", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := e.catDir(path); err != nil {
				return err
			}
		} else {
			if err := e.catFile(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) catFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	e.vprintf("File: %s\n", path)
	e.printContents(path, data)
	return nil
}

// Restore moves trashed items back to their recorded original locations.
func (e *Engine) Restore(specs []string) int {
	names, err := e.resolve(specs, false)
	if err != nil {
		return e.report("", err)
	}
	if len(names) == 0 {
		return e.report("", errors.New("no files to restore"))
	}

	errs := 0
	for _, name := range names {
		path := e.dir.FilePath(name)
		fi, err := os.Lstat(path)
		if err != nil {
			errs += e.report(name, ErrNotFound)
			continue
		}

		if fi.IsDir() && !e.policy.Recursive {
			errs += e.report(name, ErrIsDirectory)
			continue
		}

		info := e.store.Read(name)
		if info.IsMissing() {
			errs += e.report(name, ErrMissingMetadata)
			continue
		}
		dest := info.Path

		if _, err := os.Lstat(dest); err == nil {
			if !e.policy.Force && !e.policy.Interactive {
				errs += e.report(dest, ErrFileExists)
				continue
			}
			if e.policy.Interactive && !e.prompter.Ask(fmt.Sprintf("Overwrite %s?", dest)) {
				continue
			}
			// Trash the existing destination through a recursive
			// remove sub-call. Any failure there aborts this item's
			// restore; the trash entry stays put, nothing is
			// overwritten.
			if e.recursive().Remove([]string{dest}) > 0 {
				continue
			}
		}

		if err := fs.Move(path, dest, e.fallback); err != nil {
			errs += e.report(name, err)
			continue
		}
		e.vprintf("Restored %s to %s\n", name, dest)

		if err := e.store.Delete(name); err != nil {
			errs += e.report(name, err)
		}
	}
	return errs
}

// recursive returns a copy of the engine with recursive mode forced on
// and interactive mode off, used for restore's nested trash of an
// existing destination. The overwrite prompt already covered that
// destination; a second prompt inside the sub-call would let a declined
// answer slip past the failure guard and overwrite anyway.
func (e *Engine) recursive() *Engine {
	sub := *e
	sub.policy.Recursive = true
	sub.policy.Interactive = false
	return &sub
}

// resolve turns path specifications into stored names. Empty specs mean
// "everything" when fillEmpty is set, otherwise an empty set. Each spec
// is a glob over the files area; a pattern with no matches is kept as a
// literal so the caller can still report it per item.
func (e *Engine) resolve(specs []string, fillEmpty bool) ([]string, error) {
	if len(specs) == 0 {
		if !fillEmpty {
			return nil, nil
		}
		return e.dir.Entries()
	}

	entries, err := e.dir.Entries()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, spec := range specs {
		g, err := glob.Compile(spec, '/')
		if err != nil {
			names = append(names, spec)
			continue
		}
		matched := lo.Filter(entries, func(name string, _ int) bool {
			return g.Match(name)
		})
		if len(matched) == 0 {
			names = append(names, spec)
			continue
		}
		names = append(names, matched...)
	}
	return names, nil
}

// report prints a per-item failure and counts it. Force mode silences
// the message and zeroes the count: stay quiet, proceed past failures.
func (e *Engine) report(path string, err error) int {
	if e.policy.Force {
		return 0
	}

	// Strip the OS error down to its reason; the path is already in
	// the message.
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}

	if path == "" {
		fmt.Fprintf(e.stderr, "trash: %v\n", err)
	} else {
		fmt.Fprintf(e.stderr, "trash: %s: %v\n", path, err)
	}
	return 1
}

func (e *Engine) vprintf(format string, args ...any) {
	if e.policy.Verbose {
		fmt.Fprintf(e.stdout, format, args...)
	}
}
