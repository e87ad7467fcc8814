package trash

import (
	"fmt"
	"os"
	"strings"
)

// EnsureUnique returns a stored name, derived from the candidate base
// name, under which neither a payload entry nor a trashinfo record
// exists yet.
//
// The bare name is tried first. On collision everything after the first
// "." is stripped and an increasing counter is inserted before the
// original suffix chain: a.txt, a.2.txt, a.3.txt, ... A name without a
// suffix gets the counter appended the same way (a, a.2, a.3, ...).
//
// The probe is a plain loop over an unbounded counter; it terminates
// because the areas hold finitely many entries at any instant. Two
// processes resolving concurrently can race here; callers are
// single-process.
func (d *Directory) EnsureUnique(base string) string {
	store := NewStore(d.infoDir)

	stem, suffixes := splitSuffixes(base)

	name := base
	for counter := 2; ; counter++ {
		if !exists(d.FilePath(name)) && !store.Exists(name) {
			return name
		}
		name = fmt.Sprintf("%s.%d%s", stem, counter, suffixes)
	}
}

// splitSuffixes splits a base name at its first "." into the stem and
// the full suffix chain ("archive.tar.gz" -> "archive", ".tar.gz").
func splitSuffixes(base string) (stem, suffixes string) {
	// A leading dot belongs to the stem (hidden files), not the chain
	trimmed := strings.TrimPrefix(base, ".")
	i := strings.Index(trimmed, ".")
	if i < 0 {
		return base, ""
	}
	offset := len(base) - len(trimmed)
	return base[:offset+i], base[offset+i:]
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
