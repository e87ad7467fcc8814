package trash

import "errors"

// Common errors returned by trash operations
var (
	// ErrNotFound is returned when an item cannot be found in trash
	ErrNotFound = errors.New("does not exist in trash")

	// ErrIsDirectory is returned when a directory is given without recursive mode
	ErrIsDirectory = errors.New("is a directory")

	// ErrFileExists is returned when a restore destination already exists
	ErrFileExists = errors.New("already exists")

	// ErrMissingMetadata is returned when an item has no usable trashinfo record
	ErrMissingMetadata = errors.New("missing metadata, must be manually restored")
)
