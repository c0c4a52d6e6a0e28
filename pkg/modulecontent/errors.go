package modulecontent

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrModuleNotFound indicates the module record does not exist. This is
	// the only fatal error the recovery chain surfaces.
	ErrModuleNotFound = errors.New("module not found")

	// ErrObjectNotFound indicates an object was not found in blob storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrMalformedContent indicates content that matches no recognized shape.
	// Inside the recovery chain it is treated as empty content, never
	// surfaced to the caller.
	ErrMalformedContent = errors.New("malformed content")

	// ErrEmptyArchive indicates an import archive with no content document.
	ErrEmptyArchive = errors.New("archive contains no content document")
)

// ModuleError represents an error related to module operations
type ModuleError struct {
	ModuleID int64
	Op       string
	Err      error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module operation %s failed for module %d: %v", e.Op, e.ModuleID, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
