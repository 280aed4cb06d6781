// File: nabeghe/configurator-go/errors.go
package configurator

import "errors"

// Sentinel errors for file operations.
var (
	// ErrNotLoadable is returned by file operations on a memory-only store.
	ErrNotLoadable = errors.New("store has no base path")

	// ErrInvalidSection is returned when a section name cannot map to a
	// file name.
	ErrInvalidSection = errors.New("invalid section name")
)
