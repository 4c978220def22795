// Package engine locates, loads, and invokes the native installation engine
// (mo2-installer) and marshals its diagnostic callback back into Go.
//
// The native binding is compiled in with the 'mo2engine' build tag; without
// it a no-cgo stub is used that fails fast instead of mocking installs.
package engine

import (
	"context"

	"mo2sid/internal/common/fsutil"
)

// DefaultEngineName is the file name of the native installation engine.
const DefaultEngineName = "mo2-installer.dll"

// Engine abstracts the native installation engine. Concrete implementations
// are the dlopen-backed native binding and test doubles.
type Engine interface {
	// Install performs a single synchronous install of one archive into one
	// destination directory and returns the engine's opaque result string.
	// The result is never interpreted by this layer. There is no mid-call
	// cancellation: ctx is only checked before the native call starts.
	Install(ctx context.Context, archivePath, destPath string) (string, error)

	// RegisterLogSink binds a process-wide diagnostic callback into the
	// engine's exported log-registration symbol. The sink stays referenced
	// for the remainder of the process lifetime; the native side holds only
	// a raw function pointer.
	RegisterLogSink(sink func(message string)) error
}

// checkInstallPaths enforces the install preconditions shared by all
// implementations: both paths must exist before any engine call is attempted.
func checkInstallPaths(archivePath, destPath string) error {
	if !fsutil.FileExists(archivePath) {
		return archiveNotFoundError{path: archivePath}
	}
	if !fsutil.DirExists(destPath) {
		return destinationNotFoundError{path: destPath}
	}
	return nil
}
