//go:build !mo2engine

package engine

import "context"

// This file provides a no-CGO stub for the native engine binding. It is
// compiled when the 'mo2engine' build tag is NOT set, keeping default builds
// and CI CGO-free. The real binding lives in native.go (tagged 'mo2engine').

// nativeEngine is a stub that satisfies Engine but refuses to install
// without the 'mo2engine' build tag. This avoids any mocked installs in
// production binaries built without CGO support.
type nativeEngine struct {
	name      string
	extraDirs []string
}

// NewNativeEngine returns the engine binding for name (empty means
// DefaultEngineName), probing extraDirs in addition to the standard search
// order.
func NewNativeEngine(name string, extraDirs ...string) Engine {
	if name == "" {
		name = DefaultEngineName
	}
	return &nativeEngine{name: name, extraDirs: extraDirs}
}

func (e *nativeEngine) Install(ctx context.Context, archivePath, destPath string) (string, error) {
	// Preconditions are still enforced so callers observe the same error
	// taxonomy regardless of build flavor.
	if err := checkInstallPaths(archivePath, destPath); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return "", ErrEngineUnavailable("native engine support not built (missing 'mo2engine' build tag)")
}

func (e *nativeEngine) RegisterLogSink(sink func(string)) error {
	return ErrEngineUnavailable("native engine support not built (missing 'mo2engine' build tag)")
}
