package engine

import (
	"os"
	"path/filepath"

	"mo2sid/internal/common/fsutil"
)

// ResolveEnginePath searches a fixed priority order for a file named name:
// the current working directory, the dlls/mo2si subdirectory under it, the
// directory containing the running executable, any configured extra dirs,
// then each existing entry of PATH. The first candidate that exists wins.
func ResolveEnginePath(name string, extraDirs ...string) (string, error) {
	if name == "" {
		name = DefaultEngineName
	}
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd, filepath.Join(wd, "dlls", "mo2si"))
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, extraDirs...)
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" || !fsutil.DirExists(dir) {
			continue
		}
		dirs = append(dirs, dir)
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		if !fsutil.FileExists(p) {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		return abs, nil
	}
	return "", engineNotFoundError{name: name}
}
