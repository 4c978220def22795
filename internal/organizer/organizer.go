// Package organizer implements the host collaborator side of the installer:
// it materializes mod destination directories under a managed root, keeps a
// refreshed view of installed mods, and persists plugin settings.
package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"mo2sid/internal/common/fsutil"
	"mo2sid/pkg/types"
)

// Well-known setting identifiers.
const (
	PluginName      = "installmods"
	SettingLastPath = "LastPath"
	DefaultLastPath = "downloads"
)

// Organizer is the collaborator contract consumed by the session manager.
type Organizer interface {
	// CreateMod materializes a destination directory for name and returns
	// its context. Creating the same name twice reuses the existing
	// directory; prior contents are kept.
	CreateMod(name string) (types.Mod, error)
	// Refresh rescans the managed root after an install completes.
	Refresh() error
	// ModList returns the mods seen by the last scan.
	ModList() []types.Mod
	// PluginSetting returns the stored value for plugin/key, or its default.
	PluginSetting(plugin, key string) string
	// SetPluginSetting stores and persists a setting value.
	SetPluginSetting(plugin, key, value string) error
}

// Dir is a filesystem-backed Organizer rooted at a mods directory.
type Dir struct {
	mu           sync.Mutex
	root         string
	settingsPath string
	mods         []types.Mod
}

// NewDir opens (creating if needed) the mods root and the settings file
// location, and performs an initial scan.
func NewDir(modsDir, settingsPath string) (*Dir, error) {
	base, err := fsutil.ExpandHome(modsDir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	if err := fsutil.EnsureDir(abs); err != nil {
		return nil, fmt.Errorf("mods dir: %w", err)
	}
	o := &Dir{root: abs, settingsPath: settingsPath}
	if err := o.Refresh(); err != nil {
		return nil, err
	}
	return o, nil
}

// Root returns the absolute mods root directory.
func (o *Dir) Root() string { return o.root }

func (o *Dir) CreateMod(name string) (types.Mod, error) {
	clean := sanitizeModName(name)
	if clean == "" {
		return types.Mod{}, fmt.Errorf("invalid mod name %q", name)
	}
	dir := filepath.Join(o.root, clean)
	if err := fsutil.EnsureDir(dir); err != nil {
		return types.Mod{}, fmt.Errorf("create mod %s: %w", clean, err)
	}
	return types.Mod{Name: clean, Path: dir}, nil
}

// Refresh rescans the root for mod directories.
func (o *Dir) Refresh() error {
	entries, err := os.ReadDir(o.root)
	if err != nil {
		return fmt.Errorf("read mods dir: %w", err)
	}
	var mods []types.Mod
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		mods = append(mods, types.Mod{Name: e.Name(), Path: filepath.Join(o.root, e.Name())})
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
	o.mu.Lock()
	o.mods = mods
	o.mu.Unlock()
	return nil
}

func (o *Dir) ModList() []types.Mod {
	o.mu.Lock()
	defer o.mu.Unlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Mod, len(o.mods))
	copy(out, o.mods)
	return out
}

// sanitizeModName keeps mod directory names flat: path separators and
// relative components are stripped rather than rejected.
func sanitizeModName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.Trim(name, ". ")
	return name
}
