package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// settingsDoc is the on-disk layout of the settings file: one table per
// plugin, string values only.
type settingsDoc struct {
	Plugins map[string]map[string]string `toml:"plugins"`
}

// settingDefaults seeds values returned before anything was persisted.
var settingDefaults = map[string]string{
	PluginName + "/" + SettingLastPath: DefaultLastPath,
}

func (o *Dir) loadSettings() (settingsDoc, error) {
	doc := settingsDoc{Plugins: map[string]map[string]string{}}
	if o.settingsPath == "" {
		return doc, nil
	}
	b, err := os.ReadFile(o.settingsPath)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if err := toml.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("settings %s: %w", o.settingsPath, err)
	}
	if doc.Plugins == nil {
		doc.Plugins = map[string]map[string]string{}
	}
	return doc, nil
}

func (o *Dir) PluginSetting(plugin, key string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	doc, err := o.loadSettings()
	if err == nil {
		if vals, ok := doc.Plugins[plugin]; ok {
			if v, ok := vals[key]; ok {
				return v
			}
		}
	}
	return settingDefaults[plugin+"/"+key]
}

func (o *Dir) SetPluginSetting(plugin, key, value string) error {
	if o.settingsPath == "" {
		return errors.New("no settings file configured")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	doc, err := o.loadSettings()
	if err != nil {
		return err
	}
	if doc.Plugins[plugin] == nil {
		doc.Plugins[plugin] = map[string]string{}
	}
	doc.Plugins[plugin][key] = value
	b, err := toml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(o.settingsPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(o.settingsPath, b, 0o644)
}
