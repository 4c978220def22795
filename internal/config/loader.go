package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr          string   `json:"addr" yaml:"addr" toml:"addr"`
	ModsDir       string   `json:"mods_dir" yaml:"mods_dir" toml:"mods_dir"`
	EngineName    string   `json:"engine_name" yaml:"engine_name" toml:"engine_name"`
	EngineDirs    []string `json:"engine_dirs" yaml:"engine_dirs" toml:"engine_dirs"`
	LogDir        string   `json:"log_dir" yaml:"log_dir" toml:"log_dir"`
	SettingsFile  string   `json:"settings_file" yaml:"settings_file" toml:"settings_file"`
	SettleDelayMS int      `json:"settle_delay_ms" yaml:"settle_delay_ms" toml:"settle_delay_ms"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
