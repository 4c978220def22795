package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmods_dir: /mods\nengine_name: mo2-installer.dll\nlog_dir: /var/log/mo2si\nsettle_delay_ms: 150\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModsDir != "/mods" || cfg.EngineName != "mo2-installer.dll" || cfg.LogDir != "/var/log/mo2si" || cfg.SettleDelayMS != 150 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","mods_dir":"/m","engine_dirs":["/opt/mo2si"],"settle_delay_ms":200}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModsDir != "/m" || cfg.SettleDelayMS != 200 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.EngineDirs) != 1 || cfg.EngineDirs[0] != "/opt/mo2si" {
		t.Fatalf("unexpected engine dirs: %+v", cfg.EngineDirs)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmods_dir=\"/x\"\nsettings_file=\"/x/settings.toml\"\nsettle_delay_ms=50\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ModsDir != "/x" || cfg.SettingsFile != "/x/settings.toml" || cfg.SettleDelayMS != 50 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error on missing file")
	}
}
