package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mo2sid/internal/organizer"
	"mo2sid/internal/session"
	"mo2sid/pkg/types"
)

// recordingEngine satisfies engine.Engine without a native library.
type recordingEngine struct{}

func (recordingEngine) Install(ctx context.Context, archivePath, destPath string) (string, error) {
	// drop a file so the install is observable
	return "ok", os.WriteFile(filepath.Join(destPath, "payload.txt"), []byte(archivePath), 0o644)
}

func (recordingEngine) RegisterLogSink(func(string)) error { return nil }

func TestInstallEndToEndThroughManager(t *testing.T) {
	root := t.TempDir()
	org, err := organizer.NewDir(filepath.Join(root, "mods"), filepath.Join(root, "settings.toml"))
	if err != nil {
		t.Fatalf("organizer: %v", err)
	}
	mgr := session.New(session.Config{
		Engine:      recordingEngine{},
		Organizer:   org,
		Logger:      zerolog.Nop(),
		SettleDelay: time.Millisecond,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx)

	srv := httptest.NewServer(NewMux(mgr))
	defer srv.Close()

	// two archives, FIFO
	d := t.TempDir()
	var archives []string
	for _, name := range []string{"01-First.7z", "02-Second.zip"} {
		p := filepath.Join(d, name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		archives = append(archives, p)
	}
	body, _ := json.Marshal(types.InstallRequest{Archives: archives})
	resp, err := http.Post(srv.URL+"/install", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("install status %d", resp.StatusCode)
	}

	waitIdleAndEmpty(t, srv.URL)

	mods := org.ModList()
	if len(mods) != 2 {
		t.Fatalf("expected 2 mods, got %+v", mods)
	}
	for _, m := range mods {
		if _, err := os.Stat(filepath.Join(m.Path, "payload.txt")); err != nil {
			t.Fatalf("mod %s not installed: %v", m.Name, err)
		}
		if _, err := os.Stat(filepath.Join(m.Path, session.ItemLogName)); err != nil {
			t.Fatalf("mod %s missing item log: %v", m.Name, err)
		}
	}
	if mods[0].Name != "First" || mods[1].Name != "Second" {
		t.Fatalf("unexpected mod names: %+v", mods)
	}

	// the enqueue persisted the selection directory; the settings route reads
	// it back through the organizer
	sresp, err := http.Get(srv.URL + "/settings/" + organizer.PluginName + "/" + organizer.SettingLastPath)
	if err != nil {
		t.Fatalf("settings get: %v", err)
	}
	defer sresp.Body.Close()
	var setting struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(sresp.Body).Decode(&setting); err != nil {
		t.Fatalf("decode setting: %v", err)
	}
	if setting.Value != d {
		t.Fatalf("LastPath = %q, want %q", setting.Value, d)
	}
}

func waitIdleAndEmpty(t *testing.T, base string) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		resp, err := http.Get(base + "/status")
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		var st types.StatusResponse
		err = json.NewDecoder(resp.Body).Decode(&st)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !st.Busy && st.QueueDepth == 0 && len(st.Processed) > 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("daemon never drained: %+v", st)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
