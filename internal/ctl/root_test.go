package ctl

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mo2sid/pkg/types"
)

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/install", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req types.InstallRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var res types.EnqueueResult
		for _, a := range req.Archives {
			if strings.HasSuffix(a, ".7z") {
				res.Accepted = append(res.Accepted, a)
			} else {
				res.Rejected = append(res.Rejected, a)
			}
		}
		res.Started = len(res.Accepted) > 0
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(res)
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.StatusResponse{
			Busy:       true,
			QueueDepth: 1,
			Queue:      []string{"/dl/next.7z"},
			Processed:  []types.ItemReport{{Archive: "/dl/a.7z", ModName: "ModA"}},
		})
	})
	mux.HandleFunc("/mods", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"mods": []types.Mod{{Name: "CoolMod", Path: "/mods/CoolMod"}},
		})
	})
	mux.HandleFunc("/queue", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"busy":  true,
			"depth": 2,
			"queue": []string{"/dl/a.7z", "/dl/b.zip"},
		})
	})
	settings := map[string]string{"installmods/LastPath": "downloads"}
	mux.HandleFunc("/settings/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/settings/"), "/")
		if len(parts) != 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		key := parts[0] + "/" + parts[1]
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"plugin": parts[0], "key": parts[1], "value": settings[key],
			})
		case http.MethodPut:
			var req struct {
				Value string `json:"value"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			settings[key] = req.Value
			_ = json.NewEncoder(w).Encode(map[string]any{
				"plugin": parts[0], "key": parts[1], "value": req.Value,
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/engine", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "engine not found: mo2-installer.dll", "code": 404})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCmd(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := BuildRootCmd(&out)
	root.SetArgs(append(args, "--addr", srv.URL))
	err := root.Execute()
	return out.String(), err
}

func TestInstallCommandPrintsSplit(t *testing.T) {
	srv := newFakeServer(t)
	out, err := runCmd(t, srv, "install", "a.7z", "b.txt")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	if !strings.Contains(out, "queued") || !strings.Contains(out, "rejected") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestInstallCommandFailsWhenNothingAccepted(t *testing.T) {
	srv := newFakeServer(t)
	_, err := runCmd(t, srv, "install", "readme.txt")
	if err == nil {
		t.Fatalf("expected error when nothing accepted")
	}
}

func TestStatusCommand(t *testing.T) {
	srv := newFakeServer(t)
	out, err := runCmd(t, srv, "status")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "busy: true") || !strings.Contains(out, "pending") || !strings.Contains(out, "ModA") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestModsCommand(t *testing.T) {
	srv := newFakeServer(t)
	out, err := runCmd(t, srv, "mods")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "CoolMod") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestQueueCommand(t *testing.T) {
	srv := newFakeServer(t)
	out, err := runCmd(t, srv, "queue")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "busy: true") || !strings.Contains(out, "depth: 2") || !strings.Contains(out, "/dl/a.7z") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSettingsGetCommand(t *testing.T) {
	srv := newFakeServer(t)
	out, err := runCmd(t, srv, "settings", "get", "LastPath")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != "downloads" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSettingsSetCommandRoundTrips(t *testing.T) {
	srv := newFakeServer(t)
	out, err := runCmd(t, srv, "settings", "set", "LastPath", "/home/me/dl")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	if !strings.Contains(out, "LastPath = /home/me/dl") {
		t.Fatalf("unexpected output: %s", out)
	}
	out, err = runCmd(t, srv, "settings", "get", "LastPath")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != "/home/me/dl" {
		t.Fatalf("setting did not round-trip: %q", out)
	}
}

func TestEngineCommandSurfacesAPIError(t *testing.T) {
	srv := newFakeServer(t)
	_, err := runCmd(t, srv, "engine")
	if err == nil || !strings.Contains(err.Error(), "engine not found") {
		t.Fatalf("expected API error, got %v", err)
	}
}
