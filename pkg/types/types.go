package types

import "time"

// Mod describes one installed mod directory under the managed mods root.
type Mod struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// InstallRequest is the enqueue payload: a batch of archive paths selected
// by the user, installed strictly in the order given.
type InstallRequest struct {
	Archives []string `json:"archives"`
}

// EnqueueResult reports how a submitted batch was split.
type EnqueueResult struct {
	Accepted []string `json:"accepted"`
	Rejected []string `json:"rejected,omitempty"`
	Started  bool     `json:"started"`
}

// ItemReport summarizes one processed queue item.
type ItemReport struct {
	Archive  string        `json:"archive"`
	ModName  string        `json:"mod_name"`
	ModPath  string        `json:"mod_path,omitempty"`
	Result   string        `json:"result,omitempty"`
	Err      string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// StatusResponse is a read-only projection of the session manager state.
type StatusResponse struct {
	Busy       bool         `json:"busy"`
	QueueDepth int          `json:"queue_depth"`
	Queue      []string     `json:"queue,omitempty"`
	Processed  []ItemReport `json:"processed,omitempty"`
	LastError  string       `json:"last_error,omitempty"`
}
