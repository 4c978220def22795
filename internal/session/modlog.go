package session

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// ItemLogName is the per-mod log file written under each mod's destination
// directory during that item's processing.
const ItemLogName = "mo2si-install.log"

// LogRouter directs engine diagnostics to the current item's logger and
// falls back to the base logger between items. At most one item logger is
// active at a time; the session manager swaps it around each install.
type LogRouter struct {
	mu   sync.Mutex
	base zerolog.Logger
	cur  *zerolog.Logger
}

func NewLogRouter(base zerolog.Logger) *LogRouter {
	return &LogRouter{base: base}
}

// SetCurrent routes subsequent diagnostics to l.
func (r *LogRouter) SetCurrent(l *zerolog.Logger) {
	r.mu.Lock()
	r.cur = l
	r.mu.Unlock()
}

// Reset restores the fallback logger.
func (r *LogRouter) Reset() {
	r.mu.Lock()
	r.cur = nil
	r.mu.Unlock()
}

func (r *LogRouter) logger() zerolog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cur != nil {
		return *r.cur
	}
	return r.base
}

// Sink adapts the router to the engine's log callback shape. The returned
// func is what gets registered via Engine.RegisterLogSink and stays alive
// for the process lifetime.
func (r *LogRouter) Sink() func(string) {
	return func(msg string) {
		l := r.logger()
		l.Info().Str("source", "engine").Msg(msg)
	}
}

// itemLog owns the file handle behind one item's log. The handle is scoped
// to a single queue item and flushed and closed on every exit path.
type itemLog struct {
	f   *os.File
	log zerolog.Logger
}

func openItemLog(modDir string) (*itemLog, error) {
	p := filepath.Join(modDir, ItemLogName)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	l := zerolog.New(f).With().Timestamp().Logger()
	return &itemLog{f: f, log: l}, nil
}

func (l *itemLog) Logger() *zerolog.Logger { return &l.log }

// Close flushes and releases the file handle.
func (l *itemLog) Close() error {
	syncErr := l.f.Sync()
	closeErr := l.f.Close()
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}
