package session

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mo2sid/internal/engine"
	"mo2sid/internal/organizer"
	"mo2sid/pkg/types"
)

const (
	// defaultSettleDelay gives the organizer time to settle between items.
	defaultSettleDelay = 200 * time.Millisecond
	// maxReports caps the processed-item history kept for status reporting.
	maxReports = 100
)

// Config carries the Manager's collaborators and tuning.
type Config struct {
	Engine      engine.Engine
	Organizer   organizer.Organizer
	Logger      zerolog.Logger
	Router      *LogRouter
	SettleDelay time.Duration
	// EngineProbe resolves the engine location for status reporting without
	// loading it. Optional.
	EngineProbe func() (string, error)
}

// Manager owns the FIFO queue of pending archive paths and drains it one
// item at a time.
type Manager struct {
	mu      sync.Mutex
	queue   []string
	busy    bool
	reports []types.ItemReport
	lastErr string

	eng    engine.Engine
	org    organizer.Organizer
	log    zerolog.Logger
	router *LogRouter
	settle time.Duration
	probe  func() (string, error)

	wake chan struct{}
}

func New(cfg Config) *Manager {
	settle := cfg.SettleDelay
	if settle <= 0 {
		settle = defaultSettleDelay
	}
	router := cfg.Router
	if router == nil {
		router = NewLogRouter(cfg.Logger)
	}
	return &Manager{
		eng:    cfg.Engine,
		org:    cfg.Organizer,
		log:    cfg.Logger,
		router: router,
		settle: settle,
		probe:  cfg.EngineProbe,
		wake:   make(chan struct{}, 1),
	}
}

// Router exposes the diagnostic router so main can register its sink with
// the engine once at startup.
func (m *Manager) Router() *LogRouter { return m.router }

// EnqueueBatch filters the presented paths by accepted extension and queues
// the rest. When idle, a new batch replaces any leftover from an aborted
// one; while a drain is active the paths join the in-flight batch. The last
// picked directory is persisted as the LastPath setting.
func (m *Manager) EnqueueBatch(paths []string) types.EnqueueResult {
	var res types.EnqueueResult
	for _, p := range paths {
		if Accepted(p) {
			res.Accepted = append(res.Accepted, p)
		} else {
			res.Rejected = append(res.Rejected, p)
		}
	}
	if len(res.Accepted) == 0 {
		return res
	}
	if abs, err := filepath.Abs(res.Accepted[0]); err == nil {
		if err := m.org.SetPluginSetting(organizer.PluginName, organizer.SettingLastPath, filepath.Dir(abs)); err != nil {
			m.log.Warn().Err(err).Msg("could not persist LastPath")
		}
	}

	m.mu.Lock()
	if m.busy {
		m.queue = append(m.queue, res.Accepted...)
	} else {
		// leftover here means a prior batch aborted; a fresh selection supersedes it
		m.queue = append([]string(nil), res.Accepted...)
		res.Started = true
	}
	queueDepthGauge.Set(float64(len(m.queue)))
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
	return res
}

// Run blocks, draining the queue whenever a batch arrives, until ctx is
// canceled. It is the daemon's single install worker.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.wake:
			m.Drain(ctx)
		}
	}
}

// Drain processes queued items strictly in FIFO order until the queue is
// empty or an item fails. It is a no-op when a drain is already in flight.
// The busy flag is always reset on return, so an aborted batch never wedges
// the manager.
func (m *Manager) Drain(ctx context.Context) []types.ItemReport {
	m.mu.Lock()
	if m.busy || len(m.queue) == 0 {
		m.mu.Unlock()
		return nil
	}
	m.busy = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.busy = false
		m.mu.Unlock()
	}()

	var done []types.ItemReport
	for {
		if ctx.Err() != nil {
			return done
		}
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return done
		}
		archive := m.queue[0]
		m.queue = m.queue[1:]
		queueDepthGauge.Set(float64(len(m.queue)))
		m.mu.Unlock()

		rep := m.processItem(ctx, archive)
		done = append(done, rep)
		m.recordReport(rep)
		if rep.Err != "" {
			// abort the remainder of the batch; leftover stays queued until
			// the next selection replaces it
			m.log.Error().Str("archive", archive).Str("error", rep.Err).Msg("batch aborted")
			return done
		}
		select {
		case <-ctx.Done():
			return done
		case <-time.After(m.settle):
		}
	}
}

// processItem runs one queue item end to end: derive the display name,
// materialize the mod directory, scope the item log, install, refresh.
func (m *Manager) processItem(ctx context.Context, archive string) types.ItemReport {
	start := time.Now()
	name := DisplayName(archive)
	rep := types.ItemReport{Archive: archive, ModName: name}

	mod, err := m.org.CreateMod(name)
	if err != nil {
		rep.Err = err.Error()
		rep.Duration = time.Since(start)
		return rep
	}
	rep.ModPath = mod.Path

	logger := m.log
	il, err := openItemLog(mod.Path)
	if err != nil {
		// non-fatal: the install proceeds, diagnostics go to the daemon log
		m.log.Warn().Err(err).Str("mod", name).Msg("item log unavailable")
	} else {
		logger = *il.Logger()
		m.router.SetCurrent(il.Logger())
		defer func() {
			m.router.Reset()
			if cerr := il.Close(); cerr != nil {
				m.log.Warn().Err(cerr).Str("mod", name).Msg("closing item log")
			}
		}()
	}

	logger.Info().Str("mod", name).Str("archive", archive).Msg("starting installation")
	result, err := m.eng.Install(ctx, archive, mod.Path)
	if err != nil {
		logger.Error().Err(err).Str("mod", name).Msg("installation failed")
		rep.Err = err.Error()
		rep.Duration = time.Since(start)
		return rep
	}
	rep.Result = result

	if err := m.org.Refresh(); err != nil {
		logger.Error().Err(err).Msg("organizer refresh failed")
		rep.Err = err.Error()
		rep.Duration = time.Since(start)
		return rep
	}
	logger.Info().Str("mod", name).Msg("finished installation")
	rep.Duration = time.Since(start)
	return rep
}

func (m *Manager) recordReport(rep types.ItemReport) {
	outcome := "success"
	if rep.Err != "" {
		outcome = "failure"
	}
	installsTotal.WithLabelValues(outcome).Inc()
	installDuration.Observe(rep.Duration.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	if rep.Err != "" {
		m.lastErr = rep.Err
	}
	m.reports = append(m.reports, rep)
	if len(m.reports) > maxReports {
		m.reports = m.reports[len(m.reports)-maxReports:]
	}
}

// Busy reports whether an install is currently in flight.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// QueueDepth returns the number of pending items.
func (m *Manager) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Mods returns the organizer's current view of installed mods.
func (m *Manager) Mods() []types.Mod { return m.org.ModList() }

// Setting returns the stored plugin setting, or its default when unset.
func (m *Manager) Setting(plugin, key string) string {
	return m.org.PluginSetting(plugin, key)
}

// SetSetting stores and persists a plugin setting.
func (m *Manager) SetSetting(plugin, key, value string) error {
	return m.org.SetPluginSetting(plugin, key, value)
}

// EnginePath resolves the engine location for diagnostics. It does not load
// the engine.
func (m *Manager) EnginePath() (string, error) {
	if m.probe == nil {
		return engine.ResolveEnginePath("")
	}
	return m.probe()
}

// Ready reports whether the manager has its collaborators wired.
func (m *Manager) Ready() bool { return m.eng != nil && m.org != nil }

// Status returns a read-only projection of the manager state.
func (m *Manager) Status() types.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue := make([]string, len(m.queue))
	copy(queue, m.queue)
	reports := make([]types.ItemReport, len(m.reports))
	copy(reports, m.reports)
	return types.StatusResponse{
		Busy:       m.busy,
		QueueDepth: len(queue),
		Queue:      queue,
		Processed:  reports,
		LastError:  m.lastErr,
	}
}
