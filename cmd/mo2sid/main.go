package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mo2sid/internal/common/fsutil"
	"mo2sid/internal/config"
	"mo2sid/internal/engine"
	"mo2sid/internal/httpapi"
	"mo2sid/internal/organizer"
	"mo2sid/internal/session"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8090"
	if v := os.Getenv("MO2SID_ADDR"); v != "" {
		defaultAddr = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8090")
	configPath := flag.String("config", "", "Optional config file (.yaml/.json/.toml)")
	modsDir := flag.String("mods-dir", "~/mods", "Directory mods are installed under")
	engineName := flag.String("engine", engine.DefaultEngineName, "File name of the native installation engine")
	engineDirs := flag.String("engine-dirs", "", "Comma-separated extra directories to probe for the engine")
	logDir := flag.String("log-dir", "logs", "Directory for the daemon log (mo2si.log)")
	settingsFile := flag.String("settings", "", "Settings file path (default <mods-dir>/../settings.toml)")
	settleMS := flag.Int("settle-ms", 200, "Delay between queue items in milliseconds")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = fileCfg
	}
	// Explicitly set flags win over the config file; otherwise flag defaults
	// fill whatever the file left unspecified.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["addr"] || cfg.Addr == "" {
		cfg.Addr = *addr
	}
	if set["mods-dir"] || cfg.ModsDir == "" {
		cfg.ModsDir = *modsDir
	}
	if set["engine"] || cfg.EngineName == "" {
		cfg.EngineName = *engineName
	}
	if set["engine-dirs"] || len(cfg.EngineDirs) == 0 {
		cfg.EngineDirs = splitCSV(*engineDirs)
	}
	if set["log-dir"] || cfg.LogDir == "" {
		cfg.LogDir = *logDir
	}
	if set["settings"] || cfg.SettingsFile == "" {
		cfg.SettingsFile = *settingsFile
	}
	if set["settle-ms"] || cfg.SettleDelayMS <= 0 {
		cfg.SettleDelayMS = *settleMS
	}

	logger, logClose, err := openDaemonLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("failed to open daemon log: %v", err)
	}
	defer logClose()
	wd, _ := os.Getwd()
	logger.Info().Str("go", runtime.Version()).Str("platform", runtime.GOOS+"/"+runtime.GOARCH).Str("cwd", wd).Msg("mo2sid starting")
	logger.Info().Str("addr", cfg.Addr).Str("mods_dir", cfg.ModsDir).Str("engine", cfg.EngineName).Msg("configuration")

	settings := cfg.SettingsFile
	if settings == "" {
		base, err := fsutil.ExpandHome(cfg.ModsDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("mods dir")
		}
		settings = filepath.Join(filepath.Dir(base), "settings.toml")
	}
	org, err := organizer.NewDir(cfg.ModsDir, settings)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open mods dir")
	}

	eng := engine.NewNativeEngine(cfg.EngineName, cfg.EngineDirs...)
	mgr := session.New(session.Config{
		Engine:      eng,
		Organizer:   org,
		Logger:      logger,
		SettleDelay: time.Duration(cfg.SettleDelayMS) * time.Millisecond,
		EngineProbe: func() (string, error) {
			return engine.ResolveEnginePath(cfg.EngineName, cfg.EngineDirs...)
		},
	})

	// Engine diagnostics route through the per-item log while an install is
	// in flight. Binding failure loses diagnostics but never blocks installs.
	if err := eng.RegisterLogSink(mgr.Router().Sink()); err != nil {
		logger.Warn().Err(err).Msg("engine log sink not registered; engine diagnostics will be lost")
	}

	httpapi.SetLogger(logger)
	mux := httpapi.NewMux(mgr)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go mgr.Run(workerCtx)

	errs := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("mods_dir", org.Root()).Msg("mo2sid listening")
		errs <- serve(srv)
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM). Server errors come back here so
	// the deferred log close and worker stop still run on a bind failure.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		if err != nil {
			logger.Error().Err(err).Msg("server error")
		}
	case <-stop:
	}
	stopWorker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

// serve runs the HTTP server and filters the expected close error, so only
// real failures (bad address, port in use) surface to the caller.
func serve(srv *http.Server) error {
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// openDaemonLogger writes structured logs to <logDir>/mo2si.log and a console
// copy to stderr.
func openDaemonLogger(logDir string) (zerolog.Logger, func(), error) {
	if err := fsutil.EnsureDir(logDir); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(filepath.Join(logDir, "mo2si.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	w := zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr}, f)
	logger := zerolog.New(w).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}

// splitCSV splits a comma-separated flag value, trimming blanks.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
