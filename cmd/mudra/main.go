package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/analytics"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/preprocess"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/sweeper"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	trayMode := flag.Bool("tray", false, "run with a desktop tray controller")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	st, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to initialize store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	eng := engine.New(engine.Config{
		Mapping:     cfg.Mapping,
		DebounceSec: cfg.DebounceSec,
		Events:      st.Events(),
		Logger:      logger,
	})

	reports := analytics.New(analytics.Config{
		Events:   st.Events(),
		Stats:    eng,
		CacheTTL: time.Duration(cfg.AnalyticsCacheSec) * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sw := sweeper.New(sweeper.Config{
		Events:        st.Events(),
		RetentionDays: cfg.LogRetentionDays,
		Interval:      time.Duration(cfg.SweepIntervalSec) * time.Second,
		Logger:        logger,
	})
	go sw.Run(ctx)

	webDir := findWebDir()
	if webDir != "" {
		logger.Info("serving static files", "dir", webDir)
	}

	srv := server.New(server.Config{
		Engine:      eng,
		Analytics:   reports,
		Store:       st,
		Processor:   preprocess.NewProcessor(cfg.OutputDir),
		Version:     cfg.AppVersion,
		CORSOrigins: cfg.CORSOrigins,
		MaxFileSize: cfg.MaxFileSize,
		StaticDir:   webDir,
		Logger:      logger,
	})

	logger.Info("starting mudra backend", "addr", cfg.Addr, "db", cfg.DBPath, "version", cfg.AppVersion)

	if *trayMode {
		runWithTray(srv, eng, st, cfg.Addr, cancel, logger)
		return
	}

	if err := srv.ListenAndServe(cfg.Addr); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// runWithTray starts the server in the background and blocks on the
// tray event loop. The tray's quit item performs the shutdown.
func runWithTray(srv *server.Server, eng *engine.Engine, st *store.Store, addr string, cancel context.CancelFunc, logger *slog.Logger) {
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		eng.SetEnabled(enabled)
		logger.Info("ingestion toggled", "enabled", enabled)
	})
	t.OnDashboard(func() {
		if err := openBrowser(dashboardURL(addr)); err != nil {
			logger.Error("failed to open dashboard", "error", err)
		}
	})
	t.OnQuit(func() {
		cancel()
		eng.Drain()
		st.Close()
	})

	// Mirror the last accepted gesture into the tray menu
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		last := ""
		for range ticker.C {
			snap := eng.Snapshot()
			if snap.LastGesture != last && snap.LastGesture != "-" {
				last = snap.LastGesture
				t.SetLastGesture(last)
			}
		}
	}()

	go func() {
		if err := srv.ListenAndServe(addr); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	t.Run()
}

// logLevel maps the configured level name to a slog level, defaulting
// to info for unknown values.
func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the URL with the platform's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
