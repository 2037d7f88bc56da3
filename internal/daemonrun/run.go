// Package daemonrun bootstraps the daemon process: signal handling, run-ID
// log files, the PID file, and the wiring of store, gate, engine, scheduler,
// daemon, and IPC server.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"autocast/internal/autopilot"
	"autocast/internal/channel"
	"autocast/internal/config"
	"autocast/internal/daemon"
	"autocast/internal/ipc"
	"autocast/internal/logging"
	"autocast/internal/pipeline"
	"autocast/internal/services/growth"
	"autocast/internal/uploads"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the autocast daemon runtime loop and blocks until a signal
// arrives or an IPC StopDaemon request shuts the process down.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	// StopDaemon over IPC ends the run loop without a signal.
	runCtx, stopProcess := context.WithCancel(signalCtx)
	defer stopProcess()

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("autocast-%s.log", runID))

	level := strings.TrimSpace(opts.LogLevel)
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update autocast.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "autocast-*.log", Exclude: []string{logPath}},
	)

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := uploads.Open()
	if err != nil {
		logger.Error("open upload store", logging.Error(err))
		return err
	}
	defer store.Close()

	provider := buildProvider(cfg, logger)
	gate := channel.New(cfg.LinkLatency(), channel.WithLogger(logger))
	engine := pipeline.New(cfg, store, provider, logger)
	manager := autopilot.New(cfg, store, gate, engine, logger)

	d, err := daemon.New(cfg, store, gate, engine, manager, logger, logPath)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	// Acquire the instance lock before touching the socket so a second
	// process cannot steal a running daemon's socket.
	if err := d.Start(runCtx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		return err
	}

	ipcServer, err := ipc.NewServer(runCtx, cfg.SocketPath(), d, logger, stopProcess)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	<-runCtx.Done()
	logger.Info("autocast daemon shutting down")
	return nil
}

// buildProvider selects the growth metadata source. Anything other than
// "remote" falls back to the local synthesizer.
func buildProvider(cfg *config.Config, logger *slog.Logger) growth.Provider {
	mode := strings.ToLower(strings.TrimSpace(cfg.Provider.Mode))
	if mode == "remote" {
		logger.Info("using remote growth provider",
			logging.String("model", cfg.Provider.Model),
			logging.String("base_url", cfg.Provider.BaseURL),
		)
		return growth.NewClient(growth.Config{
			APIKey:         cfg.Provider.APIKey,
			BaseURL:        cfg.Provider.BaseURL,
			Model:          cfg.Provider.Model,
			Referer:        cfg.Provider.Referer,
			Title:          cfg.Provider.Title,
			TimeoutSeconds: cfg.Provider.TimeoutSeconds,
		})
	}
	return growth.NewSynthesizer(cfg.ProviderLatency(), cfg.Provider.FailureRate)
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "autocast.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
