package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"autocast/internal/autopilot"
	"autocast/internal/channel"
	"autocast/internal/config"
	"autocast/internal/logging"
	"autocast/internal/pipeline"
	"autocast/internal/stage"
	"autocast/internal/uploads"
)

// Daemon coordinates the background services and enforces single-instance
// execution via a lock file under the state directory.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *uploads.Store
	gate    *channel.Gate
	engine  *pipeline.Engine
	manager *autopilot.Manager
	logPath string

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	LockFilePath string
	Channel      channel.Info
	Scheduler    autopilot.Snapshot
	UploadStats  map[uploads.Status]int
	StageHealth  map[string]stage.Health
}

// New constructs a daemon with initialized dependencies. logPath points at
// the active log file so IPC clients can tail it.
func New(cfg *config.Config, store *uploads.Store, gate *channel.Gate, engine *pipeline.Engine, manager *autopilot.Manager, logger *slog.Logger, logPath string) (*Daemon, error) {
	if cfg == nil || store == nil || gate == nil || engine == nil || manager == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, gate, engine, manager, and logger")
	}
	// The lock, socket, and pid files live under the state dir.
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		gate:     gate,
		engine:   engine,
		manager:  manager,
		logPath:  logPath,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the instance lock and launches the scheduler and the
// optional HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another autocast daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.manager.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start autopilot: %w", err)
	}
	if err := d.api.start(d.ctx); err != nil {
		d.manager.Stop()
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("autocast daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.manager.Stop()
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("autocast daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// ListUploads returns upload records filtered by optional statuses.
func (d *Daemon) ListUploads(ctx context.Context, statuses []uploads.Status) ([]*uploads.Record, error) {
	return d.store.List(ctx, statuses...)
}

// GetUpload returns a single record, or nil when the id is unknown.
func (d *Daemon) GetUpload(ctx context.Context, id int64) (*uploads.Record, error) {
	return d.store.GetByID(ctx, id)
}

// UploadsHealth returns aggregate record counts.
func (d *Daemon) UploadsHealth(ctx context.Context) (uploads.HealthSummary, error) {
	return d.store.Health(ctx)
}

// PruneHistory removes terminal records beyond the newest keep.
func (d *Daemon) PruneHistory(ctx context.Context, keep int) (int64, error) {
	return d.store.PruneHistory(ctx, keep)
}

// ClearUploads removes every record.
func (d *Daemon) ClearUploads(ctx context.Context) (int64, error) {
	return d.store.Clear(ctx)
}

// ConnectChannel links the channel, falling back to the configured
// credential when none is given.
func (d *Daemon) ConnectChannel(ctx context.Context, credential string) (channel.Info, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		credential = d.cfg.Channel.DefaultCredential
	}
	return d.gate.Connect(ctx, credential)
}

// DisconnectChannel unlinks the channel.
func (d *Daemon) DisconnectChannel() {
	d.gate.Disconnect()
}

// ChannelInfo returns the current gate snapshot.
func (d *Daemon) ChannelInfo() channel.Info {
	return d.gate.Info()
}

// SetAutoActive arms or disarms the periodic schedule.
func (d *Daemon) SetAutoActive(ctx context.Context, active bool) {
	d.manager.SetAutoActive(ctx, active)
}

// TriggerRun requests a manual pipeline run.
func (d *Daemon) TriggerRun(ctx context.Context) (autopilot.TriggerOutcome, error) {
	return d.manager.Trigger(ctx, autopilot.TriggerManual)
}

// SchedulerSnapshot returns the autopilot state.
func (d *Daemon) SchedulerSnapshot() autopilot.Snapshot {
	return d.manager.Snapshot()
}

// StageHealth returns per-stage readiness.
func (d *Daemon) StageHealth(ctx context.Context) map[string]stage.Health {
	return d.engine.Health(ctx)
}

// LogPath returns the path to the active daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	stats, err := d.store.Stats(ctx)
	if err != nil {
		d.logger.Warn("failed to read upload stats", logging.Error(err))
	}
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
		Channel:      d.gate.Info(),
		Scheduler:    d.manager.Snapshot(),
		UploadStats:  stats,
		StageHealth:  d.engine.Health(ctx),
	}
}
