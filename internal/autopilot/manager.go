package autopilot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"autocast/internal/channel"
	"autocast/internal/config"
	"autocast/internal/logging"
	"autocast/internal/pipeline"
	"autocast/internal/uploads"
)

const fallbackPeriodTicks = 60

// Manager owns the single-flight upload schedule. It funnels the periodic
// timer, manual triggers, and gate transitions into one guarded entry point,
// keeps the countdown synchronized with the schedule period, and spawns at
// most one pipeline run at a time.
type Manager struct {
	cfg    *config.Config
	store  *uploads.Store
	gate   *channel.Gate
	engine *pipeline.Engine
	logger *slog.Logger

	tickInterval time.Duration
	period       int

	mu          sync.Mutex
	running     bool
	autoActive  bool
	busy        bool
	countdown   int
	gateState   channel.State
	lastOutcome *RunOutcome
	runCtx      context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

// Option configures optional Manager behavior.
type Option func(*managerOptions)

type managerOptions struct {
	tickInterval time.Duration
}

// WithTickInterval overrides the countdown tick interval (used in tests; the
// schedule period is measured in ticks, so shrinking the interval compresses
// the whole timeline).
func WithTickInterval(interval time.Duration) Option {
	return func(o *managerOptions) {
		if interval > 0 {
			o.tickInterval = interval
		}
	}
}

// New constructs a manager. The schedule period comes from the config; the
// countdown starts parked at the full period until auto mode arms.
func New(cfg *config.Config, store *uploads.Store, gate *channel.Gate, engine *pipeline.Engine, logger *slog.Logger, opts ...Option) *Manager {
	options := &managerOptions{tickInterval: time.Second}
	for _, opt := range opts {
		opt(options)
	}
	period := cfg.Autopilot.PeriodSeconds
	if period <= 0 {
		period = fallbackPeriodTicks
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		gate:         gate,
		engine:       engine,
		logger:       logging.NewComponentLogger(logger, "autopilot"),
		tickInterval: options.tickInterval,
		period:       period,
		countdown:    period,
		gateState:    gate.State(),
	}
}

// Snapshot captures the scheduler state for read surfaces.
type Snapshot struct {
	Running     bool
	AutoActive  bool
	Busy        bool
	Countdown   int
	Period      int
	GateState   channel.State
	LastOutcome *RunOutcome
}

// Snapshot returns the current scheduler state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := Snapshot{
		Running:    m.running,
		AutoActive: m.autoActive,
		Busy:       m.busy,
		Countdown:  m.countdown,
		Period:     m.period,
		GateState:  m.gateState,
	}
	if m.lastOutcome != nil {
		copy := *m.lastOutcome
		snapshot.LastOutcome = &copy
	}
	return snapshot
}

// SetAutoActive arms or disarms the periodic schedule. Arming while the
// channel is linked fires an immediate run; arming while unlinked records the
// wish and the gate subscription fires once the link comes up. Disarming
// never aborts an in-flight run.
func (m *Manager) SetAutoActive(ctx context.Context, active bool) {
	m.mu.Lock()
	if m.autoActive == active {
		m.mu.Unlock()
		return
	}
	m.autoActive = active
	m.countdown = m.period
	fire := active && m.running && m.gateState == channel.StateConnected
	m.mu.Unlock()

	if active {
		m.logger.Info("auto mode enabled")
	} else {
		m.logger.Info("auto mode disabled")
	}
	if fire {
		m.Trigger(ctx, TriggerAutoEnabled)
	}
}

func (m *Manager) setLastOutcome(outcome *RunOutcome) {
	m.mu.Lock()
	if outcome != nil {
		copy := *outcome
		m.lastOutcome = &copy
	} else {
		m.lastOutcome = nil
	}
	m.mu.Unlock()
}
