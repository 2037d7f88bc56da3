package autopilot

import (
	"context"
	"errors"
	"time"

	"autocast/internal/channel"
	"autocast/internal/logging"
)

// Start begins the tick loop and subscribes to gate transitions. When the
// config requests auto_start the schedule arms immediately; the first run
// still waits for the channel link.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("autopilot already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.runCtx = runCtx
	m.cancel = cancel
	m.running = true
	m.countdown = m.period
	if m.cfg.Autopilot.AutoStart {
		m.autoActive = true
	}
	m.gateState = m.gate.State()
	m.unsubscribe = m.gate.Subscribe(func(info channel.Info) { m.handleGateState(info.State) })
	m.wg.Add(1)
	m.mu.Unlock()

	go m.tickLoop(runCtx)
	m.logger.Info("autopilot started",
		logging.Int("period_ticks", m.period),
		logging.Bool("auto_active", m.cfg.Autopilot.AutoStart),
	)
	return nil
}

// Stop cancels the tick loop and any in-flight run, then waits for both to
// finish. An interrupted run leaves its record non-terminal; only Stop may
// cut a run short.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	unsubscribe := m.unsubscribe
	m.running = false
	m.cancel = nil
	m.runCtx = nil
	m.unsubscribe = nil
	m.mu.Unlock()

	unsubscribe()
	cancel()
	m.wg.Wait()
	m.logger.Info("autopilot stopped")
}

func (m *Manager) tickLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.handleTick(ctx)
		}
	}
}

// handleTick decrements the countdown while the schedule is live. Reaching
// zero wraps back to the full period and attempts a fire; the wrap happens
// regardless of whether the fire is dropped, so the displayed countdown stays
// aligned with the nominal period.
func (m *Manager) handleTick(ctx context.Context) {
	m.mu.Lock()
	if !m.autoActive || m.gateState != channel.StateConnected {
		m.countdown = m.period
		m.mu.Unlock()
		return
	}
	m.countdown--
	fire := m.countdown <= 0
	if fire {
		m.countdown = m.period
	}
	m.mu.Unlock()

	if fire {
		m.Trigger(ctx, TriggerPeriodic)
	}
}

// handleGateState reacts to gate transitions: losing an established link
// deactivates auto mode, and a link coming up while the schedule is armed
// fires immediately.
func (m *Manager) handleGateState(state channel.State) {
	m.mu.Lock()
	previous := m.gateState
	m.gateState = state
	m.countdown = m.period
	deactivated := false
	if previous == channel.StateConnected && state != channel.StateConnected && m.autoActive {
		m.autoActive = false
		deactivated = true
	}
	fire := state == channel.StateConnected && m.autoActive && m.running
	runCtx := m.runCtx
	m.mu.Unlock()

	if deactivated {
		m.logger.Info("auto mode deactivated", logging.String("reason", "channel link lost"))
	}
	if fire {
		if runCtx == nil {
			runCtx = context.Background()
		}
		m.Trigger(runCtx, TriggerChannelLinked)
	}
}
