package autopilot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autocast/internal/channel"
	"autocast/internal/logging"
	"autocast/internal/uploads"
)

// TriggerReason records which path requested a run.
type TriggerReason string

const (
	TriggerManual        TriggerReason = "manual"
	TriggerPeriodic      TriggerReason = "periodic"
	TriggerAutoEnabled   TriggerReason = "auto_enabled"
	TriggerChannelLinked TriggerReason = "channel_linked"
)

// TriggerOutcome reports what a trigger attempt did. Dropped triggers are
// deliberate no-ops, not queued work.
type TriggerOutcome int

const (
	TriggerStarted TriggerOutcome = iota
	TriggerSkippedBusy
	TriggerSkippedDisconnected
	TriggerSkippedStopped
	TriggerFailed
)

func (o TriggerOutcome) String() string {
	switch o {
	case TriggerStarted:
		return "started"
	case TriggerSkippedBusy:
		return "skipped_busy"
	case TriggerSkippedDisconnected:
		return "skipped_disconnected"
	case TriggerSkippedStopped:
		return "skipped_stopped"
	case TriggerFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Started reports whether the trigger launched a pipeline run.
func (o TriggerOutcome) Started() bool { return o == TriggerStarted }

// RunOutcome summarizes the most recently finished pipeline run.
type RunOutcome struct {
	RecordID   int64
	Title      string
	Status     uploads.Status
	Reason     TriggerReason
	FinishedAt time.Time
	Message    string
}

// Trigger is the single entry point for starting a run: the periodic timer,
// manual invocation, and gate transitions all land here. The single-flight
// guard is checked and set in one step; a trigger arriving while a run is in
// flight or the channel is unlinked is dropped. On a fire the countdown
// resets, a fresh pending record is inserted, and the run is spawned with the
// guard released on every exit path.
func (m *Manager) Trigger(ctx context.Context, reason TriggerReason) (TriggerOutcome, error) {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return TriggerSkippedStopped, nil
	}
	if m.busy {
		m.mu.Unlock()
		m.logger.Debug("trigger dropped",
			logging.String("trigger", string(reason)),
			logging.String("cause", "run in flight"),
		)
		return TriggerSkippedBusy, nil
	}
	if m.gateState != channel.StateConnected {
		m.mu.Unlock()
		m.logger.Debug("trigger dropped",
			logging.String("trigger", string(reason)),
			logging.String("cause", "channel not linked"),
		)
		return TriggerSkippedDisconnected, nil
	}
	m.busy = true
	m.countdown = m.period
	runCtx := m.runCtx
	m.wg.Add(1)
	m.mu.Unlock()

	record, err := m.store.NewRecord(ctx, m.recordFormat())
	if err != nil {
		m.releaseGuard()
		m.wg.Done()
		m.logger.Error("failed to insert upload record", logging.Error(err))
		return TriggerFailed, fmt.Errorf("insert upload record: %w", err)
	}

	m.logger.Info("upload run started",
		logging.Int64(logging.FieldUploadID, record.ID),
		logging.String("trigger", string(reason)),
	)
	go m.runPipeline(runCtx, record, reason)
	return TriggerStarted, nil
}

func (m *Manager) runPipeline(ctx context.Context, record *uploads.Record, reason TriggerReason) {
	defer m.wg.Done()
	defer m.releaseGuard()

	err := m.engine.Run(ctx, record)
	outcome := &RunOutcome{
		RecordID:   record.ID,
		Title:      record.Title,
		Status:     record.Status,
		Reason:     reason,
		FinishedAt: time.Now(),
	}
	if err != nil {
		outcome.Message = strings.TrimSpace(err.Error())
	}
	m.setLastOutcome(outcome)
	m.pruneHistory(ctx)
}

// pruneHistory applies the configured retention cap after a run settles.
// Zero keeps everything.
func (m *Manager) pruneHistory(ctx context.Context) {
	keep := m.cfg.Autopilot.RetentionLimit
	if keep <= 0 {
		return
	}
	removed, err := m.store.PruneHistory(ctx, keep)
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Warn("upload history prune failed", logging.Error(err))
		}
		return
	}
	if removed > 0 {
		m.logger.Debug("upload history pruned",
			logging.Int("keep", keep),
			logging.Int64("removed_count", removed),
		)
	}
}

func (m *Manager) releaseGuard() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}

func (m *Manager) recordFormat() uploads.Format {
	format, err := uploads.ParseFormat(m.cfg.Autopilot.Format)
	if err != nil {
		return uploads.FormatShort
	}
	return format
}
