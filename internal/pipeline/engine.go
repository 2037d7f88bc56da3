package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"autocast/internal/config"
	"autocast/internal/logging"
	"autocast/internal/services"
	"autocast/internal/services/growth"
	"autocast/internal/stage"
	"autocast/internal/uploads"
)

// Engine advances one upload record through the fixed stage sequence. It is
// invoked by the autopilot under the single-flight guard, so at most one run
// mutates the store at a time.
type Engine struct {
	store   *uploads.Store
	logger  *slog.Logger
	sleeper func(time.Duration)

	bindings []stageBinding
}

type stageBinding struct {
	stage   uploads.Stage
	handler stage.Handler
}

// Option configures optional Engine behavior.
type Option func(*engineOptions)

type engineOptions struct {
	sleeper func(time.Duration)
	rng     *rand.Rand
}

// WithSleeper overrides how per-stage delays are waited out (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(o *engineOptions) {
		o.sleeper = sleeper
	}
}

// WithRand overrides the random source used for synthetic metrics.
func WithRand(rng *rand.Rand) Option {
	return func(o *engineOptions) {
		o.rng = rng
	}
}

// New constructs an engine wired to the store and growth provider. The stage
// delay and channel preferences come from the config.
func New(cfg *config.Config, store *uploads.Store, provider growth.Provider, logger *slog.Logger, opts ...Option) *Engine {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	rng := options.rng
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	engine := &Engine{
		store:   store,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		sleeper: options.sleeper,
	}

	delay := cfg.StageDelay()
	bindings := make([]stageBinding, 0, len(uploads.AllStages()))
	bindings = append(bindings, stageBinding{
		stage: uploads.StageTrendScouting,
		handler: &trendScout{
			provider: provider,
			niche:    cfg.Autopilot.Niche,
			tone:     cfg.Autopilot.Tone,
		},
	})
	for _, simulated := range uploads.AllStages()[1 : len(uploads.AllStages())-1] {
		bindings = append(bindings, stageBinding{
			stage:   simulated,
			handler: &simulatedStage{name: simulated, delay: delay, sleeper: options.sleeper},
		})
	}
	bindings = append(bindings, stageBinding{
		stage:   uploads.StagePublishing,
		handler: &publisher{delay: delay, sleeper: options.sleeper, rng: rng},
	})
	engine.bindings = bindings
	return engine
}

// Run drives a freshly inserted record from trend scouting to a terminal
// state. The record must be pending at the first stage. Any handler error
// terminates the record as failed at its current stage; a cancelled context
// aborts the run without forcing a terminal state.
func (e *Engine) Run(ctx context.Context, record *uploads.Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	ctx = services.WithUploadID(ctx, record.ID)
	runStart := time.Now()

	for i, binding := range e.bindings {
		if i > 0 {
			if err := record.AdvanceStage(binding.stage); err != nil {
				wrapped := services.Wrap(services.ErrValidation, "pipeline", "advance stage", "Stage ordering violated", err)
				e.failRecord(ctx, record, wrapped)
				return wrapped
			}
			if err := e.store.Update(ctx, record); err != nil {
				return fmt.Errorf("persist stage transition: %w", err)
			}
		}

		stageCtx := services.WithStage(ctx, string(binding.stage))
		stageLogger := logging.WithContext(stageCtx, e.logger)
		stageStart := time.Now()
		stageLogger.Debug("stage started")

		if err := binding.handler.Prepare(stageCtx, record); err != nil {
			e.failRecord(stageCtx, record, err)
			return err
		}
		if err := binding.handler.Execute(stageCtx, record); err != nil {
			if errors.Is(err, context.Canceled) {
				stageLogger.Debug("run interrupted by shutdown")
				return err
			}
			e.failRecord(stageCtx, record, err)
			return err
		}
		if err := e.store.Update(stageCtx, record); err != nil {
			return fmt.Errorf("persist stage result: %w", err)
		}
		stageLogger.Debug("stage completed", logging.Duration("stage_duration", time.Since(stageStart)))
	}

	e.logger.Info("upload published",
		logging.Int64(logging.FieldUploadID, record.ID),
		logging.String("title", record.Title),
		logging.Int64("views", record.Metrics.Views),
		logging.Float64("engagement", record.Metrics.Engagement),
		logging.Duration("run_duration", time.Since(runStart)),
	)
	return nil
}

// Health reports per-stage readiness.
func (e *Engine) Health(ctx context.Context) map[string]stage.Health {
	health := make(map[string]stage.Health, len(e.bindings))
	for _, binding := range e.bindings {
		health[string(binding.stage)] = binding.handler.HealthCheck(ctx)
	}
	return health
}

func (e *Engine) failRecord(ctx context.Context, record *uploads.Record, cause error) {
	message := strings.TrimSpace(cause.Error())
	if err := record.MarkFailed(message); err != nil {
		logging.WithContext(ctx, e.logger).Warn("could not mark record failed", logging.Error(err))
	}
	if err := e.store.Update(ctx, record); err != nil {
		logging.WithContext(ctx, e.logger).Error("failed to persist record failure", logging.Error(err))
	}
	logging.WithContext(ctx, e.logger).Error("stage failed",
		logging.String(logging.FieldStatus, string(record.Status)),
		logging.Error(cause),
	)
}

func sleepFor(ctx context.Context, delay time.Duration, sleeper func(time.Duration)) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if sleeper != nil {
		sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
