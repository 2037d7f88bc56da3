package pipeline

import (
	"context"
	"time"

	"autocast/internal/stage"
	"autocast/internal/uploads"
)

// simulatedStage stands in for one step of asynchronous production work. It
// waits out the configured delay and leaves the record processing; ordering
// is the engine's job.
type simulatedStage struct {
	name    uploads.Stage
	delay   time.Duration
	sleeper func(time.Duration)
}

func (s *simulatedStage) Prepare(ctx context.Context, record *uploads.Record) error {
	return stage.EnsureStage(record, s.name)
}

func (s *simulatedStage) Execute(ctx context.Context, record *uploads.Record) error {
	return sleepFor(ctx, s.delay, s.sleeper)
}

func (s *simulatedStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(string(s.name))
}
