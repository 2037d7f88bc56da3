package pipeline

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"autocast/internal/services"
	"autocast/internal/stage"
	"autocast/internal/uploads"
)

const (
	minViews       = 5_000
	maxViews       = 500_000
	minEngagement  = 0.05
	maxEngagement  = 0.95
	engagementStep = 10_000 // four decimal places
)

// publisher finalizes a run: after its delay it marks the record uploaded,
// attaches synthetic engagement metrics, and swaps in the published
// thumbnail.
type publisher struct {
	delay   time.Duration
	sleeper func(time.Duration)

	mu  sync.Mutex
	rng *rand.Rand
}

func (p *publisher) Prepare(ctx context.Context, record *uploads.Record) error {
	return stage.EnsureStage(record, uploads.StagePublishing)
}

func (p *publisher) Execute(ctx context.Context, record *uploads.Record) error {
	if err := sleepFor(ctx, p.delay, p.sleeper); err != nil {
		return err
	}

	metrics := p.syntheticMetrics()
	if err := record.MarkUploaded(metrics, uploads.PublishedThumbnail(record.PublicID)); err != nil {
		return services.Wrap(services.ErrValidation, "publishing", "finalize record", "Record not ready to publish", err)
	}
	return nil
}

func (p *publisher) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(string(uploads.StagePublishing))
}

func (p *publisher) syntheticMetrics() uploads.Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	engagement := minEngagement + p.rng.Float64()*(maxEngagement-minEngagement)
	engagement = math.Round(engagement*engagementStep) / engagementStep
	return uploads.Metrics{
		Views:      minViews + p.rng.Int64N(maxViews-minViews),
		Engagement: engagement,
	}
}
