package pipeline

import (
	"context"

	"autocast/internal/services"
	"autocast/internal/services/growth"
	"autocast/internal/stage"
	"autocast/internal/uploads"
)

// trendScout performs the one external call of a run: it asks the growth
// provider for trend metadata and promotes the record to processing with the
// real title and description.
type trendScout struct {
	provider growth.Provider
	niche    string
	tone     string
}

func (s *trendScout) Prepare(ctx context.Context, record *uploads.Record) error {
	return stage.EnsureStage(record, uploads.StageTrendScouting)
}

func (s *trendScout) Execute(ctx context.Context, record *uploads.Record) error {
	data, err := s.provider.FetchTrendAndMetadata(ctx, growth.Request{
		Niche:  s.niche,
		Tone:   s.tone,
		Format: record.Format,
	})
	if err != nil {
		return services.Wrap(services.ErrMetadataFetch, "trend_scouting", "fetch trend", "Growth provider request failed", err)
	}

	if err := record.MarkProcessing(); err != nil {
		return services.Wrap(services.ErrValidation, "trend_scouting", "promote record", "Record not pending", err)
	}
	record.Title = data.Title
	record.Description = data.Description
	record.TrendTopic = data.TrendTopic
	record.Sources = data.Sources
	return nil
}

func (s *trendScout) HealthCheck(ctx context.Context) stage.Health {
	if err := s.provider.HealthCheck(ctx); err != nil {
		return stage.Unhealthy(string(uploads.StageTrendScouting), err.Error())
	}
	return stage.Healthy(string(uploads.StageTrendScouting))
}
