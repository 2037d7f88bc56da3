package growth

import (
	"context"

	"autocast/internal/uploads"
)

// Request carries the channel preferences a trend lookup is scoped to.
type Request struct {
	Niche  string
	Tone   string
	Format uploads.Format
}

// GrowthData is the metadata bundle a provider returns for one upload: the
// final title and description, the trend topic that motivated them, and the
// signal sources backing the trend.
type GrowthData struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TrendTopic  string   `json:"trend_topic"`
	Sources     []string `json:"sources"`
}

// Provider supplies trend metadata for the scouting stage. Implementations
// must honor context cancellation; the pipeline treats any returned error as
// a metadata fetch failure.
type Provider interface {
	FetchTrendAndMetadata(ctx context.Context, req Request) (*GrowthData, error)
	HealthCheck(ctx context.Context) error
}
