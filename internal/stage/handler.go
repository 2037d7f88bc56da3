package stage

import (
	"context"

	"autocast/internal/uploads"
)

// Handler describes the contract the pipeline engine needs from each stage.
type Handler interface {
	Prepare(context.Context, *uploads.Record) error
	Execute(context.Context, *uploads.Record) error
	HealthCheck(context.Context) Health
}
