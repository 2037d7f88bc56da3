package stage

import (
	"fmt"

	"autocast/internal/services"
	"autocast/internal/uploads"
)

// EnsureStage verifies a record arrived at the stage a handler expects.
// On mismatch it returns a services.ErrValidation suitable for stage Execute methods.
func EnsureStage(record *uploads.Record, want uploads.Stage) error {
	if record == nil {
		return services.Wrap(
			services.ErrValidation, "stage", "ensure stage",
			"Upload record missing", nil)
	}
	if record.Stage != want {
		return services.Wrap(
			services.ErrValidation, "stage", "ensure stage",
			fmt.Sprintf("Record %d is at stage %s, expected %s", record.ID, record.Stage, want), nil)
	}
	return nil
}
