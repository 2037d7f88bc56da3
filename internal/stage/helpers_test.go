package stage

import (
	"errors"
	"testing"

	"autocast/internal/services"
	"autocast/internal/uploads"
)

func TestEnsureStage_Match(t *testing.T) {
	record := &uploads.Record{ID: 1, Stage: uploads.StageVoiceSynthesis}
	if err := EnsureStage(record, uploads.StageVoiceSynthesis); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureStage_Mismatch(t *testing.T) {
	record := &uploads.Record{ID: 1, Stage: uploads.StageTrendScouting}
	err := EnsureStage(record, uploads.StagePublishing)
	if err == nil {
		t.Fatal("expected error for stage mismatch")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEnsureStage_NilRecord(t *testing.T) {
	if err := EnsureStage(nil, uploads.StagePublishing); err == nil {
		t.Fatal("expected error for nil record")
	}
}
