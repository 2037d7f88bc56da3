package uploads_test

import (
	"testing"

	"autocast/internal/uploads"
)

func TestStageOrdering(t *testing.T) {
	stages := uploads.AllStages()
	want := []uploads.Stage{
		uploads.StageTrendScouting,
		uploads.StageStrategyMapping,
		uploads.StageScriptGeneration,
		uploads.StageNeuralRendering,
		uploads.StageVoiceSynthesis,
		uploads.StageQCValidation,
		uploads.StagePublishing,
	}
	if len(stages) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(stages))
	}
	for i, stage := range want {
		if stages[i] != stage {
			t.Fatalf("stage %d: expected %s, got %s", i, stage, stages[i])
		}
		if idx := uploads.StageIndex(stage); idx != i {
			t.Fatalf("StageIndex(%s): expected %d, got %d", stage, i, idx)
		}
	}

	for i := 0; i < len(want)-1; i++ {
		next, ok := uploads.NextStage(want[i])
		if !ok || next != want[i+1] {
			t.Fatalf("NextStage(%s): expected %s, got %s (ok=%v)", want[i], want[i+1], next, ok)
		}
	}
	if _, ok := uploads.NextStage(uploads.StagePublishing); ok {
		t.Fatal("expected no stage after publishing")
	}
	if idx := uploads.StageIndex("mastering"); idx != -1 {
		t.Fatalf("expected -1 for unknown stage, got %d", idx)
	}
}

func TestParseHelpers(t *testing.T) {
	status, err := uploads.ParseStatus(" Uploaded ")
	if err != nil || status != uploads.StatusUploaded {
		t.Fatalf("ParseStatus: got %s, %v", status, err)
	}
	if _, err := uploads.ParseStatus("archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}

	stage, err := uploads.ParseStage("QC_Validation")
	if err != nil || stage != uploads.StageQCValidation {
		t.Fatalf("ParseStage: got %s, %v", stage, err)
	}
	if _, err := uploads.ParseStage("mixdown"); err == nil {
		t.Fatal("expected error for unknown stage")
	}

	format, err := uploads.ParseFormat("LIVE_REPLAY")
	if err != nil || format != uploads.FormatLiveReplay {
		t.Fatalf("ParseFormat: got %s, %v", format, err)
	}
	if _, err := uploads.ParseFormat("podcast"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestStatusPredicates(t *testing.T) {
	if !uploads.StatusPending.IsActive() || !uploads.StatusProcessing.IsActive() {
		t.Fatal("expected pending and processing to be active")
	}
	if uploads.StatusUploaded.IsActive() || uploads.StatusFailed.IsActive() {
		t.Fatal("expected terminal statuses to be inactive")
	}
	if !uploads.StatusUploaded.IsTerminal() || !uploads.StatusFailed.IsTerminal() {
		t.Fatal("expected uploaded and failed to be terminal")
	}
	if uploads.StatusPending.IsTerminal() {
		t.Fatal("expected pending to be non-terminal")
	}
}

func TestRecordTransitionsAreMonotonic(t *testing.T) {
	record := &uploads.Record{Status: uploads.StatusPending, Stage: uploads.StageTrendScouting}

	if err := record.AdvanceStage(uploads.StageStrategyMapping); err == nil {
		t.Fatal("expected stage advance to require processing status")
	}
	if err := record.MarkProcessing(); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if err := record.MarkProcessing(); err == nil {
		t.Fatal("expected second MarkProcessing to fail")
	}

	if err := record.AdvanceStage(uploads.StageScriptGeneration); err == nil {
		t.Fatal("expected stage skip to be rejected")
	}
	if err := record.AdvanceStage(uploads.StageStrategyMapping); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	if err := record.AdvanceStage(uploads.StageTrendScouting); err == nil {
		t.Fatal("expected stage regression to be rejected")
	}

	if err := record.MarkUploaded(uploads.Metrics{Views: 1}, ""); err == nil {
		t.Fatal("expected MarkUploaded to require publishing stage")
	}
	for _, stage := range uploads.AllStages()[2:] {
		if err := record.AdvanceStage(stage); err != nil {
			t.Fatalf("AdvanceStage(%s): %v", stage, err)
		}
	}
	if err := record.MarkUploaded(uploads.Metrics{Views: 200, Engagement: 0.5}, "thumb"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	if record.Status != uploads.StatusUploaded || record.Metrics == nil {
		t.Fatalf("unexpected record after upload: %#v", record)
	}
	if record.Thumbnail != "thumb" {
		t.Fatalf("expected thumbnail replaced, got %q", record.Thumbnail)
	}

	if err := record.MarkFailed("late failure"); err == nil {
		t.Fatal("expected MarkFailed to reject terminal record")
	}
}

func TestMarkFailedStopsAtCurrentStage(t *testing.T) {
	record := &uploads.Record{Status: uploads.StatusProcessing, Stage: uploads.StageNeuralRendering}
	if err := record.MarkFailed("  render timeout  "); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if record.Status != uploads.StatusFailed {
		t.Fatalf("expected failed status, got %s", record.Status)
	}
	if record.Stage != uploads.StageNeuralRendering {
		t.Fatalf("expected stage preserved, got %s", record.Stage)
	}
	if record.ErrorMessage != "render timeout" {
		t.Fatalf("expected trimmed error message, got %q", record.ErrorMessage)
	}
}

func TestMarkUploadedKeepsThumbnailWhenBlank(t *testing.T) {
	record := &uploads.Record{
		Status:    uploads.StatusProcessing,
		Stage:     uploads.StagePublishing,
		Thumbnail: "original",
	}
	if err := record.MarkUploaded(uploads.Metrics{}, "  "); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	if record.Thumbnail != "original" {
		t.Fatalf("expected thumbnail preserved, got %q", record.Thumbnail)
	}
}
