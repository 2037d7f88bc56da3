package uploads

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of an upload record. Transitions are
// monotonic: pending -> processing -> (uploaded | failed).
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusUploaded   Status = "uploaded"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusUploaded,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus normalizes a user-supplied status string.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := statusSet[status]; !ok {
		return "", fmt.Errorf("unknown status %q", value)
	}
	return status, nil
}

// IsTerminal reports whether no further transitions occur for this status.
func (s Status) IsTerminal() bool {
	return s == StatusUploaded || s == StatusFailed
}

// IsActive reports whether the status occupies the single-flight slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusProcessing
}

// Stage is one step in the fixed ordered sequence a record passes through.
type Stage string

const (
	StageTrendScouting    Stage = "trend_scouting"
	StageStrategyMapping  Stage = "strategy_mapping"
	StageScriptGeneration Stage = "script_generation"
	StageNeuralRendering  Stage = "neural_rendering"
	StageVoiceSynthesis   Stage = "voice_synthesis"
	StageQCValidation     Stage = "qc_validation"
	StagePublishing       Stage = "publishing"
)

var stageOrder = []Stage{
	StageTrendScouting,
	StageStrategyMapping,
	StageScriptGeneration,
	StageNeuralRendering,
	StageVoiceSynthesis,
	StageQCValidation,
	StagePublishing,
}

var stageIndex = func() map[Stage]int {
	idx := make(map[Stage]int, len(stageOrder))
	for i, stage := range stageOrder {
		idx[stage] = i
	}
	return idx
}()

// AllStages returns the fixed stage ordering.
func AllStages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// StageIndex returns the zero-based position of stage in the fixed ordering,
// or -1 when the stage is unknown.
func StageIndex(stage Stage) int {
	if idx, ok := stageIndex[stage]; ok {
		return idx
	}
	return -1
}

// NextStage returns the stage following the given one. ok is false at
// publishing (the final stage) and for unknown stages.
func NextStage(stage Stage) (Stage, bool) {
	idx, known := stageIndex[stage]
	if !known || idx+1 >= len(stageOrder) {
		return "", false
	}
	return stageOrder[idx+1], true
}

// ParseStage normalizes a user-supplied stage string.
func ParseStage(value string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := stageIndex[stage]; !ok {
		return "", fmt.Errorf("unknown stage %q", value)
	}
	return stage, nil
}

// Format describes the content format chosen at trigger time.
type Format string

const (
	FormatShort      Format = "short"
	FormatLongform   Format = "longform"
	FormatLiveReplay Format = "live_replay"
)

var allFormats = []Format{FormatShort, FormatLongform, FormatLiveReplay}

// AllFormats returns the known content formats.
func AllFormats() []Format {
	out := make([]Format, len(allFormats))
	copy(out, allFormats)
	return out
}

// ParseFormat normalizes a user-supplied format string.
func ParseFormat(value string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range allFormats {
		if format == known {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", value)
}

// Metrics is the pair of synthetic engagement indicators attached to a record
// on terminal success.
type Metrics struct {
	Views      int64   `json:"views"`
	Engagement float64 `json:"engagement"`
}

// HealthSummary describes aggregated record counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Uploaded   int
	Failed     int
}

// Record represents one pipeline run's upload, persisted in the in-memory
// store. Title and description start as placeholders and are overwritten
// exactly once from the growth provider result.
type Record struct {
	ID           int64
	PublicID     string
	Title        string
	Description  string
	Status       Status
	Stage        Stage
	Thumbnail    string
	Format       Format
	TrendTopic   string
	Sources      []string
	Metrics      *Metrics
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the record occupies the single-flight slot.
func (r *Record) IsActive() bool {
	return r != nil && r.Status.IsActive()
}

// MarkProcessing moves a pending record to processing. Any other starting
// status violates monotonicity and is rejected.
func (r *Record) MarkProcessing() error {
	if r.Status != StatusPending {
		return fmt.Errorf("cannot mark processing from %s", r.Status)
	}
	r.Status = StatusProcessing
	return nil
}

// AdvanceStage moves the record to the next stage in the fixed ordering.
// Skipping or revisiting stages is rejected.
func (r *Record) AdvanceStage(next Stage) error {
	want, ok := NextStage(r.Stage)
	if !ok {
		return fmt.Errorf("no stage follows %s", r.Stage)
	}
	if next != want {
		return fmt.Errorf("stage %s does not follow %s (want %s)", next, r.Stage, want)
	}
	if r.Status != StatusProcessing {
		return fmt.Errorf("cannot advance stage with status %s", r.Status)
	}
	r.Stage = next
	return nil
}

// MarkUploaded finalizes a successful run: terminal status, synthetic
// metrics, and the one-time thumbnail replacement.
func (r *Record) MarkUploaded(metrics Metrics, thumbnail string) error {
	if r.Status != StatusProcessing {
		return fmt.Errorf("cannot mark uploaded from %s", r.Status)
	}
	if r.Stage != StagePublishing {
		return fmt.Errorf("cannot mark uploaded at stage %s", r.Stage)
	}
	r.Status = StatusUploaded
	r.Metrics = &Metrics{Views: metrics.Views, Engagement: metrics.Engagement}
	if strings.TrimSpace(thumbnail) != "" {
		r.Thumbnail = thumbnail
	}
	return nil
}

// MarkFailed terminates the record at its current stage with an error
// message. Terminal records are left untouched.
func (r *Record) MarkFailed(message string) error {
	if r.Status.IsTerminal() {
		return fmt.Errorf("cannot fail terminal record (status %s)", r.Status)
	}
	r.Status = StatusFailed
	r.ErrorMessage = strings.TrimSpace(message)
	return nil
}

const (
	placeholderTitle       = "Drafting next upload"
	placeholderDescription = "Waiting for trend metadata"
)

// PlaceholderThumbnail returns the synthetic thumbnail URL assigned at
// record creation.
func PlaceholderThumbnail(publicID string) string {
	return "https://thumbs.autocast.dev/" + publicID + "/draft.jpg"
}

// PublishedThumbnail returns the replacement thumbnail URL used on terminal
// success.
func PublishedThumbnail(publicID string) string {
	return "https://thumbs.autocast.dev/" + publicID + "/published.jpg"
}
