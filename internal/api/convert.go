package api

import (
	"slices"
	"time"

	"autocast/internal/autopilot"
	"autocast/internal/channel"
	"autocast/internal/stage"
	"autocast/internal/uploads"
)

// FromRecord converts an upload record to its API representation.
func FromRecord(record *uploads.Record) UploadRecord {
	if record == nil {
		return UploadRecord{}
	}
	dto := UploadRecord{
		ID:           record.ID,
		PublicID:     record.PublicID,
		Title:        record.Title,
		Description:  record.Description,
		Status:       string(record.Status),
		Stage:        string(record.Stage),
		Format:       string(record.Format),
		Thumbnail:    record.Thumbnail,
		TrendTopic:   record.TrendTopic,
		ErrorMessage: record.ErrorMessage,
		CreatedAt:    FormatTime(record.CreatedAt),
		UpdatedAt:    FormatTime(record.UpdatedAt),
	}
	if len(record.Sources) > 0 {
		dto.Sources = slices.Clone(record.Sources)
	}
	if record.Metrics != nil {
		dto.Metrics = &UploadMetrics{
			Views:      record.Metrics.Views,
			Engagement: record.Metrics.Engagement,
		}
	}
	return dto
}

// FromRecords converts a slice of upload records into API DTOs.
func FromRecords(records []*uploads.Record) []UploadRecord {
	if len(records) == 0 {
		return nil
	}
	out := make([]UploadRecord, 0, len(records))
	for _, record := range records {
		out = append(out, FromRecord(record))
	}
	return out
}

// FromChannelInfo converts a gate snapshot to its API representation.
func FromChannelInfo(info channel.Info) ChannelStatus {
	dto := ChannelStatus{
		State:       string(info.State),
		Credential:  info.Credential,
		ChannelName: info.ChannelName,
		Handle:      info.Handle,
	}
	if info.LinkedAt != nil {
		dto.LinkedAt = FormatTime(*info.LinkedAt)
	}
	return dto
}

// FromSchedulerSnapshot converts an autopilot snapshot to API payload.
func FromSchedulerSnapshot(snapshot autopilot.Snapshot) SchedulerStatus {
	return SchedulerStatus{
		Running:    snapshot.Running,
		AutoActive: snapshot.AutoActive,
		Busy:       snapshot.Busy,
		Countdown:  snapshot.Countdown,
		Period:     snapshot.Period,
		LastRun:    FromRunOutcome(snapshot.LastOutcome),
	}
}

// FromRunOutcome converts a run outcome, passing nil through.
func FromRunOutcome(outcome *autopilot.RunOutcome) *RunOutcome {
	if outcome == nil {
		return nil
	}
	return &RunOutcome{
		RecordID:   outcome.RecordID,
		Title:      outcome.Title,
		Status:     string(outcome.Status),
		Trigger:    string(outcome.Reason),
		FinishedAt: FormatTime(outcome.FinishedAt),
		Message:    outcome.Message,
	}
}

// MergeUploadStats produces a string-keyed representation of upload stats.
func MergeUploadStats(stats map[uploads.Status]int) map[string]int {
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}

// StageHealthSlice converts a stage health map into a deterministic slice.
func StageHealthSlice(health map[string]stage.Health) []StageHealth {
	if len(health) == 0 {
		return nil
	}
	names := make([]string, 0, len(health))
	for name := range health {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]StageHealth, 0, len(names))
	for _, name := range names {
		h := health[name]
		out = append(out, StageHealth{Name: name, Ready: h.Ready, Detail: h.Detail})
	}
	return out
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
