package ipc

import "autocast/internal/api"

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse confirms the daemon answered.
type PingResponse struct {
	Message string `json:"message"`
	PID     int    `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// UploadRecord mirrors the HTTP API upload DTO for IPC callers.
type UploadRecord = api.UploadRecord

// ChannelStatus describes the connection gate.
type ChannelStatus = api.ChannelStatus

// SchedulerStatus describes the autopilot scheduler.
type SchedulerStatus = api.SchedulerStatus

// RunOutcome summarizes the most recently finished pipeline run.
type RunOutcome = api.RunOutcome

// StageHealth describes readiness of a pipeline stage.
type StageHealth = api.StageHealth

// StatusResponse represents combined daemon/scheduler status information.
type StatusResponse struct {
	Running     bool            `json:"running"`
	PID         int             `json:"pid"`
	LockPath    string          `json:"lock_path"`
	Channel     ChannelStatus   `json:"channel"`
	Scheduler   SchedulerStatus `json:"scheduler"`
	UploadStats map[string]int  `json:"upload_stats"`
	StageHealth []StageHealth   `json:"stage_health"`
}

// ChannelConnectRequest links the channel. An empty credential selects the
// configured default.
type ChannelConnectRequest struct {
	Credential string `json:"credential"`
}

// ChannelConnectResponse reports the resulting link state.
type ChannelConnectResponse struct {
	Channel ChannelStatus `json:"channel"`
}

// ChannelDisconnectRequest unlinks the channel.
type ChannelDisconnectRequest struct{}

// ChannelDisconnectResponse reports the resulting link state.
type ChannelDisconnectResponse struct {
	Channel ChannelStatus `json:"channel"`
}

// AutoSetRequest arms or disarms the periodic schedule.
type AutoSetRequest struct {
	Active bool `json:"active"`
}

// AutoSetResponse reports the scheduler state after the change.
type AutoSetResponse struct {
	Scheduler SchedulerStatus `json:"scheduler"`
}

// TriggerRunRequest requests a manual pipeline run.
type TriggerRunRequest struct{}

// TriggerRunResponse reports whether the run started, and why not otherwise.
type TriggerRunResponse struct {
	Started bool   `json:"started"`
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

// UploadsListRequest filters the record listing by status.
type UploadsListRequest struct {
	Statuses []string `json:"statuses"`
}

// UploadsListResponse contains upload records, newest first.
type UploadsListResponse struct {
	Records []UploadRecord `json:"records"`
}

// UploadsShowRequest fetches a single record by id.
type UploadsShowRequest struct {
	ID int64 `json:"id"`
}

// UploadsShowResponse contains a single record.
type UploadsShowResponse struct {
	Record UploadRecord `json:"record"`
}

// UploadsHealthRequest fetches aggregate record counts.
type UploadsHealthRequest struct{}

// UploadsHealthResponse reports aggregate record counts.
type UploadsHealthResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Uploaded   int `json:"uploaded"`
	Failed     int `json:"failed"`
}

// UploadsPruneRequest trims terminal records beyond the newest keep entries.
type UploadsPruneRequest struct {
	Keep int `json:"keep"`
}

// UploadsPruneResponse reports the number of removed records.
type UploadsPruneResponse struct {
	Removed int64 `json:"removed"`
}

// UploadsClearRequest removes every record.
type UploadsClearRequest struct{}

// UploadsClearResponse reports the number of removed records.
type UploadsClearResponse struct {
	Removed int64 `json:"removed"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// StopDaemonRequest asks the daemon process to shut down.
type StopDaemonRequest struct{}

// StopDaemonResponse indicates the shutdown was accepted.
type StopDaemonResponse struct {
	Stopped bool `json:"stopped"`
}
