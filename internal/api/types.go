package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// UploadRecord describes an upload record in a transport-friendly format.
type UploadRecord struct {
	ID           int64          `json:"id"`
	PublicID     string         `json:"publicId"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Status       string         `json:"status"`
	Stage        string         `json:"stage"`
	Format       string         `json:"format"`
	Thumbnail    string         `json:"thumbnail,omitempty"`
	TrendTopic   string         `json:"trendTopic,omitempty"`
	Sources      []string       `json:"sources,omitempty"`
	Metrics      *UploadMetrics `json:"metrics,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	CreatedAt    string         `json:"createdAt,omitempty"`
	UpdatedAt    string         `json:"updatedAt,omitempty"`
}

// UploadMetrics carries the synthetic publish metrics.
type UploadMetrics struct {
	Views      int64   `json:"views"`
	Engagement float64 `json:"engagement"`
}

// ChannelStatus describes the connection gate.
type ChannelStatus struct {
	State       string `json:"state"`
	Credential  string `json:"credential,omitempty"`
	ChannelName string `json:"channelName,omitempty"`
	Handle      string `json:"handle,omitempty"`
	LinkedAt    string `json:"linkedAt,omitempty"`
}

// SchedulerStatus summarizes the autopilot scheduler.
type SchedulerStatus struct {
	Running    bool        `json:"running"`
	AutoActive bool        `json:"autoActive"`
	Busy       bool        `json:"busy"`
	Countdown  int         `json:"countdown"`
	Period     int         `json:"period"`
	LastRun    *RunOutcome `json:"lastRun,omitempty"`
}

// RunOutcome summarizes the most recently finished pipeline run.
type RunOutcome struct {
	RecordID   int64  `json:"recordId"`
	Title      string `json:"title,omitempty"`
	Status     string `json:"status"`
	Trigger    string `json:"trigger"`
	FinishedAt string `json:"finishedAt,omitempty"`
	Message    string `json:"message,omitempty"`
}

// StageHealth mirrors readiness reporting for pipeline stages.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool            `json:"running"`
	PID          int             `json:"pid"`
	LockFilePath string          `json:"lockFilePath"`
	Channel      ChannelStatus   `json:"channel"`
	Scheduler    SchedulerStatus `json:"scheduler"`
	UploadStats  map[string]int  `json:"uploadStats"`
	StageHealth  []StageHealth   `json:"stageHealth"`
}

// UploadListResponse wraps a collection of upload records for API responses.
type UploadListResponse struct {
	Records []UploadRecord `json:"records"`
}

// UploadRecordResponse wraps a single upload record.
type UploadRecordResponse struct {
	Record UploadRecord `json:"record"`
}
