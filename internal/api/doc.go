// Package api defines wire-format types and converters for the IPC and HTTP
// API layer. It translates internal upload models into transport-friendly
// DTOs so external consumers never couple to internal types.
//
// # Key Types
//
// UploadRecord: transport representation of an upload record with trend
// metadata, publish metrics, and timestamps.
//
// ChannelStatus / SchedulerStatus: gate and autopilot snapshots for status
// surfaces, including the countdown and the last run outcome.
//
// DaemonStatus: aggregated runtime information served over HTTP and IPC.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for JavaScript/TypeScript consumers. Internal
// enums (uploads.Status, uploads.Stage, channel.State) are exposed as
// lowercase strings. Timestamps use RFC3339 with milliseconds. Stage health
// maps are flattened into name-sorted slices so payloads are deterministic.
package api
