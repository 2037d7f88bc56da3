// Package daemon coordinates the long-running autocast process.
//
// It wires configuration, the upload store, the channel gate, the pipeline
// engine, and the autopilot scheduler into a single lifecycle with
// flock-based locking to prevent multiple instances, and optionally serves a
// read-only HTTP status API with bearer-token auth. The facade methods here
// are the surface the IPC server exposes to CLI clients.
//
// Keep orchestration logic here: scheduling and stage behavior live in their
// own packages while the daemon focuses on startup, shutdown, and high level
// coordination.
package daemon
