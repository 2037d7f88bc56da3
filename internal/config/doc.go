// Package config loads, validates, and defaults the TOML configuration for
// the autocast daemon and CLI.
//
// Load resolves the config path (explicit flag, then the user config dir,
// then a project-local autocast.toml), merges the file over Default(),
// expands ~ in path fields, and validates every section. Helpers expose
// derived values (socket/lock/PID paths, durations) so callers never rebuild
// them from raw fields.
package config
