// Package logs reads daemon log files for the CLI.
//
// Tail supports two access patterns: a negative offset fetches the last N
// lines for a quick status view, and a saved offset resumes an incremental
// read so `autocast logs -f` can stream new lines as the daemon writes them.
// Missing files are treated as empty rather than errors because the CLI may
// start tailing before the daemon has produced any output.
package logs
